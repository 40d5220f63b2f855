package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"placebook/cmd"
	"placebook/internal/db"
	"placebook/internal/device"
	"placebook/internal/logging"
	"placebook/internal/model"
	"placebook/internal/places"
	"placebook/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	config, err := cmd.ParseFlags(os.Args[1:], version)
	if errors.Is(err, cmd.ErrVersionRequested) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, logFile, err := logging.OpenFile(config.LogPath, config.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)

	if !config.LocationAllowed {
		fmt.Fprintln(os.Stderr, "ℹ  Location access disabled. Run with -setup to change it")
	}

	database, err := db.Open(config.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", config.DBPath, "error", err)
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	store := db.NewKVStore(database)
	keys, err := store.Keys(context.Background())
	if err != nil {
		logger.Warn("failed to list stored keys", "error", err)
	}

	camera := device.NewCommandCamera(config.CaptureCommand, config.EditCommand, config.CaptureDir)
	camera.Logger = logger
	library := device.DirLibrary{Dir: config.LibraryDir}
	session := places.NewSession(store, camera, positioner(config), library, logger)

	logger.Info("starting",
		"version", version,
		"db", config.DBPath,
		"stored_keys", keys,
		"location_provider", config.LocationProvider,
		"capture", config.CaptureCommand,
	)

	p := tea.NewProgram(ui.New(session, ui.Options{PrefsPath: config.PrefsPath}), tea.WithAltScreen())
	camera.Terminal = p
	if _, err := p.Run(); err != nil {
		logger.Error("app exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}

func positioner(config *cmd.Config) places.Positioner {
	switch config.LocationProvider {
	case cmd.LocationFixed:
		return device.FixedPositioner{
			Coordinate: model.Coordinate{Latitude: config.FixedLatitude, Longitude: config.FixedLongitude},
			Allowed:    config.LocationAllowed,
		}
	case cmd.LocationOff:
		return device.FixedPositioner{Allowed: false}
	default:
		return device.NewIPPositioner(config.GeoIPURL, config.LocationAllowed)
	}
}
