package cmd

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultCaptureCommand = "fswebcam --no-banner -r 1280x720 --jpeg {quality} {output}"

// Location providers.
const (
	LocationIP    = "ip"
	LocationFixed = "fixed"
	LocationOff   = "off"
)

// ErrVersionRequested is returned when -version was passed.
var ErrVersionRequested = errors.New("version requested")

// Config holds CLI configuration.
type Config struct {
	ConfigDir string
	DBPath    string
	LogPath   string
	LogLevel  string

	CaptureCommand string
	EditCommand    string
	CaptureDir     string
	LibraryDir     string

	LocationProvider string
	LocationAllowed  bool
	FixedLatitude    float64
	FixedLongitude   float64
	GeoIPURL         string

	PrefsPath string
}

// ParseFlags parses command-line flags and returns configuration.
// Flags win over environment variables, which win over onboarding answers.
func ParseFlags(args []string, version string) (*Config, error) {
	// Load .env files first so env-based defaults work with flag parsing.
	// Missing files are fine; existing environment variables are not overridden.
	for _, path := range []string{".env", ".env.local"} {
		_ = godotenv.Load(path)
	}

	config := &Config{}
	var lat, lon string
	var setup, showVersion bool

	fs := flag.NewFlagSet("placebook", flag.ContinueOnError)
	fs.StringVar(&config.ConfigDir, "config-dir", os.Getenv("PLACEBOOK_HOME"), "Directory for data, photos and settings (default: ~/.placebook)")
	fs.StringVar(&config.DBPath, "db", os.Getenv("PLACEBOOK_DB"), "Path to SQLite database file (default: <config-dir>/placebook.db)")
	fs.StringVar(&config.LogPath, "log", os.Getenv("PLACEBOOK_LOG"), "Path to the log file (default: <config-dir>/placebook.log)")
	fs.StringVar(&config.LogLevel, "log-level", envOr("PLACEBOOK_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	fs.StringVar(&config.CaptureCommand, "capture", os.Getenv("PLACEBOOK_CAPTURE_CMD"), "Photo capture command; {output} and {quality} are substituted")
	fs.StringVar(&config.EditCommand, "edit", os.Getenv("PLACEBOOK_EDIT_CMD"), "Optional command run on each capture before it is kept")
	fs.StringVar(&config.LocationProvider, "location", envOr("PLACEBOOK_LOCATION_PROVIDER", LocationIP), "Location provider: ip, fixed or off")
	fs.StringVar(&lat, "lat", os.Getenv("PLACEBOOK_LAT"), "Latitude for the fixed location provider")
	fs.StringVar(&lon, "lon", os.Getenv("PLACEBOOK_LON"), "Longitude for the fixed location provider")
	fs.StringVar(&config.GeoIPURL, "geoip-url", os.Getenv("PLACEBOOK_GEOIP_URL"), "Base URL of the IP geolocation service")
	fs.BoolVar(&setup, "setup", false, "Run the first-time setup again")
	fs.BoolVar(&showVersion, "version", false, "Print the version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if showVersion {
		fmt.Println("placebook", version)
		return nil, ErrVersionRequested
	}

	if config.ConfigDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		config.ConfigDir = filepath.Join(home, ".placebook")
	}
	if err := os.MkdirAll(config.ConfigDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if config.DBPath == "" {
		config.DBPath = filepath.Join(config.ConfigDir, "placebook.db")
	}
	if config.LogPath == "" {
		config.LogPath = filepath.Join(config.ConfigDir, "placebook.log")
	}
	config.LibraryDir = filepath.Join(config.ConfigDir, "photos")
	config.CaptureDir = filepath.Join(os.TempDir(), "placebook-captures")
	config.PrefsPath = filepath.Join(config.ConfigDir, "ui_prefs.json")

	settings, err := loadOnboardingSettings(config.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load onboarding settings: %w", err)
	}
	if setup || shouldRunOnboarding(settings) {
		settings, err = runOnboarding(config.ConfigDir, firstNonEmpty(config.CaptureCommand, settings.CaptureCommand))
		if err != nil {
			return nil, fmt.Errorf("failed to run onboarding: %w", err)
		}
	}

	config.CaptureCommand = firstNonEmpty(config.CaptureCommand, settings.CaptureCommand, defaultCaptureCommand)

	config.LocationAllowed = settings.LocationAllowed
	switch strings.ToLower(strings.TrimSpace(os.Getenv("PLACEBOOK_LOCATION"))) {
	case "on", "1", "true", "yes":
		config.LocationAllowed = true
	case "off", "0", "false", "no":
		config.LocationAllowed = false
	}

	config.LocationProvider = strings.ToLower(strings.TrimSpace(config.LocationProvider))
	switch config.LocationProvider {
	case LocationIP:
	case LocationOff:
		config.LocationAllowed = false
	case LocationFixed:
		if config.FixedLatitude, err = parseDegrees(lat, 90); err != nil {
			return nil, fmt.Errorf("invalid -lat: %w", err)
		}
		if config.FixedLongitude, err = parseDegrees(lon, 180); err != nil {
			return nil, fmt.Errorf("invalid -lon: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown location provider %q (want ip, fixed or off)", config.LocationProvider)
	}

	return config, nil
}

func parseDegrees(s string, limit float64) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, fmt.Errorf("required for the fixed location provider")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || v < -limit || v > limit {
		return 0, fmt.Errorf("%v is out of range ±%v", v, limit)
	}
	return v, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
