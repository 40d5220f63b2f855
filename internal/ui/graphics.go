package ui

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"placebook/internal/model"

	"github.com/qeesung/image2ascii/convert"
)

// mapDelta is the half extent in degrees of the region drawn around a coordinate.
const mapDelta = 0.01

// RenderPhoto renders the photo file at ref as colored ASCII art.
func RenderPhoto(ref string, targetWidth, targetHeight int) (string, error) {
	if targetWidth <= 0 || targetHeight <= 0 {
		return "", fmt.Errorf("no room to render photo")
	}

	f, err := os.Open(ref)
	if err != nil {
		return "", fmt.Errorf("failed to open photo: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode photo: %w", err)
	}

	return convertToASCII(img, targetWidth, targetHeight), nil
}

// convertToASCII converts an image to colored ASCII art.
func convertToASCII(img image.Image, targetWidth, targetHeight int) string {
	converter := convert.NewImageConverter()

	opts := convert.DefaultOptions
	opts.FixedWidth = targetWidth
	opts.FixedHeight = targetHeight
	opts.FitScreen = false
	opts.Colored = true
	opts.Ratio = 0.5

	return converter.Image2ASCIIString(img, &opts)
}

// RenderMap draws the region of ±mapDelta degrees around c as a character
// grid with a marker at the center and the region bounds on the edges.
func RenderMap(c model.Coordinate, width, height int) string {
	width = max(width, 11)
	height = max(height, 5)
	if width%2 == 0 {
		width--
	}
	if height%2 == 0 {
		height--
	}

	north := fmt.Sprintf("%.3f", c.Latitude+mapDelta)
	south := fmt.Sprintf("%.3f", c.Latitude-mapDelta)
	west := fmt.Sprintf("%.3f", c.Longitude-mapDelta)
	east := fmt.Sprintf("%.3f", c.Longitude+mapDelta)

	midRow, midCol := height/2, width/2
	var b strings.Builder
	b.WriteString(centerText(north, width+2) + "\n")
	b.WriteString("┌" + strings.Repeat("─", width) + "┐\n")
	for row := 0; row < height; row++ {
		b.WriteString("│")
		for col := 0; col < width; col++ {
			switch {
			case row == midRow && col == midCol:
				b.WriteString("◉")
			case row == midRow:
				b.WriteString("·")
			case col == midCol:
				b.WriteString("·")
			default:
				b.WriteString(" ")
			}
		}
		b.WriteString("│\n")
	}
	b.WriteString("└" + strings.Repeat("─", width) + "┘\n")
	b.WriteString(centerText(south, width+2) + "\n")

	gap := max(1, width+2-len(west)-len(east))
	b.WriteString(west + strings.Repeat(" ", gap) + east)
	return b.String()
}

func centerText(s string, width int) string {
	pad := (width - len(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}
