package displayservice

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability/attr"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// LoadFace loads dir/name at size pixels. A missing or unreadable font falls
// back to the built in 7x13 face.
func LoadFace(dir, name string, size int, logger *slog.Logger) font.Face {
	path := filepath.Join(dir, name)
	face, err := loadOpenType(path, size)
	if err != nil {
		logger.Warn("Font not available, using default",
			attr.String("font_path", path),
			attr.Error(err),
		)
		return basicfont.Face7x13
	}
	logger.Debug("Loaded font", attr.String("font", name), attr.Int("size", size))
	return face
}

func loadOpenType(path string, size int) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// LoadLogo decodes the image at path and scales it to height, keeping its
// aspect ratio. It returns nil when the logo cannot be used.
func LoadLogo(path string, height int, logger *slog.Logger) image.Image {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("Logo not available", attr.String("logo_path", path), attr.Error(err))
		return nil
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		logger.Warn("Failed to decode logo", attr.String("logo_path", path), attr.Error(err))
		return nil
	}
	logger.Debug("Loaded logo", attr.String("logo_path", path), attr.String("format", format))
	return ScaleToHeight(src, height)
}

// ScaleToHeight resizes src with nearest neighbour sampling.
func ScaleToHeight(src image.Image, height int) image.Image {
	b := src.Bounds()
	if b.Dy() == 0 || height <= 0 {
		return nil
	}
	width := b.Dx() * height / b.Dy()
	if width < 1 {
		width = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
