package report

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/disintegration/imaging"
)

// Embedded photos are stored at 4:3, matching the 200x150 pt display box.
const (
	embedWidth  = 800
	embedHeight = 600
)

var errImageMissing = errors.New("image not found")

// loadImage decodes the photo at path, applies EXIF orientation, scales it to
// the display aspect and re-encodes it as JPEG.
func loadImage(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return nil, errImageMissing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img = imaging.Resize(img, embedWidth, embedHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
