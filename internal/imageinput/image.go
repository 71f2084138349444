// Package imageinput reads image files into analysis payloads.
package imageinput

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/julianstephens/nutrilog/internal/analyzer"
	"github.com/julianstephens/nutrilog/internal/constants"
)

var (
	ErrNotImage = errors.New("file is not a supported image (jpeg, png, gif or webp)")
	ErrTooLarge = fmt.Errorf("image exceeds %d MB", constants.MaxImageBytes/(1024*1024))
	ErrEmpty    = errors.New("image file is empty")
)

var supported = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Load reads path and returns a base64 payload with its sniffed media type.
func Load(path string) (analyzer.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return analyzer.Image{}, fmt.Errorf("failed to read image: %w", err)
	}
	if info.IsDir() {
		return analyzer.Image{}, fmt.Errorf("failed to read image: %s is a directory", path)
	}
	if info.Size() > constants.MaxImageBytes {
		return analyzer.Image{}, ErrTooLarge
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return analyzer.Image{}, fmt.Errorf("failed to read image: %w", err)
	}
	return FromBytes(data)
}

// FromBytes encodes raw image bytes.
func FromBytes(data []byte) (analyzer.Image, error) {
	if len(data) == 0 {
		return analyzer.Image{}, ErrEmpty
	}
	if len(data) > constants.MaxImageBytes {
		return analyzer.Image{}, ErrTooLarge
	}
	mediaType := http.DetectContentType(data)
	if !supported[mediaType] {
		return analyzer.Image{}, ErrNotImage
	}
	return analyzer.Image{
		MediaType: mediaType,
		Data:      base64.StdEncoding.EncodeToString(data),
	}, nil
}
