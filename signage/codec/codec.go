// Package codec normalizes upstream image blobs into size-bounded, uniformly
// encoded files. Input is base64 (optionally data-URI prefixed) in whatever
// format the upstream exports; output never exceeds the configured bounding
// box and is always re-encoded, so identical input yields identical bytes.
package codec

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	DefaultMaxWidth  = 1280
	DefaultMaxHeight = 720
	DefaultQuality   = 85
)

type Config struct {
	MaxWidth  int
	MaxHeight int
	Format    imaging.Format
	Quality   int
}

type Codec struct {
	maxWidth  int
	maxHeight int
	format    imaging.Format
	quality   int
}

func New(cfg Config) *Codec {
	if cfg.MaxWidth <= 0 {
		cfg.MaxWidth = DefaultMaxWidth
	}
	if cfg.MaxHeight <= 0 {
		cfg.MaxHeight = DefaultMaxHeight
	}
	if cfg.Quality <= 0 {
		cfg.Quality = DefaultQuality
	}

	return &Codec{
		maxWidth:  cfg.MaxWidth,
		maxHeight: cfg.MaxHeight,
		format:    cfg.Format,
		quality:   cfg.Quality,
	}
}

// Normalize decodes a raw base64 blob, downscales it to fit the bounding box
// while preserving aspect ratio, and re-encodes it to the output format.
// All decode and encode failures surface as a single wrapped error; no
// partial output is ever produced.
func (c *Codec) Normalize(raw string) ([]byte, error) {
	data, err := decodeBase64(raw)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	// Fit never upscales and always yields NRGBA, which also maps palette
	// and exotic color modes to a serializable one.
	img = imaging.Fit(img, c.maxWidth, c.maxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, c.format, imaging.JPEGQuality(c.quality)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	return buf.Bytes(), nil
}

// Ext returns the file extension for cached output, including the dot.
func (c *Codec) Ext() string {
	switch c.format {
	case imaging.PNG:
		return ".png"
	case imaging.GIF:
		return ".gif"
	case imaging.BMP:
		return ".bmp"
	case imaging.TIFF:
		return ".tiff"
	default:
		return ".jpg"
	}
}

// ContentType returns the MIME type matching the output format.
func (c *Codec) ContentType() string {
	switch c.format {
	case imaging.PNG:
		return "image/png"
	case imaging.GIF:
		return "image/gif"
	case imaging.BMP:
		return "image/bmp"
	case imaging.TIFF:
		return "image/tiff"
	default:
		return "image/jpeg"
	}
}

// decodeBase64 strips an optional data-URI scheme marker and any stray
// whitespace the upstream embeds, then decodes the remainder.
func decodeBase64(raw string) ([]byte, error) {
	if strings.HasPrefix(raw, "data:") {
		if _, rest, ok := strings.Cut(raw, ","); ok {
			raw = rest
		}
	}

	raw = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, raw)

	return base64.StdEncoding.DecodeString(raw)
}
