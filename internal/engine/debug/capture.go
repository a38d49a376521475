// Package debug provides capture utilities for inspecting render targets.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
)

// Format is an image file format.
type Format string

const (
	FormatPNG Format = "png"
	FormatBMP Format = "bmp"
)

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatPNG, FormatBMP:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported capture format %q", s)
	}
}

// PixelSource is a render target whose RGBA pixels can be read back.
type PixelSource interface {
	Size() (width, height int32)
	ReadPixels() []byte
}

// Capture writes render target snapshots to disk.
type Capture struct {
	outputDir string
	prefix    string
	format    Format
	now       func() time.Time
}

// NewCapture creates a capture handler writing prefix_<timestamp>.<format>
// files to outputDir.
func NewCapture(outputDir, prefix string, format Format) *Capture {
	if format == "" {
		format = FormatPNG
	}
	return &Capture{
		outputDir: outputDir,
		prefix:    prefix,
		format:    format,
		now:       time.Now,
	}
}

// SetOutputDir sets the output directory.
func (c *Capture) SetOutputDir(dir string) {
	c.outputDir = dir
}

// Filename returns the path a capture of the named source is written to.
// An empty name leaves just prefix and timestamp.
func (c *Capture) Filename(name string) string {
	timestamp := c.now().Format("2006-01-02_15-04-05.000")
	base := c.prefix
	if name != "" {
		base += "_" + name
	}
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, c.format)
	if c.outputDir != "" {
		filename = filepath.Join(c.outputDir, filename)
	}
	return filename
}

// FlipRows builds an image from bottom-up RGBA rows as returned by
// glReadPixels. pixels must hold width*height*4 bytes.
func FlipRows(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}

// SaveTarget reads back src and writes it as a new capture file named
// after it.
func (c *Capture) SaveTarget(name string, src PixelSource) (string, error) {
	w, h := src.Size()
	return c.SavePixels(name, src.ReadPixels(), int(w), int(h))
}

// SavePixels writes bottom-up RGBA pixels as a new capture file.
func (c *Capture) SavePixels(name string, pixels []byte, width, height int) (string, error) {
	img, err := FlipRows(pixels, width, height)
	if err != nil {
		return "", err
	}
	return c.SaveImage(name, img)
}

// SaveImage writes img as a new capture file.
func (c *Capture) SaveImage(name string, img image.Image) (string, error) {
	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}
	filename := c.Filename(name)
	if err := SaveImageAs(filename, img, c.format); err != nil {
		return "", err
	}
	return filename, nil
}

// SaveImageTo writes img to path, picking the format from the extension.
func SaveImageTo(path string, img image.Image) error {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	return SaveImageAs(path, img, format)
}

// SaveImageAs writes img to path in the given format.
func SaveImageAs(path string, img image.Image, format Format) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	return Encode(file, img, format)
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatBMP:
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("encoding BMP: %w", err)
		}
	case FormatPNG:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encoding PNG: %w", err)
		}
	default:
		return fmt.Errorf("unsupported capture format %q", format)
	}
	return nil
}
