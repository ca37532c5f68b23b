// Package pdfx derives artifacts from PDF payloads: a first-page raster
// image and plain text. All work is process-local.
package pdfx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ledongthuc/pdf"

	"resulens-backend/internal/shared/util"
)

// ErrConversion wraps every first-page rasterization failure: empty or
// malformed payloads, a broken page tree, and renderer errors.
var ErrConversion = errors.New("pdf conversion failed")

// Image is a rendered page artifact named after the source file's stem.
type Image struct {
	Name string
	Data []byte
}

// Converter renders the first page of a PDF payload as a raster image.
type Converter interface {
	FirstPageImage(ctx context.Context, data []byte, fileName string) (Image, error)
}

// PopplerConverter renders via a local pdftoppm-compatible binary.
type PopplerConverter struct {
	Bin    string
	DPI    int
	runner commandRunner
}

// NewPopplerConverter constructs a converter around the given binary and DPI.
func NewPopplerConverter(bin string, dpi int) *PopplerConverter {
	if bin == "" {
		bin = "pdftoppm"
	}
	if dpi <= 0 {
		dpi = 150
	}
	return &PopplerConverter{Bin: bin, DPI: dpi, runner: &execRunner{}}
}

// FirstPageImage validates the payload, renders page 1 as PNG, and returns
// the image named "<stem>.png". Multi-page documents always render page 1.
func (c *PopplerConverter) FirstPageImage(ctx context.Context, data []byte, fileName string) (Image, error) {
	if err := validatePDF(data); err != nil {
		return Image{}, err
	}

	dir, err := os.MkdirTemp("", "pdfx-*")
	if err != nil {
		return Image{}, fmt.Errorf("%w: temp dir: %v", ErrConversion, err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "in.pdf")
	if err := os.WriteFile(inPath, data, 0o600); err != nil {
		return Image{}, fmt.Errorf("%w: write input: %v", ErrConversion, err)
	}

	outBase := filepath.Join(dir, "page1")
	args := []string{"-png", "-f", "1", "-l", "1", "-singlefile", "-r", strconv.Itoa(c.DPI), inPath, outBase}
	if result, err := c.runner.Run(ctx, c.Bin, args...); err != nil {
		return Image{}, fmt.Errorf("%w: %s exit=%d: %v", ErrConversion, c.Bin, result.ExitCode, err)
	}

	img, err := os.ReadFile(outBase + ".png")
	if err != nil {
		return Image{}, fmt.Errorf("%w: read output: %v", ErrConversion, err)
	}
	if len(img) == 0 {
		return Image{}, fmt.Errorf("%w: renderer produced an empty image", ErrConversion)
	}

	return Image{Name: util.FileStem(fileName) + ".png", Data: img}, nil
}

// validatePDF rejects payloads the renderer would fail on anyway, with a
// precise reason: empty input, unreadable structure, or a missing page 1.
func validatePDF(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty payload", ErrConversion)
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConversion, err)
	}
	if reader.NumPage() < 1 {
		return fmt.Errorf("%w: document has no pages", ErrConversion)
	}
	if reader.Page(1).V.IsNull() {
		return fmt.Errorf("%w: page 1 is unreadable", ErrConversion)
	}
	return nil
}

var _ Converter = (*PopplerConverter)(nil)
