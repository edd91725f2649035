package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/halgraph/pkg/errors"
	"github.com/matzehuels/halgraph/pkg/graph"
	"github.com/matzehuels/halgraph/pkg/observability"
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatPDF = "pdf"
	FormatPNG = "png"
	FormatDOT = "dot"
)

// pngScale renders PNGs at 2x for high-DPI displays.
const pngScale = 2.0

var validFormats = map[string]bool{FormatSVG: true, FormatPDF: true, FormatPNG: true, FormatDOT: true}

// FormatFromPath derives the output format from a file extension. Paths
// without an extension export SVG.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return FormatSVG, nil
	}
	if ext == "gv" {
		return FormatDOT, nil
	}
	if !validFormats[ext] {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported output format: .%s (must be .svg, .pdf, .png or .dot)", ext)
	}
	return ext, nil
}

// Export renders doc in the given format. DOT output never touches the layout
// engine; PDF and PNG are converted from the engine's SVG.
func Export(ctx context.Context, eng LayoutEngine, doc *graph.Document, format string) (data []byte, err error) {
	start := time.Now()
	observability.Graph().OnRenderStart(ctx, eng.Name(), format)
	defer func() {
		observability.Graph().OnRenderComplete(ctx, eng.Name(), format, len(data), time.Since(start), err)
	}()

	if format == FormatDOT {
		return []byte(eng.ToText(doc)), nil
	}
	if !validFormats[format] {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported output format: %s", format)
	}

	svg, err := eng.ToImage(ctx, doc)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatPDF:
		return ToPDF(ctx, svg)
	case FormatPNG:
		return ToPNG(ctx, svg, pngScale)
	default:
		return svg, nil
	}
}

// WriteFile writes data to path through a temporary file in the same
// directory, so a failed export never leaves a truncated file behind.
func WriteFile(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "chmod %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "rename to %s", path)
	}
	return nil
}
