package render

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/matzehuels/halgraph/pkg/errors"
)

// fakeRsvg puts an rsvg-convert script first on PATH. The script echoes its
// arguments so tests can check the requested format.
func fakeRsvg(t *testing.T, body string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	dir := t.TempDir()
	script := "#!/bin/sh\ncat > /dev/null\n" + body + "\n"
	if err := os.WriteFile(filepath.Join(dir, rsvgProgram), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestExport_ConvertedFormats(t *testing.T) {
	fakeRsvg(t, `echo "converted $*"`)
	doc := motorDocument(t)

	tests := []struct {
		format string
		want   string
	}{
		{FormatPDF, "converted -f pdf"},
		{FormatPNG, "converted -f png -z 2.00"},
	}
	for _, tt := range tests {
		data, err := Export(context.Background(), &stubEngine{svg: []byte(fakeSVG)}, doc, tt.format)
		if err != nil {
			t.Fatalf("Export(%s) error: %v", tt.format, err)
		}
		if !strings.HasPrefix(string(data), tt.want) {
			t.Errorf("Export(%s) = %q, want prefix %q", tt.format, data, tt.want)
		}
	}
}

func TestToPDF_Failures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"non-zero exit", "echo 'bad svg' >&2; exit 1"},
		{"empty output", "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeRsvg(t, tt.body)
			_, err := ToPDF(context.Background(), []byte(fakeSVG))
			if !errors.Is(err, errors.ErrCodeRenderFailure) {
				t.Errorf("ToPDF() error = %v, want RENDER_FAILURE", err)
			}
		})
	}
}

func TestToPDF_Missing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	_, err := ToPDF(context.Background(), []byte(fakeSVG))
	if !errors.Is(err, errors.ErrCodeRenderFailure) {
		t.Fatalf("ToPDF() error = %v, want RENDER_FAILURE", err)
	}
	if !strings.Contains(err.Error(), "librsvg") {
		t.Errorf("error %v should say how to install librsvg", err)
	}
}
