package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/halgraph/pkg/errors"
	"github.com/matzehuels/halgraph/pkg/graph"
)

// Engine names accepted by [NewEngine].
const (
	EngineExec    = "exec"
	EngineBuiltin = "builtin"
)

// DefaultDotPath is the Graphviz program run by [ExecEngine] when no path is
// configured.
const DefaultDotPath = "dot"

// LayoutEngine lays out a document.
type LayoutEngine interface {
	// Name identifies the engine in logs and errors.
	Name() string
	// ToImage lays out doc and returns it as SVG.
	ToImage(ctx context.Context, doc *graph.Document) ([]byte, error)
	// ToText returns the textual graph description of doc.
	ToText(doc *graph.Document) string
}

// NewEngine returns the engine with the given name. dotPath only applies to
// the exec engine.
func NewEngine(name, dotPath string) (LayoutEngine, error) {
	switch name {
	case EngineExec, "":
		return ExecEngine{Path: dotPath}, nil
	case EngineBuiltin:
		return BuiltinEngine{}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown layout engine %q (must be '%s' or '%s')", name, EngineExec, EngineBuiltin)
	}
}

// ExecEngine runs the Graphviz dot program, one process per image.
type ExecEngine struct {
	Path string // dot executable; DefaultDotPath when empty
}

// Name implements [LayoutEngine].
func (e ExecEngine) Name() string { return EngineExec }

// ToText implements [LayoutEngine].
func (ExecEngine) ToText(doc *graph.Document) string { return ToDOT(doc) }

// ToImage implements [LayoutEngine]. It fails with RENDER_FAILURE when dot is
// missing, exits non-zero or writes something that is not SVG.
func (e ExecEngine) ToImage(ctx context.Context, doc *graph.Document) ([]byte, error) {
	path := e.Path
	if path == "" {
		path = DefaultDotPath
	}
	if _, err := exec.LookPath(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailure, err, "layout engine %s not found (install graphviz or use --engine %s)", path, EngineBuiltin)
	}

	cmd := exec.CommandContext(ctx, path, "-Tsvg")
	cmd.Stdin = strings.NewReader(ToDOT(doc))

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeRenderFailure, err, "%s: %s", path, strings.TrimSpace(errBuf.String()))
	}
	return finishSVG(path, out.Bytes())
}

// BuiltinEngine lays out documents in-process with a WebAssembly build of
// Graphviz, for hosts without a Graphviz install.
type BuiltinEngine struct{}

// Name implements [LayoutEngine].
func (BuiltinEngine) Name() string { return EngineBuiltin }

// ToText implements [LayoutEngine].
func (BuiltinEngine) ToText(doc *graph.Document) string { return ToDOT(doc) }

// ToImage implements [LayoutEngine].
func (BuiltinEngine) ToImage(ctx context.Context, doc *graph.Document) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailure, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(ToDOT(doc)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailure, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailure, err, "render")
	}
	return finishSVG(EngineBuiltin, buf.Bytes())
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// finishSVG checks that a layout engine produced an SVG document and resizes
// its root element. It fails with RENDER_FAILURE naming the engine otherwise.
func finishSVG(engine string, out []byte) ([]byte, error) {
	if !isSVG(out) {
		return nil, errors.New(errors.ErrCodeRenderFailure, "%s produced malformed output (%d bytes, no <svg> element)", engine, len(out))
	}
	return normalizeViewBox(out), nil
}

func isSVG(b []byte) bool {
	return svgTagRe.Match(b) && bytes.Contains(b, []byte("</svg>"))
}

// normalizeViewBox replaces the root <svg> element with one sized in user
// units. Graphviz sizes the root in points (width="123pt"), which browsers
// and rsvg-convert render at 4/3 scale; a unitless width and height equal to
// the viewBox extent keep exported SVG, PDF and PNG at the layout's size.
// Documents without a parsable viewBox are returned unchanged.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, errW := strconv.ParseFloat(string(m[3]), 64)
	h, errH := strconv.ParseFloat(string(m[4]), 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return svg
	}

	loc := svgTagRe.FindIndex(svg)
	if loc == nil {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return append(append(append([]byte{}, svg[:loc[0]]...), root...), svg[loc[1]:]...)
}
