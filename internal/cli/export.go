package cli

import (
	"context"
	"fmt"

	"github.com/matzehuels/halgraph/pkg/graph"
	"github.com/matzehuels/halgraph/pkg/render"
)

// runExport builds the graph once and writes it to output. The format follows
// the file extension.
func (c *CLI) runExport(ctx context.Context, cfg Config, output string) error {
	logger := loggerFromContext(ctx)

	format, err := render.FormatFromPath(output)
	if err != nil {
		return err
	}
	engine, err := render.NewEngine(cfg.Engine, cfg.Dot)
	if err != nil {
		return err
	}
	ns, err := c.NewProvider(cfg)
	if err != nil {
		return err
	}

	logger.Debug("exporting", "output", output, "format", format, "engine", engine.Name(), "source", sourceName(cfg))
	prog := newProgress(logger)

	spinner := newSpinner(ctx, "Reading HAL namespace...")
	spinner.Start()

	doc, err := graph.NewBuilder(ns).Build(ctx)
	if err != nil {
		spinner.StopWithError("Could not read the HAL namespace")
		return err
	}

	data, err := render.Export(ctx, engine, doc, format)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	if err := render.WriteFile(output, data); err != nil {
		spinner.StopWithError("Could not write " + output)
		return err
	}

	spinner.StopWithSuccess(fmt.Sprintf("Exported %s graph", format))
	printStats(doc.Count(graph.KindSignal), doc.Count(graph.KindGroup), doc.EdgeCount())
	printFile(output)
	prog.done(fmt.Sprintf("Exported %d nodes", doc.NodeCount()))
	return nil
}

// sourceName describes where the namespace is read from.
func sourceName(cfg Config) string {
	if cfg.Namespace != "" {
		return cfg.Namespace
	}
	if cfg.Halcmd != "" {
		return cfg.Halcmd
	}
	return "halcmd"
}
