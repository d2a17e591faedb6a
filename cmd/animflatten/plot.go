package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/banshee-data/animflatten/internal/curveplot"
	"github.com/banshee-data/animflatten/internal/jobfile"
)

func runPlot(args []string) error {
	fs := flag.NewFlagSet("plot", flag.ContinueOnError)
	resultPath := fs.String("result", "", "merge result JSON written by 'animflatten merge'")
	step := fs.Float64("step", 1.0/30, "sample step in seconds")
	plotDir := fs.String("plot-dir", "", "write one PNG per object path into this directory")
	htmlPath := fs.String("html", "", "write an HTML chart page to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *resultPath == "" {
		return fmt.Errorf("-result is required")
	}
	if *plotDir == "" && *htmlPath == "" {
		return fmt.Errorf("one of -plot-dir or -html is required")
	}
	if *step <= 0 {
		return fmt.Errorf("-step must be positive, got %g", *step)
	}

	in, err := os.Open(*resultPath)
	if err != nil {
		return fmt.Errorf("failed to open result: %w", err)
	}
	defer in.Close()
	res, err := jobfile.ReadResult(in)
	if err != nil {
		return err
	}

	groups := curveplot.Collect(res.ChannelSet(), *step)
	return writeCharts(groups, *plotDir, *htmlPath, curveplot.HTMLOptions{
		PageTitle: res.Name,
		Subtitle:  "run " + res.RunID,
	})
}
