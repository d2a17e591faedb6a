package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/banshee-data/animflatten/internal/config"
	"github.com/banshee-data/animflatten/internal/curveplot"
	"github.com/banshee-data/animflatten/internal/flatten/pipeline"
	"github.com/banshee-data/animflatten/internal/jobfile"
	"github.com/banshee-data/animflatten/internal/monitoring"
)

type mergeFlags struct {
	job     string
	config  string
	output  string
	plotDir string
	html    string
	quiet   bool
}

func parseMergeFlags(args []string) (*mergeFlags, error) {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	f := &mergeFlags{}
	fs.StringVar(&f.job, "job", "", "job file (.json, .yaml or .yml)")
	fs.StringVar(&f.config, "config", "", "merge tuning JSON (defaults apply when empty)")
	fs.StringVar(&f.output, "o", "-", "output path for the merged result, - for stdout")
	fs.StringVar(&f.plotDir, "plot-dir", "", "write one PNG per object path into this directory")
	fs.StringVar(&f.html, "html", "", "write an HTML chart page to this path")
	fs.BoolVar(&f.quiet, "quiet", false, "suppress progress and diagnostic logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if f.job == "" {
		return nil, fmt.Errorf("-job is required")
	}
	return f, nil
}

func loadConfig(path string) (*config.MergeConfig, error) {
	cfg := config.EmptyMergeConfig()
	if path != "" {
		var err error
		if cfg, err = config.LoadMergeConfig(path); err != nil {
			return nil, err
		}
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runMerge(args []string, stdout io.Writer) error {
	f, err := parseMergeFlags(args)
	if err != nil {
		return err
	}
	if f.quiet {
		monitoring.SetLogger(nil)
	}

	cfg, err := loadConfig(f.config)
	if err != nil {
		return err
	}
	job, err := jobfile.Load(f.job)
	if err != nil {
		return err
	}

	set, report := pipeline.MergeWithOptions(job.BuildStacks(), job.Hierarchy, job.Offset(), pipeline.OptionsFromConfig(cfg))
	report.Flush(monitoring.Logf)

	res := jobfile.NewResult(job.Name, set, report)
	if f.output == "-" {
		if err := res.Write(stdout); err != nil {
			return err
		}
	} else {
		if err := res.WriteFile(f.output); err != nil {
			return err
		}
		monitoring.Logf("✓ Wrote %d channels to %s", set.Len(), f.output)
	}

	if f.plotDir == "" && f.html == "" {
		return nil
	}
	groups := curveplot.Collect(set, cfg.GetPlotSampleStep())
	return writeCharts(groups, f.plotDir, f.html, curveplot.HTMLOptions{
		PageTitle: job.Name,
		Subtitle:  "run " + report.RunID,
	})
}

func writeCharts(groups []curveplot.Group, plotDir, htmlPath string, o curveplot.HTMLOptions) error {
	if plotDir != "" {
		files, err := curveplot.WritePNGs(groups, plotDir)
		if err != nil {
			return err
		}
		monitoring.Logf("✓ Wrote %d plots to %s", len(files), plotDir)
	}
	if htmlPath != "" {
		out, err := os.Create(htmlPath)
		if err != nil {
			return fmt.Errorf("failed to create html output: %w", err)
		}
		if err := curveplot.RenderHTML(out, groups, o); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		monitoring.Logf("✓ Wrote chart page to %s", htmlPath)
	}
	return nil
}
