package curveplot

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// WritePNGs saves one PNG per group into outputDir and returns the files
// written, in group order.
func WritePNGs(groups []Group, outputDir string) ([]string, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("no output directory configured")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	var files []string
	for _, g := range groups {
		file := filepath.Join(outputDir, fileStem(g.Path)+".png")
		if err := writeGroupPNG(g, file); err != nil {
			return files, fmt.Errorf("path %q: %w", g.Path, err)
		}
		files = append(files, file)
	}
	return files, nil
}

func writeGroupPNG(g Group, file string) error {
	p := plot.New()
	p.Title.Text = g.Title()
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Value"

	colors := generateColors(len(g.Series))
	for i, s := range g.Series {
		pts := make(plotter.XYs, 0, len(s.Points))
		for _, k := range s.Points {
			pts = append(pts, plotter.XY{X: k.Time, Y: float64(k.Value)})
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.Label(), line)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(14*vg.Inch, 6*vg.Inch, file); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
