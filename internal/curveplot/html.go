package curveplot

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// HTMLOptions controls the rendered page. An empty AssetsHost keeps the
// go-echarts default CDN.
type HTMLOptions struct {
	PageTitle  string
	Subtitle   string
	AssetsHost string
}

// RenderHTML writes a page with one line chart per group.
func RenderHTML(w io.Writer, groups []Group, o HTMLOptions) error {
	page := components.NewPage()
	if o.PageTitle != "" {
		page.PageTitle = o.PageTitle
	}
	if o.AssetsHost != "" {
		page.SetAssetsHost(o.AssetsHost)
	}

	for _, g := range groups {
		page.AddCharts(lineChart(g, o))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	return nil
}

func lineChart(g Group, o HTMLOptions) *charts.Line {
	init := opts.Initialization{Width: "100%", Height: "420px"}
	if o.AssetsHost != "" {
		init.AssetsHost = o.AssetsHost
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(init),
		charts.WithTitleOpts(opts.Title{Title: g.Title(), Subtitle: o.Subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Time (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Value"}),
	)

	colors := generateColors(len(g.Series))
	for i, s := range g.Series {
		data := make([]opts.LineData, 0, len(s.Points))
		for _, k := range s.Points {
			data = append(data, opts.LineData{Value: []interface{}{k.Time, k.Value}})
		}
		line.AddSeries(s.Label(), data,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(colors[i])}),
		)
	}
	return line
}
