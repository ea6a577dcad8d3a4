package simulate

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Chart dimensions.
const (
	chartWidth  = "1200px"
	chartHeight = "500px"
)

// RenderChart writes an interactive HTML bar chart of solver attempts per
// run. Failed runs are drawn as a separate series so they stand out.
func RenderChart(w io.Writer, report *Report) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  chartWidth,
			Height: chartHeight,
			Theme:  "light",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Auto draft attempts per run",
			Subtitle: fmt.Sprintf("%d teams x %d, band [%g, %g], %.1f%% complete",
				report.Settings.TeamsCount, report.Settings.TeammatesPerTeam,
				report.Settings.MinScore, report.Settings.MaxScore, report.Stats.SuccessRate()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
	)

	labels := make([]string, len(report.Results))
	completed := make([]opts.BarData, len(report.Results))
	failed := make([]opts.BarData, len(report.Results))
	for i, r := range report.Results {
		labels[i] = strconv.Itoa(r.Run + 1)
		if r.Success && !r.Violation {
			completed[i] = opts.BarData{Value: r.Attempts}
			failed[i] = opts.BarData{Value: 0}
		} else {
			completed[i] = opts.BarData{Value: 0}
			failed[i] = opts.BarData{Value: r.Attempts}
		}
	}

	bar.SetXAxis(labels).
		AddSeries("completed", completed).
		AddSeries("failed", failed).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// WriteChart renders the chart into the file at path.
func WriteChart(path string, report *Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := RenderChart(f, report); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
