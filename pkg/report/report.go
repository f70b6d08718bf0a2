package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/trendline/pkg/core"
	"github.com/raykavin/trendline/pkg/metric"
	"github.com/samber/lo"
)

// Stats summarizes one series
type Stats struct {
	Series   string
	Points   int
	Missing  int
	Min      float64
	Max      float64
	Mean     float64
	StdDev   float64
	Last     float64
	Growth   float64
	Interval metric.Interval
}

// Summarize computes the statistics of every series, in order.
// samples controls the bootstrap confidence interval of the mean; zero skips it.
func Summarize(series []core.Series, samples int) []Stats {
	return lo.Map(series, func(s core.Series, _ int) Stats {
		values := s.Values()
		defined := metric.Defined(values)
		low, high, _ := metric.Bounds(values)

		last := math.NaN()
		if len(defined) > 0 {
			last = defined[len(defined)-1]
		}

		return Stats{
			Series:   s.Name,
			Points:   len(values),
			Missing:  len(values) - len(defined),
			Min:      low,
			Max:      high,
			Mean:     metric.Mean(values),
			StdDev:   metric.StdDev(values),
			Last:     last,
			Growth:   metric.Growth(values),
			Interval: metric.Bootstrap(s, metric.Mean, samples, 0.95),
		}
	})
}

// Table renders the statistics of a chart as a text table
func Table(title string, stats []Stats) string {
	buffer := &strings.Builder{}
	table := tablewriter.NewWriter(buffer)
	table.SetHeader([]string{"Series", "Points", "Missing", "Min", "Max", "Mean", "Std Dev", "Last", "Growth", "Mean CI (95%)"})
	table.SetCaption(title != "", title)
	table.SetFooterAlignment(tablewriter.ALIGN_RIGHT)

	points, missing := 0, 0
	for _, s := range stats {
		table.Append([]string{
			s.Series,
			strconv.Itoa(s.Points),
			strconv.Itoa(s.Missing),
			number(s.Min),
			number(s.Max),
			number(s.Mean),
			number(s.StdDev),
			number(s.Last),
			percent(s.Growth),
			interval(s.Interval),
		})
		points += s.Points
		missing += s.Missing
	}

	table.SetFooter([]string{"TOTAL", strconv.Itoa(points), strconv.Itoa(missing), "", "", "", "", "", "", ""})
	table.Render()

	return buffer.String()
}

// Histogram prints the distribution of every defined value of the given series
func Histogram(w io.Writer, series []core.Series, bins int) error {
	values := lo.FlatMap(series, func(s core.Series, _ int) []float64 {
		return metric.Defined(s.Values())
	})
	if len(values) == 0 {
		_, err := fmt.Fprintln(w, "no values")
		return err
	}

	hist := histogram.Hist(bins, values)
	return histogram.Fprint(w, hist, histogram.Linear(10))
}

func number(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

func percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return fmt.Sprintf("%.1f %%", v*100)
}

func interval(i metric.Interval) string {
	if !i.Valid() {
		return "-"
	}
	return fmt.Sprintf("%.2f .. %.2f", i.Low, i.High)
}
