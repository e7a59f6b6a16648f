package charts

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/sip-plugins/overlays/consts"
	"github.com/sip-plugins/overlays/db"
)

// pressureSeries holds one day of readings as chart axis labels and values.
type pressureSeries struct {
	Times  []string
	Values []opts.LineData
	Max    int
}

// buildPressureSeries labels every reading with its time of day. A day
// without readings becomes a flat zero line from midnight to midnight.
func buildPressureSeries(samples []db.Sample) pressureSeries {
	if len(samples) == 0 {
		return pressureSeries{
			Times:  []string{"00:00", "23:59"},
			Values: []opts.LineData{{Value: 0}, {Value: 0}},
		}
	}

	var ps pressureSeries
	for _, s := range samples {
		ps.Times = append(ps.Times, s.Time.Format("15:04"))
		ps.Values = append(ps.Values, opts.LineData{Value: s.PSI})
		ps.Max = max(ps.Max, s.PSI)
	}
	return ps
}

func buildPressureChart(date time.Time, samples []db.Sample) *charts.Line {
	ps := buildPressureSeries(samples)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:           consts.ChartWidth,
			Height:          consts.ChartHeight,
			BackgroundColor: consts.ChartBackgroundColor,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      "Pressure Log",
			Subtitle:   date.Format(consts.ChartDateFormat),
			TitleStyle: &opts.TextStyle{Color: consts.ChartTextColor},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:         "Time",
			NameLocation: "center",
			NameGap:      30,
			AxisLabel: &opts.AxisLabel{
				Color: consts.ChartTextColor,
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         "PSI",
			NameLocation: "center",
			NameGap:      40,
			AxisLabel: &opts.AxisLabel{
				Color: consts.ChartTextColor,
			},
		}),
		charts.WithGridOpts(opts.Grid{
			Left:   "80",
			Bottom: "60",
		}),
	)

	line.SetXAxis(ps.Times)
	line.AddSeries("Pressure", ps.Values)
	line.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
	)
	return line
}

// ChartHandler renders an interactive chart of the date query parameter's
// pressure readings.
func ChartHandler(dbConn *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := time.ParseInLocation(consts.DateFormat, r.URL.Query().Get("date"), time.Local)
		if err != nil {
			http.Error(w, "Invalid date", http.StatusBadRequest)
			return
		}
		seq, err := db.SelectSamples(dbConn, date)
		if err != nil {
			log.Printf("Error loading pressure samples: %v", err)
			http.Error(w, "Failed to load data", http.StatusInternalServerError)
			return
		}
		var samples []db.Sample
		for s := range seq {
			samples = append(samples, s)
		}

		page := components.NewPage()
		page.PageTitle = "Pressure Log"
		page.AddCharts(buildPressureChart(date, samples))

		w.Header().Set("Content-Type", "text/html")
		_ = page.Render(w)
	}
}
