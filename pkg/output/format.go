// Package output renders records, settings and dashboards as pretty tables,
// CSV or JSON.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/networth-forecast/internal/forecast"
	"github.com/iwvelando/networth-forecast/internal/storage"
	"github.com/iwvelando/networth-forecast/pkg/constants"
	"github.com/iwvelando/networth-forecast/pkg/format"
	"github.com/iwvelando/networth-forecast/pkg/mathutil"
	"github.com/iwvelando/networth-forecast/pkg/projection"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Records writes records in the named format.
func Records(w io.Writer, outputFormat string, records []storage.Record) error {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return CsvRecords(w, records)
	case constants.OutputFormatJSON:
		if records == nil {
			records = []storage.Record{}
		}
		return JSONFormat(w, records)
	default:
		PrettyRecords(w, records)
		return nil
	}
}

// Settings writes settings in the named format. stored reports whether the
// settings were written by a user or are the defaults.
func Settings(w io.Writer, outputFormat string, s storage.Settings, stored bool) error {
	switch outputFormat {
	case constants.OutputFormatCSV:
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"projection years", "custom growth percentage", "annual contribution", "stored"})
		_ = cw.Write([]string{
			strconv.Itoa(s.ProjectionYears),
			optionalNumber(s.CustomGrowthPercentage),
			optionalNumber(s.AnnualContribution),
			strconv.FormatBool(stored),
		})
		cw.Flush()
		return cw.Error()
	case constants.OutputFormatJSON:
		return JSONFormat(w, struct {
			storage.Settings
			Stored bool `json:"stored"`
		}{s, stored})
	default:
		PrettySettings(w, s, stored)
		return nil
	}
}

// Dashboard writes a dashboard in the named format.
func Dashboard(w io.Writer, outputFormat string, dash forecast.Dashboard) error {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return CsvSeries(w, dash.Series)
	case constants.OutputFormatJSON:
		return JSONFormat(w, dash)
	default:
		PrettyDashboard(w, dash)
		return nil
	}
}

// JSONFormat writes v as indented JSON.
func JSONFormat(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrettyRecords outputs a human-readable table of records.
func PrettyRecords(w io.Writer, records []storage.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No records yet. Add one or run `records seed`.")
		return
	}

	fmt.Fprintf(w, "Year | Age | Net Worth | Growth %% | Growth | ID\n")
	fmt.Fprintf(w, "____ | ___ | _________ | ________ | ______ | __\n")
	for _, r := range records {
		fmt.Fprintf(w, "%d | %d | %s | %s | %s | %s\n",
			r.Year, r.Age, format.WholeCurrency(r.NetWorth),
			optionalPercent(r.GrowthPercentage), optionalCurrency(r.GrowthAmount), r.ID)
	}
}

// CsvRecords outputs records in comma-separated value format. Absent growth
// fields are empty cells.
func CsvRecords(w io.Writer, records []storage.Record) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "year", "age", "net worth", "growth percentage", "growth amount"})
	for _, r := range records {
		_ = cw.Write([]string{
			r.ID,
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Age),
			number(r.NetWorth),
			optionalNumber(r.GrowthPercentage),
			optionalNumber(r.GrowthAmount),
		})
	}
	cw.Flush()
	return cw.Error()
}

// PrettySettings outputs the projection settings.
func PrettySettings(w io.Writer, s storage.Settings, stored bool) {
	p := message.NewPrinter(language.English)
	source := "stored"
	if !stored {
		source = "defaults"
	}
	fmt.Fprintf(w, "--- Settings (%s) ---\n", source)
	_, _ = p.Fprintf(w, "Projection years: %d\n", s.ProjectionYears)
	if s.CustomGrowthPercentage != nil {
		fmt.Fprintf(w, "Growth rate: %s (custom)\n", format.Percent(*s.CustomGrowthPercentage, 1))
	} else {
		fmt.Fprintf(w, "Growth rate: historical average\n")
	}
	if s.AnnualContribution != nil {
		fmt.Fprintf(w, "Annual contribution: %s\n", format.Currency(*s.AnnualContribution))
	} else {
		fmt.Fprintf(w, "Annual contribution: none\n")
	}
}

// PrettyDashboard outputs the summary, the chart series and the milestones.
func PrettyDashboard(w io.Writer, dash forecast.Dashboard) {
	p := message.NewPrinter(language.English)
	s := dash.Summary

	fmt.Fprintf(w, "--- Summary ---\n")
	if s.RecordCount == 0 {
		fmt.Fprintf(w, "No records yet. Add one or run `records seed`.\n")
	} else {
		_, _ = p.Fprintf(w, "Records: %d\n", s.RecordCount)
		fmt.Fprintf(w, "Current net worth: %s (%d, age %d)\n", format.WholeCurrency(s.LatestNetWorth), s.LatestYear, s.LatestAge)
		fmt.Fprintf(w, "Last year growth: %s (%s)\n", format.Percent(s.LatestGrowthPercent, 0), format.WholeCurrency(s.LatestGrowthAmount))
		fmt.Fprintf(w, "Total growth: %s\n", format.Percent(s.TotalGrowthPercent, 0))
		fmt.Fprintf(w, "Average annual growth: %s\n", format.Percent(s.AverageGrowthPercent, 1))
	}

	rate := "historical average"
	if s.CustomGrowth {
		rate = "custom"
	}
	fmt.Fprintf(w, "Projection growth rate: %s (%s)\n", format.Percent(s.EffectiveGrowthPercent, 1), rate)
	fmt.Fprintf(w, "Annual contribution: %s\n", format.WholeCurrency(s.EffectiveAnnualContribution))
	_, _ = p.Fprintf(w, "Projection years: %d\n", dash.Settings.ProjectionYears)

	if len(dash.Series) > 0 {
		fmt.Fprintf(w, "\n--- Projection ---\n")
		fmt.Fprintf(w, "Year | Age | Net Worth | Growth | Kind\n")
		fmt.Fprintf(w, "____ | ___ | _________ | ______ | ____\n")
		for _, pt := range dash.Series {
			kind := "historical"
			netWorth := optionalCurrency(pt.NetWorth)
			if pt.Projected {
				kind = "projected"
				netWorth = optionalCurrency(pt.ProjectedNetWorth)
			}
			fmt.Fprintf(w, "%d | %d | %s | %s | %s\n",
				pt.Year, pt.Age, netWorth, format.CompactCurrency(pt.CombinedGrowthAmount), kind)
		}
	}

	if len(dash.Milestones) > 0 {
		fmt.Fprintf(w, "\n--- Milestones ---\n")
		for _, m := range dash.Milestones {
			fmt.Fprintf(w, "Reach %s: %s\n", format.CompactCurrency(m.Target), MilestoneText(m))
		}
	}
}

// MilestoneText describes a milestone the way the dashboard cards do.
func MilestoneText(m projection.Milestone) string {
	switch m.Status {
	case projection.MilestoneAlreadyAchieved:
		return "Already achieved!"
	case projection.MilestoneReached:
		return fmt.Sprintf("%d, in %d years (age %d)", m.Year, m.Years, m.Age)
	default:
		return "Not within projection period"
	}
}

// CsvSeries outputs chart points in comma-separated value format.
func CsvSeries(w io.Writer, series []projection.ChartPoint) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"year", "age", "net worth", "projected net worth", "growth percentage", "growth amount", "projected"})
	for _, pt := range series {
		_ = cw.Write([]string{
			strconv.Itoa(pt.Year),
			strconv.Itoa(pt.Age),
			optionalNumber(pt.NetWorth),
			optionalNumber(pt.ProjectedNetWorth),
			number(pt.GrowthPercentage),
			number(pt.CombinedGrowthAmount),
			strconv.FormatBool(pt.Projected),
		})
	}
	cw.Flush()
	return cw.Error()
}

func number(v float64) string {
	return strconv.FormatFloat(mathutil.Round(v), 'f', -1, 64)
}

func optionalNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return number(*v)
}

func optionalPercent(v *float64) string {
	if v == nil {
		return "-"
	}
	return format.Percent(*v, 0)
}

func optionalCurrency(v *float64) string {
	if v == nil {
		return "-"
	}
	return format.WholeCurrency(*v)
}
