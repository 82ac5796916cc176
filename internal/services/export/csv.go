package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"FinCycle/internal/domain/models"
	"FinCycle/pkg/util"
)

const places = 2

// Header is the first CSV record.
var Header = []string{
	"name", "kind", "id", "latest_date", "latest_value",
	"yoy", "sequential", "acceleration", "phase", "source_url",
}

// WriteCSV writes one record per indicator. Metrics are rounded to two decimals;
// non-finite values are written as NaN, Inf or -Inf.
func WriteCSV(w io.Writer, views []models.IndicatorView) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, v := range views {
		if err := cw.Write(record(v.Processed)); err != nil {
			return fmt.Errorf("write csv row %s: %w", v.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func record(p models.ProcessedIndicator) []string {
	return []string{
		p.Name,
		string(p.Kind),
		p.ID,
		p.LatestDate,
		util.FormatDecimal(p.LatestValue, places),
		util.FormatDecimal(p.YearOverYearChange, places),
		util.FormatDecimal(p.SequentialChange, places),
		util.FormatDecimal(p.YoYAcceleration, places),
		string(p.Phase),
		p.SourceURL,
	}
}

// Filename is the attachment name of an export taken on date (YYYY-MM-DD).
func Filename(date string) string {
	return "indicators-" + date + ".csv"
}
