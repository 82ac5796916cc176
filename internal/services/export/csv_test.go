package export

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"

	"FinCycle/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func view(p models.ProcessedIndicator) models.IndicatorView {
	return models.IndicatorView{IndicatorDefinition: p.IndicatorDefinition, Processed: p}
}

func TestWriteCSV(t *testing.T) {
	views := []models.IndicatorView{
		view(models.ProcessedIndicator{
			IndicatorDefinition: models.IndicatorDefinition{
				ID: "UMCSENT", Name: "Consumer Sentiment, Michigan", Kind: models.KindLeading,
				SourceURL: "https://fred.stlouisfed.org/series/UMCSENT",
			},
			LatestValue:        57.04,
			LatestDate:         "Mar 1, 2025",
			YearOverYearChange: -10.456,
			SequentialChange:   2.5,
			YoYAcceleration:    0.004,
			Phase:              models.Phase4,
		}),
		view(models.ProcessedIndicator{
			IndicatorDefinition: models.IndicatorDefinition{ID: "ICSA", Name: "Initial Claims", Kind: models.KindCounterCyclical},
			LatestValue:         math.NaN(),
			LatestDate:          "Insufficient data",
			YearOverYearChange:  math.Inf(1),
			SequentialChange:    math.Inf(-1),
			YoYAcceleration:     math.NaN(),
			Phase:               models.PhaseError,
		}),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, views))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Header, records[0])
	assert.Equal(t, []string{
		"Consumer Sentiment, Michigan", "Leading", "UMCSENT", "Mar 1, 2025", "57.04",
		"-10.46", "2.50", "0.00", "Phase4", "https://fred.stlouisfed.org/series/UMCSENT",
	}, records[1])
	assert.Equal(t, []string{
		"Initial Claims", "Counter-cyclical", "ICSA", "Insufficient data", "NaN",
		"Inf", "-Inf", "NaN", "Error", "",
	}, records[2])
	assert.Contains(t, buf.String(), `"Consumer Sentiment, Michigan"`)
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, strings.Join(Header, ",")+"\n", buf.String())
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "indicators-2025-03-01.csv", Filename("2025-03-01"))
}
