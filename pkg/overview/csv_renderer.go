package overview

import (
	"bytes"
	"encoding/csv"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/timebudget/timebudget/pkg/cost"
)

type Renderer interface {
	Render(overview Overview) (string, error)
}

// CsvRenderer renders one row per time entry followed by the budget totals.
type CsvRenderer struct {
	currency string
}

func NewCsvRenderer(currency string) *CsvRenderer {
	return &CsvRenderer{currency: currency}
}

func (r *CsvRenderer) Render(overview Overview) (string, error) {
	rate := overview.Customer.HourlyRate
	data := make([][]string, 0, len(overview.TimeEntries)+4)
	data = append(data, []string{"Date", "Description", "Duration", fmt.Sprintf("Cost (%s)", r.currency)})
	for _, e := range overview.TimeEntries {
		data = append(data, []string{
			e.StartTime.Format("02/01/2006"),
			e.Description,
			durationToString(e.DurationSeconds),
			cost.Of(e.DurationSeconds, rate).StringFixed(2),
		})
	}
	// totals are rounded first so the printed remaining is their exact difference
	totalBudget := overview.TotalBudget.Round(2)
	totalCosts := overview.TotalTimeCosts.Round(2)
	data = append(data,
		[]string{"Total budget", "", "", totalBudget.StringFixed(2)},
		[]string{"Time costs", "", durationToString(overview.TotalSeconds()), totalCosts.StringFixed(2)},
		[]string{"Remaining", "", "", totalBudget.Sub(totalCosts).StringFixed(2)},
	)

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	if err := writer.WriteAll(data); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	return b.String(), nil
}

func durationToString(seconds int64) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}
