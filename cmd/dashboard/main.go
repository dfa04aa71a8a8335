//go:build dashboard

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rivo/tview"
)

// metric mirrors telemetry.RequestMetric as it comes off the wire.
type metric struct {
	Endpoint string        `json:"endpoint"`
	Status   int           `json:"status"`
	Duration time.Duration `json:"duration"`
}

type ageThreshold struct {
	AgeThresholdMS int64 `json:"age_threshold_ms"`
}

func fetchMetrics() ([]metric, error) {
	resp, err := http.Get("http://localhost:8080/metrics")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var m []metric
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

func fetchAgeThreshold() (ageThreshold, error) {
	var a ageThreshold
	resp, err := http.Get("http://localhost:8080/admin/recovery/age")
	if err != nil {
		return a, err
	}
	defer resp.Body.Close()
	err = json.NewDecoder(resp.Body).Decode(&a)
	return a, err
}

func main() {
	app := tview.NewApplication()
	table := tview.NewTable().SetBorders(true)
	status := tview.NewTextView().SetDynamicColors(true)
	status.SetBorder(true).SetTitle("recovery")

	update := func() {
		metrics, err := fetchMetrics()
		if err != nil {
			return
		}
		age, ageErr := fetchAgeThreshold()

		app.QueueUpdateDraw(func() {
			if ageErr == nil {
				status.SetText(fmt.Sprintf("stuck-transaction age threshold: %s",
					time.Duration(age.AgeThresholdMS)*time.Millisecond))
			}

			table.Clear()
			headers := []string{"Endpoint", "Status", "Duration"}
			for i, h := range headers {
				table.SetCell(0, i, tview.NewTableCell(h).SetSelectable(false))
			}
			for i, m := range metrics {
				table.SetCell(i+1, 0, tview.NewTableCell(m.Endpoint))
				table.SetCell(i+1, 1, tview.NewTableCell(fmt.Sprintf("%d", m.Status)))
				table.SetCell(i+1, 2, tview.NewTableCell(m.Duration.String()))
			}
		})
	}

	go func() {
		for {
			update()
			time.Sleep(time.Second)
		}
	}()

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(status, 3, 0, false).
		AddItem(table, 0, 1, true)

	if err := app.SetRoot(layout, true).Run(); err != nil {
		panic(err)
	}
}
