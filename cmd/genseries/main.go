// Command genseries generates deterministic daily aggregate fixtures for the
// forecast test suites. It synthesizes a trailing window with a weekly rhythm
// and a mild drift, then runs the actual series builder so the gap-filled
// fixture matches real service behavior.
//
// Usage:
//
//	go run ./cmd/genseries \
//	  -days 90 \
//	  -raw-out data/mock/daily_aggregates.json \
//	  -series-out data/mock/historical_series.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/tremorline/quake-forecast-service/internal/domain"
)

var fixtureNow = time.Date(2024, time.June, 15, 6, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	days := flag.Int("days", 90, "window length in days")
	rawOut := flag.String("raw-out", "", "output path for the daily aggregate fixture")
	seriesOut := flag.String("series-out", "", "output path for the gap-filled series fixture")
	flag.Parse()

	if *rawOut == "" || *seriesOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -raw-out, -series-out")
	}

	// Fix the clock so the window always ends on the same day.
	domain.SetClock(clockwork.NewFakeClockAt(fixtureNow))
	defer domain.SetClock(nil)

	aggregates := synthesize(*days)
	log.Printf("synthesized %d aggregate rows over %d days", len(aggregates), *days)

	series, err := domain.BuildSeries(aggregates, *days)
	if err != nil {
		return fmt.Errorf("building series: %w", err)
	}

	if err := writeJSON(*rawOut, aggregates); err != nil {
		return fmt.Errorf("writing aggregate fixture: %w", err)
	}
	log.Printf("wrote aggregate fixture: %s", *rawOut)

	if err := writeJSON(*seriesOut, series.Points); err != nil {
		return fmt.Errorf("writing series fixture: %w", err)
	}
	log.Printf("wrote series fixture: %s", *seriesOut)

	printStats(series)
	return nil
}

// synthesize builds one aggregate row per active day: a weekly rhythm on top
// of a slow upward drift, with every tenth day quiet to exercise gap filling.
func synthesize(days int) []domain.DailyAggregate {
	end := time.Date(fixtureNow.Year(), fixtureNow.Month(), fixtureNow.Day(), 0, 0, 0, 0, time.UTC)

	var aggregates []domain.DailyAggregate
	for i := 0; i < days; i++ {
		date := end.AddDate(0, 0, i-days+1)
		if i%10 == 3 {
			continue // quiet day, no row
		}

		weekly := 3 * math.Sin(2*math.Pi*float64(date.Weekday())/7)
		drift := 0.05 * float64(i)
		count := int(math.Round(8 + weekly + drift))
		if count < 1 {
			count = 1
		}

		avgMag := math.Round((3.5+0.8*math.Sin(0.31*float64(i)))*100) / 100
		maxMag := math.Round((avgMag+1.2)*100) / 100

		aggregates = append(aggregates, domain.DailyAggregate{
			Date:         date,
			Count:        count,
			AvgMagnitude: &avgMag,
			MaxMagnitude: &maxMag,
		})
	}
	return aggregates
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(series domain.HistoricalSeries) {
	counts := series.Counts()
	var total, observed int
	for _, c := range counts {
		total += int(c)
		if c > 0 {
			observed++
		}
	}
	thresholds := series.RiskThresholds()

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Window: %d days ending %s\n", series.WindowDays, series.End().Format("2006-01-02"))
	fmt.Printf("Observed days: %d, total events: %d\n", observed, total)
	fmt.Printf("Mean daily count: %.3f\n", float64(total)/float64(len(counts)))
	fmt.Printf("Q50: %.2f, Q75: %.2f\n", thresholds.Q50, thresholds.Q75)
}
