// Command genportfolio generates synthetic portfolio fixtures for the engine
// test suites and for local development. It uses the actual synthetic
// generator package, so fixtures match engine input expectations exactly.
//
// Usage:
//
//	go run ./cmd/genportfolio \
//	  -loans 500 \
//	  -seed 42 \
//	  -out data/mock/portfolio_500.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
	"github.com/couchcryptid/climate-risk-engine/internal/synthetic"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	loans := flag.Int("loans", 500, "number of loans to generate")
	seed := flag.Int64("seed", 42, "random seed")
	out := flag.String("out", "", "output path for the portfolio JSON fixture")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	// Freeze the clock so any stamped timestamps are reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	portfolio, err := synthetic.Generate(synthetic.Config{
		Seed:         *seed,
		Loans:        *loans,
		BaselineYear: 2023,
	})
	if err != nil {
		return fmt.Errorf("generate portfolio: %w", err)
	}

	if err := writeJSON(*out, portfolio); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote portfolio fixture: %s", *out)

	printStats(portfolio)
	return nil
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

type stateCount struct {
	state string
	count int
}

func printStats(p synthetic.Portfolio) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Loans: %d, hazard records: %d, scenario records: %d\n",
		len(p.Loans), len(p.Hazards), len(p.Scenarios))

	var exposure, el float64
	stateCounts := map[string]int{}
	hazardCounts := map[string]int{}
	for _, l := range p.Loans {
		exposure += l.Outstanding
		el += l.Risk.ExpectedLoss
		stateCounts[l.Address.State]++
	}
	for _, h := range p.Hazards {
		hazardCounts[h.HazardType]++
	}

	fmt.Printf("Total exposure: %.0f\n", exposure)
	fmt.Printf("Baseline expected loss: %.0f\n", el)

	sc := make([]stateCount, 0, len(stateCounts))
	for s, c := range stateCounts {
		sc = append(sc, stateCount{s, c})
	}
	sort.Slice(sc, func(i, j int) bool { return sc[i].count > sc[j].count })
	fmt.Printf("States (%d): ", len(sc))
	for _, s := range sc {
		fmt.Printf("%s=%d ", s.state, s.count)
	}
	fmt.Println()

	fmt.Print("Hazard records by type: ")
	for _, h := range domain.HazardTypes {
		fmt.Printf("%s=%d ", h, hazardCounts[h])
	}
	fmt.Println()
}
