package main

import (
	"flag"
	"log"
	"os"
	"time"

	"chartlab/internal/testkit"
)

// Writes a synthetic employee CSV for local development and demos. The same
// seed always produces the same file.
func main() {
	var (
		out     = flag.String("out", "sample_data/synthetic_employees.csv", "output CSV path")
		rows    = flag.Int("rows", 500, "number of rows to generate")
		seed    = flag.Int64("seed", 42, "random seed")
		missing = flag.Float64("missing", 0.03, "per-cell missing rate")
	)
	flag.Parse()

	config := testkit.DefaultGeneratorConfig()
	config.RowCount = *rows
	config.Seed = *seed
	config.MissingRate = *missing

	file, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	defer file.Close()

	start := time.Now()
	if err := testkit.NewGenerator(config).WriteCSV(file); err != nil {
		log.Fatalf("Failed to write CSV: %v", err)
	}
	log.Printf("Wrote %d rows to %s in %s", *rows, *out, time.Since(start))
}
