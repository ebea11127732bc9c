// Package main provides a one-shot importer for the legacy flat-file
// roster store (teams.csv) into the PostgreSQL gateway.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cory-johannsen/trainerlog/internal/config"
	"github.com/cory-johannsen/trainerlog/internal/roster"
	"github.com/cory-johannsen/trainerlog/internal/storage/postgres"
)

// requiredColumns are the four base columns of the legacy store. A file
// missing one of them is still importable: the missing values default
// to empty, matching how the old tool repaired its own store on load.
var requiredColumns = []string{"Game", "Playthrough", "Pokemon", "Acquisition"}

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	filePath := flag.String("file", "", "path to legacy teams.csv")
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: import-roster -file <teams.csv> [-config <path>]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	entries, err := readLegacyRoster(*filePath)
	if err != nil {
		log.Fatalf("reading legacy roster: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer pool.Close()

	start := time.Now()
	repo := postgres.NewRosterRepository(pool.DB())
	if err := repo.Replace(ctx, entries); err != nil {
		log.Fatalf("writing roster: %v", err)
	}
	fmt.Printf("imported %d entries in %s\n", len(entries), time.Since(start).Round(time.Millisecond))
}

// readLegacyRoster parses the flat CSV store. An empty file yields an
// empty roster; missing columns are injected as empty values.
func readLegacyRoster(path string) (roster.Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return roster.Roster{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			log.Printf("column %q missing from %s; defaulting to empty values", col, path)
		}
	}

	var entries roster.Roster
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, err)
		}

		e := roster.Entry{Enrichment: roster.DefaultEnrichment()}
		e.Game = field(record, index, "Game")
		e.Pokemon = field(record, index, "Pokemon")
		if e.Pokemon == "" {
			e.Pokemon = roster.PlaceholderName
		}
		acq := roster.Acquisition(field(record, index, "Acquisition"))
		if acq == "" || !acq.Valid() {
			acq = roster.AcquisitionNA
		}
		e.Acquisition = acq
		if raw := field(record, index, "Playthrough"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: playthrough %q is not an integer", line, raw)
			}
			e.Playthrough = n
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// field returns the named column's value or "" if the column or value
// is absent.
func field(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
