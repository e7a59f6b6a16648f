package main

import (
	"cmp"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/sip-plugins/overlays/consts"
	"github.com/sip-plugins/overlays/db"
)

func main() {
	dbPath := flag.String("db", "", "Path to overlays.db (default: $DATA_FOLDER/overlays.db or ./overlays.db)")
	dateStr := flag.String("date", "", "Date to query (YYYY-MM-DD format, default: today)")
	flag.Parse()

	dbFile := *dbPath
	if dbFile == "" {
		dataFolder := cmp.Or(os.Getenv("DATA_FOLDER"), ".")
		dbFile = filepath.Join(dataFolder, consts.DBFileName)
	}

	if err := run(dbFile, *dateStr); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

type stats struct {
	count       int
	min, max    int
	sum         int
	first, last time.Time
}

func run(dbPath, dateStr string) error {
	dbConn, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database %s: %w", dbPath, err)
	}
	defer func() { _ = dbConn.Close() }()

	queryDate := time.Now()
	if dateStr != "" {
		queryDate, err = time.ParseInLocation(consts.DateFormat, dateStr, time.Local)
		if err != nil {
			return fmt.Errorf("parsing date %q: %w", dateStr, err)
		}
	}

	rows, err := db.SelectSamples(dbConn, queryDate)
	if err != nil {
		return fmt.Errorf("selecting samples: %w", err)
	}

	var s stats
	for sample := range rows {
		if s.count == 0 {
			s.min, s.max, s.first = sample.PSI, sample.PSI, sample.Time
		}
		s.count++
		s.sum += sample.PSI
		s.min = min(s.min, sample.PSI)
		s.max = max(s.max, sample.PSI)
		s.last = sample.Time
	}

	if s.count == 0 {
		return fmt.Errorf("no readings found for %s", queryDate.Format(consts.DateFormat))
	}
	printStats(queryDate, s)
	return nil
}

func printStats(date time.Time, s stats) {
	fmt.Printf("Pressure readings for %s\n", date.Format(consts.DateFormat))
	fmt.Printf("  Readings: %d (%s - %s)\n", s.count,
		s.first.Format(consts.TimeOfDayFormat), s.last.Format(consts.TimeOfDayFormat))
	fmt.Printf("  Min:      %d psi\n", s.min)
	fmt.Printf("  Max:      %d psi\n", s.max)
	fmt.Printf("  Mean:     %.1f psi\n", float64(s.sum)/float64(s.count))
}
