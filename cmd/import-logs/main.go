// import-logs loads daily pressure CSV logs (psi_log_YYYY-MM-DD.csv, one
// "HH:MM:SS,psi" line per reading) into the overlays database.
package main

import (
	"cmp"
	"database/sql"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sip-plugins/overlays/consts"
	"github.com/sip-plugins/overlays/db"
)

func main() {
	logsPath := flag.String("logs", "", "Path to the folder containing psi_log_*.csv files (required)")
	dbPath := flag.String("db", "", "Path to the database (default: $DATA_FOLDER/overlays.db)")
	flag.Parse()

	if *logsPath == "" {
		flag.Usage()
		os.Exit(1)
	}
	dbFile := *dbPath
	if dbFile == "" {
		dbFile = filepath.Join(cmp.Or(os.Getenv("DATA_FOLDER"), "."), consts.DBFileName)
	}

	if err := run(*logsPath, dbFile); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// logFileRegex matches files like "psi_log_2025-06-21.csv"
var logFileRegex = regexp.MustCompile(`^psi_log_(\d{4}-\d{2}-\d{2})\.csv$`)

type logFile struct {
	path string
	date time.Time
}

func run(logsPath, dbFile string) error {
	files, err := findLogs(logsPath)
	if err != nil {
		return fmt.Errorf("finding log files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no pressure logs found in %s", logsPath)
	}
	log.Printf("Found %d log files", len(files))

	dbConn, err := db.OpenDB(dbFile)
	if err != nil {
		return fmt.Errorf("opening database %s: %w", dbFile, err)
	}
	defer func() { _ = dbConn.Close() }()

	var total int
	for i, f := range files {
		log.Printf("Importing log %d of %d: %s", i+1, len(files), filepath.Base(f.path))
		n, err := importLog(dbConn, f)
		if err != nil {
			log.Printf("Warning: error importing %s: %v", f.path, err)
			continue
		}
		log.Printf("  Imported %d readings", n)
		total += n
	}
	log.Printf("Total readings imported: %d", total)
	return nil
}

func findLogs(logsPath string) ([]logFile, error) {
	entries, err := os.ReadDir(logsPath)
	if err != nil {
		return nil, err
	}

	var files []logFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := logFileRegex.FindStringSubmatch(entry.Name())
		if matches == nil {
			continue
		}
		date, err := time.ParseInLocation(consts.DateFormat, matches[1], time.Local)
		if err != nil {
			log.Printf("Warning: skipping file with invalid date %s: %v", entry.Name(), err)
			continue
		}
		files = append(files, logFile{path: filepath.Join(logsPath, entry.Name()), date: date})
	}

	// Oldest first
	sort.Slice(files, func(i, j int) bool { return files[i].date.Before(files[j].date) })
	return files, nil
}

func importLog(dbConn *sql.DB, f logFile) (int, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	var imported int
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return imported, nil
		}
		if err != nil {
			return imported, err
		}
		t, psi, err := parseRecord(f.date, record)
		if err != nil {
			log.Printf("Warning: skipping line in %s: %v", filepath.Base(f.path), err)
			continue
		}
		if err := db.SaveSample(dbConn, psi, t); err != nil {
			return imported, err
		}
		imported++
	}
}

func parseRecord(date time.Time, record []string) (time.Time, int, error) {
	if len(record) < 2 {
		return time.Time{}, 0, fmt.Errorf("expected time and psi, got %q", record)
	}
	clock, err := time.Parse(consts.TimeOfDayFormat, strings.TrimSpace(record[0]))
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("parsing time %q: %w", record[0], err)
	}
	psi, err := strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("parsing psi %q: %w", record[1], err)
	}
	y, m, d := date.Date()
	t := time.Date(y, m, d, clock.Hour(), clock.Minute(), clock.Second(), 0, date.Location())
	return t, psi, nil
}
