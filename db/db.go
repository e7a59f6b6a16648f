package db

import (
	"database/sql"
	"fmt"
	"iter"
	"log"
	"net/url"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sip-plugins/overlays/consts"
)

// Sample is one pressure reading.
type Sample struct {
	Time time.Time
	PSI  int
}

// MinuteOfDay returns the minutes since midnight of the reading.
func (s Sample) MinuteOfDay() int {
	return s.Time.Hour()*60 + s.Time.Minute()
}

func OpenDB(fileName string) (*sql.DB, error) {
	params := url.Values{
		"_journal_mode": []string{"WAL"},
		"_synchronous":  []string{"NORMAL"},
		"cache":         []string{"shared"},
		"_busy_timeout": []string{"5000"},
		"_txlock":       []string{"immediate"},
	}
	dataSourceName := fmt.Sprintf("file:%s?%s", fileName, params.Encode())
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, err
	}

	// Times are local wall-clock text so a day is a plain string range
	createTableQuery := `
CREATE TABLE IF NOT EXISTS pressure_samples (
	taken_at TEXT NOT NULL,
	psi INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS pressure_samples_taken_at ON pressure_samples(taken_at);
`
	_, err = db.Exec(createTableQuery)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	return db, nil
}

func SaveSample(db *sql.DB, psi int, t time.Time) error {
	query := `INSERT INTO pressure_samples (taken_at, psi) VALUES (?, ?)`
	_, err := db.Exec(query, t.Format(consts.DateTimeFormat), psi)
	return err
}

// PurgeOldEntries deletes samples older than the retention window.
func PurgeOldEntries(db *sql.DB, now time.Time) error {
	query := `DELETE FROM pressure_samples WHERE taken_at < ?`
	cutoff := now.AddDate(0, 0, -consts.PurgeRetentionDays).Format(consts.DateTimeFormat)
	cnt, err := db.Exec(query, cutoff)
	if err != nil {
		return err
	}
	deleted, _ := cnt.RowsAffected()
	log.Printf("Deleted %d old pressure samples\n", deleted)
	return nil
}

// SelectSamples returns the samples of date's calendar day in time order.
func SelectSamples(db *sql.DB, date time.Time) (iter.Seq[Sample], error) {
	query := `
SELECT taken_at, psi
FROM pressure_samples
WHERE taken_at >= ? AND taken_at < ?
ORDER BY taken_at;`
	from := date.Format(consts.DateFormat)
	to := date.AddDate(0, 0, 1).Format(consts.DateFormat)
	rows, err := db.Query(query, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying samples: %w", err)
	}
	return func(yield func(Sample) bool) {
		defer rows.Close()
		for rows.Next() {
			var takenAt string
			var s Sample
			if err := rows.Scan(&takenAt, &s.PSI); err != nil {
				log.Printf("Error scanning sample: %s", err)
				return
			}
			t, err := time.ParseInLocation(consts.DateTimeFormat, takenAt, date.Location())
			if err != nil {
				log.Printf("Error parsing sample time %q: %s", takenAt, err)
				continue
			}
			s.Time = t
			if !yield(s) {
				return
			}
		}
	}, nil
}
