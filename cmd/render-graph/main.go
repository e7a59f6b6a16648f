package main

import (
	"cmp"
	"flag"
	"log"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/sip-plugins/overlays/consts"
	"github.com/sip-plugins/overlays/db"
	"github.com/sip-plugins/overlays/pressure"
)

func main() {
	dateStr := flag.String("date", "", "Date to draw (YYYY-MM-DD format, default: today)")
	out := flag.String("out", "", "Output file (default: stdout)")
	flag.Parse()

	dataFolder := cmp.Or(os.Getenv("DATA_FOLDER"), ".")
	dbConn, err := db.OpenDB(filepath.Join(dataFolder, consts.DBFileName))
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer func() { _ = dbConn.Close() }()

	date := time.Now()
	if *dateStr != "" {
		date, err = time.ParseInLocation(consts.DateFormat, *dateStr, time.Local)
		if err != nil {
			log.Fatalf("Error parsing date %q: %v", *dateStr, err)
		}
	}

	seq, err := db.SelectSamples(dbConn, date)
	if err != nil {
		log.Fatalf("Error loading samples: %v", err)
	}
	svg := pressure.BuildSVG(date, slices.Collect(seq))

	if *out == "" {
		_, _ = os.Stdout.WriteString(svg)
		return
	}
	if err := os.WriteFile(*out, []byte(svg), consts.FilePermissions); err != nil {
		log.Fatalf("Error writing %s: %v", *out, err)
	}
	log.Printf("Pressure graph for %s written to %s", date.Format(consts.DateFormat), *out)
}
