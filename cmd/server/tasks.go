package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sip-plugins/overlays/consts"
	"github.com/sip-plugins/overlays/db"
	"github.com/sip-plugins/overlays/schedule"
)

func startTasks(ctx context.Context, dbConn *sql.DB, page *schedule.Page) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(time.Local))
	// Refresh the schedule view every minute
	if display := page.DateDisplay(); display != nil {
		if _, err := c.AddFunc(consts.CronRefreshSchedule, refreshSchedule(ctx, display)); err != nil {
			return nil, err
		}
	}
	if _, err := c.AddFunc(consts.CronPurgeSamples, cleanup(ctx, dbConn)); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

func refreshSchedule(_ context.Context, display *schedule.DateDisplay) func() {
	return func() {
		display.Refresh(time.Now())
	}
}

func cleanup(_ context.Context, dbConn *sql.DB) func() {
	return func() {
		log.Print("Cleaning old pressure samples")
		if err := db.PurgeOldEntries(dbConn, time.Now()); err != nil {
			log.Printf("Error cleaning old data: %v", err)
		}
	}
}
