package main

import (
	"cmp"
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sip-plugins/overlays/consts"
	"github.com/sip-plugins/overlays/db"
	"github.com/sip-plugins/overlays/diurnal"
	"github.com/sip-plugins/overlays/overlay"
	"github.com/sip-plugins/overlays/pressure"
	"github.com/sip-plugins/overlays/schedule"
	"github.com/sip-plugins/overlays/settings"
	"github.com/sip-plugins/overlays/watcher"
)

func main() {
	ctx := context.Background()
	dataFolder := os.Getenv("DATA_FOLDER")

	settingsFile := cmp.Or(os.Getenv("SETTINGS_FILE"), filepath.Join(dataFolder, consts.DefaultSettingsFile))
	store, err := settings.Load(settingsFile)
	if err != nil {
		log.Fatal(err)
	}

	dbConn, err := db.OpenDB(filepath.Join(dataFolder, consts.DBFileName))
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Connected to database at %s", filepath.Join(dataFolder, consts.DBFileName))

	page := schedule.NewPage(consts.HomePath, store.Get().Stations, schedule.DayTicks(), schedule.NewDateDisplay(time.Now()))

	if _, err := startTasks(ctx, dbConn, page); err != nil {
		log.Fatal(err)
	}

	port := cmp.Or(os.Getenv("PORT"), consts.DefaultPort)
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		log.Fatal(err)
	}

	// The overlays call back into this server, so they are installed once it listens
	client := overlay.NewClient("http://127.0.0.1:"+port, nil)
	if !watcher.Watch(page, watcher.Async(ctx, "diurnal", diurnal.NewRenderer(client, page))) {
		log.Print("Schedule not displayed, diurnal shading disabled")
	}
	if !watcher.Watch(page, watcher.Async(ctx, "pressure", pressure.NewRenderer(client, page))) {
		log.Print("Schedule not displayed, pressure graph disabled")
	}

	startIngest(ctx, store.Get().Pressure, func(psi int, t time.Time) error {
		return db.SaveSample(dbConn, psi, t)
	})

	log.Print("Starting overlays server on :" + port)
	server := &http.Server{
		ReadHeaderTimeout: consts.ReadHeaderTimeout,
		Handler:           newRouter(dbConn, store, page),
	}
	err = server.Serve(listener)
	if err != nil {
		log.Fatal("Serve: ", err)
	}
}

func startIngest(ctx context.Context, cfg settings.Pressure, save pressure.SaveFunc) {
	if cfg.URL != "" {
		log.Printf("Pressure graph served by %s, local monitoring disabled", cfg.URL)
		return
	}
	if cfg.Port != "" {
		go pressure.MonitorSerial(ctx, cfg.Port, save)
	}
	if cfg.MQTT.Broker != "" && cfg.MQTT.Topic != "" {
		log.Printf("Connecting to %s for pressure readings", cfg.MQTT.Broker)
		pressure.SubscribeMQTT(cfg.MQTT, save)
	}
}
