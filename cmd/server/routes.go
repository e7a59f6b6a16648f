package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sip-plugins/overlays/charts"
	"github.com/sip-plugins/overlays/consts"
	"github.com/sip-plugins/overlays/diurnal"
	"github.com/sip-plugins/overlays/pressure"
	"github.com/sip-plugins/overlays/schedule"
	"github.com/sip-plugins/overlays/settings"
)

func newRouter(dbConn *sql.DB, store *settings.Store, page *schedule.Page) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)

	r.Get(consts.HomePath, schedule.PageHandler(page))
	r.Get("/schedule", schedule.NavigateHandler(page, time.Now))

	r.Get(consts.DiurnalDataPath, diurnal.DataHandler(store, time.Now))
	r.Get(consts.DiurnalSettingsPath, diurnal.SettingsHandler(store))

	r.Get(consts.PressureDisplayPath, pressure.DisplayHandler(dbConn, store, &http.Client{}))
	r.Get(consts.PressureChartPath, charts.ChartHandler(dbConn))
	r.Get(consts.PressureSettingsPath, pressure.SettingsHandler(store))

	// Settings writes hit the disk, keep them rate-limited
	limiter := httprate.NewRateLimiter(consts.RateLimitRequests, consts.RateLimitWindow, httprate.WithKeyByIP())
	r.With(limiter.Handler).Get(consts.DiurnalSavePath, diurnal.SaveHandler(store))
	r.With(limiter.Handler).Get(consts.PressureSavePath, pressure.SaveHandler(store))

	r.Handle("/metrics", promhttp.Handler())
	return r
}
