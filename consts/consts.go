package consts

import "time"

// Server configuration
const (
	DefaultPort       = "8080"
	ReadHeaderTimeout = 3 * time.Second
	RateLimitRequests = 10
	RateLimitWindow   = time.Minute
)

// Cron schedules
const (
	CronRefreshSchedule = "* * * * *"  // Every minute, like the schedule view
	CronPurgeSamples    = "30 0 * * *" // Daily at 00:30
)

// Data retention
const (
	PurgeRetentionDays = 60
)

// File paths
const (
	DBFileName          = "overlays.db"
	DefaultSettingsFile = "overlays.yaml"
)

// File permissions
const (
	DirPermissions  = 0750
	FilePermissions = 0600
)

// Date formats
const (
	DateFormat      = "2006-01-02"
	TimeOfDayFormat = "15:04:05"
	DateTimeFormat  = "2006-01-02 15:04:05"
	ChartDateFormat = "Jan 02, 2006"
)

// Page element identifiers
const (
	HomePath          = "/"
	DateDisplayID     = "displayScheduleDate"
	StationsTableID   = "stations"
	PressureGraphRow  = "pressureGraphRow"
	PressureGraphCell = "pressure_graph"
	PressureRowLabel  = "Pressure Log"
	MinutesPerDay     = 24 * 60
	SecondsPerDay     = MinutesPerDay * 60
)

// Endpoints
const (
	DiurnalDataPath      = "/diurnal_display-data"
	DiurnalSettingsPath  = "/diurnal_display-sp"
	DiurnalSavePath      = "/diurnal_display-save"
	PressureDisplayPath  = "/pressure_monitor-display"
	PressureChartPath    = "/pressure_monitor-chart"
	PressureSettingsPath = "/pressure_monitor-sp"
	PressureSavePath     = "/pressure_monitor-save"
)

// Shading
const (
	ShadeFill       = "rgba(0,0,139,.15)"
	TransitionSecs  = 60
	DefaultLatitude = 45
)

// Pressure sensor
const (
	SerialBaudRate   = 115200
	SerialSettleTime = 3 * time.Second
	GraphHeight      = 60
	GraphFill        = "#2211dd"
	GraphBackground  = "#ccddff"
)

// Chart configuration
const (
	ChartWidth           = "1400px"
	ChartHeight          = "400px"
	ChartBackgroundColor = "#ffffff"
	ChartTextColor       = "#000000"
)
