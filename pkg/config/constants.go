package config

const EnvPrefix = "OLIST"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	StrictnessStrict  = "strict"
	StrictnessLenient = "lenient"
)

const (
	EnvAppEnv              = "OLIST_APP_ENV"
	EnvLogLevel            = "OLIST_LOG_LEVEL"
	EnvDBPath              = "OLIST_DB_PATH"
	EnvDatasetDir          = "OLIST_DATASET_DIR"
	EnvReportsStrictness   = "OLIST_REPORTS_STRICTNESS"
	EnvReportsStaleWindow  = "OLIST_REPORTS_STALE_WINDOW_MONTHS"
	EnvReportsAnalysisTime = "OLIST_REPORTS_ANALYSIS_TIME"
)
