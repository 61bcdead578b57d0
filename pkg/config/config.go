package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Dataset DatasetConfig
	Reports ReportsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Reports.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"OLIST_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"OLIST_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OLIST_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	// Path is the SQLite database location. The default keeps the whole
	// dataset in memory for the lifetime of the run.
	Path            string `envconfig:"OLIST_DB_PATH" default:"file::memory:?cache=shared"`
	InsertBatchSize int    `envconfig:"OLIST_DB_INSERT_BATCH_SIZE" default:"500"`
}

type DatasetConfig struct {
	Dir       string `envconfig:"OLIST_DATASET_DIR" default:"./data"`
	Delimiter string `envconfig:"OLIST_DATASET_DELIMITER" default:","`

	CustomersFile  string `envconfig:"OLIST_DATASET_CUSTOMERS_FILE" default:"customers.csv"`
	OrdersFile     string `envconfig:"OLIST_DATASET_ORDERS_FILE" default:"orders.csv"`
	OrderItemsFile string `envconfig:"OLIST_DATASET_ORDER_ITEMS_FILE" default:"order_items.csv"`
	PaymentsFile   string `envconfig:"OLIST_DATASET_PAYMENTS_FILE" default:"order_payments.csv"`
	ProductsFile   string `envconfig:"OLIST_DATASET_PRODUCTS_FILE" default:"products.csv"`
	CategoriesFile string `envconfig:"OLIST_DATASET_CATEGORIES_FILE" default:"product_category.csv"`
	SellersFile    string `envconfig:"OLIST_DATASET_SELLERS_FILE" default:"sellers.csv"`
	LocationsFile  string `envconfig:"OLIST_DATASET_LOCATIONS_FILE" default:"locations.csv"`
	ReviewsFile    string `envconfig:"OLIST_DATASET_REVIEWS_FILE" default:"order_reviews.csv"`
}

type ReportsConfig struct {
	// Strictness controls how unresolved foreign keys are treated:
	// strict fails the affected report, lenient logs and continues.
	Strictness        string `envconfig:"OLIST_REPORTS_STRICTNESS" default:"lenient"`
	StaleWindowMonths int    `envconfig:"OLIST_REPORTS_STALE_WINDOW_MONTHS" default:"6"`
	// AnalysisTime pins "now" for the stale-products cutoff so runs are
	// reproducible. Empty means wall clock.
	AnalysisTime string `envconfig:"OLIST_REPORTS_ANALYSIS_TIME"`
}

func (r ReportsConfig) validate() error {
	switch strings.ToLower(r.Strictness) {
	case StrictnessStrict, StrictnessLenient:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q",
			EnvReportsStrictness, StrictnessStrict, StrictnessLenient, r.Strictness)
	}
	if r.StaleWindowMonths <= 0 {
		return fmt.Errorf("%s must be positive", EnvReportsStaleWindow)
	}
	if _, err := r.AnalysisNow(); err != nil {
		return err
	}
	return nil
}

// IsStrict reports whether unresolved references abort the affected report.
func (r ReportsConfig) IsStrict() bool {
	return strings.EqualFold(r.Strictness, StrictnessStrict)
}

// AnalysisNow resolves the analysis reference time for this run.
func (r ReportsConfig) AnalysisNow() (time.Time, error) {
	if strings.TrimSpace(r.AnalysisTime) == "" {
		return time.Now().UTC(), nil
	}
	ts, err := time.Parse(time.RFC3339, r.AnalysisTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", EnvReportsAnalysisTime, err)
	}
	return ts.UTC(), nil
}
