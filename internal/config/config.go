// Package config loads rostersync settings from a config file, the
// environment and .env files, and validates them per command.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/roster"
)

// EnvPrefix is prepended to every environment key.
const EnvPrefix = "ROSTERSYNC"

// Config is the full settings tree.
type Config struct {
	Veracross     Veracross     `mapstructure:"veracross"`
	Lightspeed    Lightspeed    `mapstructure:"lightspeed"`
	ImportOptions ImportOptions `mapstructure:"import_options"`
	Sync          Sync          `mapstructure:"sync"`
	Export        Export        `mapstructure:"export"`
	Cache         Cache         `mapstructure:"cache"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// Veracross holds the roster source connection.
type Veracross struct {
	BaseURL   string  `mapstructure:"base_url" validate:"required,url"`
	School    string  `mapstructure:"school" validate:"required"`
	Username  string  `mapstructure:"username" validate:"required"`
	Password  string  `mapstructure:"password" validate:"required"`
	RateLimit float64 `mapstructure:"rate_limit" validate:"gte=0"`
}

// Lightspeed holds the point-of-sale connection.
type Lightspeed struct {
	BaseURL     string  `mapstructure:"base_url" validate:"required,url"`
	AccountID   string  `mapstructure:"account_id" validate:"required"`
	AccessToken string  `mapstructure:"access_token" validate:"required"`
	RateLimit   float64 `mapstructure:"rate_limit" validate:"gte=0"`
}

// ImportOptions names the custom fields and credit limit applied to synced customers.
type ImportOptions struct {
	ExternalIDField string `mapstructure:"external_id_field" validate:"required"`
	LastSyncField   string `mapstructure:"last_sync_field" validate:"required"`
	CreditAmount    string `mapstructure:"credit_amount" validate:"omitempty,numeric"`
}

// CreditLimit parses CreditAmount.
func (o ImportOptions) CreditLimit() (decimal.Decimal, error) {
	if strings.TrimSpace(o.CreditAmount) == "" {
		return decimal.NewFromInt(constants.DefaultCreditLimit), nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(o.CreditAmount))
	if err != nil {
		return decimal.Zero, errors.NewConfigError("import_options", "credit_amount is not a number", err)
	}
	return d, nil
}

// Sync holds the defaults for the sync command.
type Sync struct {
	Type          string  `mapstructure:"type"`
	Force         bool    `mapstructure:"force"`
	DeleteMissing bool    `mapstructure:"delete_missing"`
	DryRun        bool    `mapstructure:"dry_run"`
	Filters       Filters `mapstructure:"filters"`
}

// Cohorts resolves Type. Empty and "all" select every cohort.
func (s Sync) Cohorts() ([]roster.Cohort, error) {
	switch strings.ToLower(strings.TrimSpace(s.Type)) {
	case "", "all":
		return roster.Cohorts(), nil
	}
	cohort, err := roster.ParseCohort(s.Type)
	if err != nil {
		return nil, err
	}
	return []roster.Cohort{cohort}, nil
}

// Filter converts Filters into a roster filter.
func (f Filters) Filter() roster.Filter {
	return roster.Filter{AfterDate: f.AfterDate, GradeLevels: f.GradeLevel}
}

// Filters narrows a roster pull.
type Filters struct {
	AfterDate  string `mapstructure:"after_date" validate:"omitempty,datetime=2006-01-02"`
	GradeLevel string `mapstructure:"grade_level"`
}

// Export holds the defaults for the export command.
type Export struct {
	ShopName          string `mapstructure:"shop_name" validate:"required"`
	CustomerType      string `mapstructure:"customer_type" validate:"required"`
	Begin             string `mapstructure:"begin" validate:"omitempty,datetime=2006-01-02"`
	End               string `mapstructure:"end" validate:"omitempty,datetime=2006-01-02"`
	Clear             bool   `mapstructure:"clear"`
	PaymentType       string `mapstructure:"payment_type" validate:"required_if=Clear true"`
	EmployeeName      string `mapstructure:"employee_name"`
	OutputDir         string `mapstructure:"output_dir"`
	Format            string `mapstructure:"format" validate:"omitempty,oneof=csv xlsx"`
	TransactionSource string `mapstructure:"transaction_source"`
	TransactionType   string `mapstructure:"transaction_type"`
	SchoolYear        string `mapstructure:"school_year"`
	CatalogItemFK     string `mapstructure:"catalog_item_fk"`
	OnAccountCode     string `mapstructure:"on_account_code" validate:"required"`
}

// Cache controls the lookup cache.
type Cache struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// keys lists every setting so AutomaticEnv can resolve it during Unmarshal.
var keys = []string{
	"veracross.base_url", "veracross.school", "veracross.username", "veracross.password", "veracross.rate_limit",
	"lightspeed.base_url", "lightspeed.account_id", "lightspeed.access_token", "lightspeed.rate_limit",
	"import_options.external_id_field", "import_options.last_sync_field", "import_options.credit_amount",
	"sync.type", "sync.force", "sync.delete_missing", "sync.dry_run",
	"sync.filters.after_date", "sync.filters.grade_level",
	"export.shop_name", "export.customer_type", "export.begin", "export.end", "export.clear",
	"export.payment_type", "export.employee_name", "export.output_dir", "export.format",
	"export.transaction_source", "export.transaction_type", "export.school_year",
	"export.catalog_item_fk", "export.on_account_code",
	"cache.ttl",
}

// Options controls where Load looks.
type Options struct {
	// File is an explicit config file. A missing explicit file is an error.
	File string

	// SearchPaths are probed for rostersync.yaml and .rostersync.yaml when
	// File is empty. Defaults to $HOME and the working directory.
	SearchPaths []string

	// EnvDir is where .env and .env.local are read from. Defaults to the
	// working directory.
	EnvDir string
}

// Load reads settings in order of precedence:
// 1. Environment variables (ROSTERSYNC_VERACROSS_SCHOOL, ...)
// 2. .env.local, then .env
// 3. Config file
// 4. Defaults
//
// Command-line flags are applied by the caller afterwards.
func Load(opts Options) (*Config, error) {
	loadEnvFiles(opts.EnvDir)

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.NewConfigError("config", "failed to bind "+key, err)
		}
	}

	file, err := findConfigFile(opts)
	if err != nil {
		return nil, err
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "failed to read "+file, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.NewConfigError("config", "failed to decode settings", err)
	}
	cfg.File = v.ConfigFileUsed()
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("veracross.rate_limit", constants.DefaultVeracrossRate)
	v.SetDefault("lightspeed.rate_limit", constants.DefaultLightspeedRate)
	v.SetDefault("import_options.credit_amount", "0")
	v.SetDefault("sync.type", "all")
	v.SetDefault("export.output_dir", constants.DefaultOutputDir)
	v.SetDefault("export.format", "csv")
	v.SetDefault("export.on_account_code", constants.DefaultOnAccountCode)
	v.SetDefault("cache.ttl", constants.CacheTTL)
}

// loadEnvFiles loads .env files. godotenv never overrides a variable that is
// already set, so .env.local is read first to take precedence over .env.
func loadEnvFiles(dir string) {
	for _, name := range []string{".env.local", ".env"} {
		_ = godotenv.Load(filepath.Join(dir, name))
	}
}

func findConfigFile(opts Options) (string, error) {
	if opts.File != "" {
		if _, err := os.Stat(opts.File); err != nil {
			return "", errors.NewConfigError("config", "config file "+opts.File+" not found", err)
		}
		return opts.File, nil
	}

	paths := opts.SearchPaths
	if paths == nil {
		if home, err := os.UserHomeDir(); err == nil {
			paths = append(paths, home)
		}
		paths = append(paths, ".")
	}

	names := []string{
		constants.DefaultConfigName + ".yaml",
		strings.TrimPrefix(constants.DefaultConfigName, ".") + ".yaml",
		constants.DefaultConfigName + ".json",
	}
	for _, dir := range paths {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
	}
	return "", nil
}
