package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"G2BLeadMiner/internal/g2b"
)

const (
	configPathEnv = "LEAD_MINER_CONFIG"
	serviceKeyEnv = "DATA_GO_KR_SERVICE_KEY"

	dateLayout = "2006-01-02"

	defaultTrailingDays = 7
	defaultTopN         = 50
	defaultOutDir       = "output"
)

// Config holds all settings for one miner process. Per-run parameters
// come from CLI flags; operational settings come from the optional YAML
// file with environment overrides on top.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Query     QueryConfig     `yaml:"query"`
	Output    OutputConfig    `yaml:"output"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`

	// Resolved query range for one-shot runs.
	Start time.Time `yaml:"-"`
	End   time.Time `yaml:"-"`
}

// APIConfig describes the upstream bid-notice endpoint.
type APIConfig struct {
	BaseURL    string `yaml:"baseUrl"`
	ServiceKey string `yaml:"serviceKey"`
	PageSize   int    `yaml:"pageSize"`
	MaxRetries int    `yaml:"maxRetries"`
	TimeoutSec int    `yaml:"timeoutSec"`
}

// QueryConfig shapes what a run asks for.
type QueryConfig struct {
	Mode         string `yaml:"mode"`
	TopN         int    `yaml:"topN"`
	TrailingDays int    `yaml:"trailingDays"`
}

// OutputConfig names the export directory.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// SchedulerConfig enables recurring runs when a cron expression is set.
type SchedulerConfig struct {
	CronExpression string `yaml:"cronExpression"`
	Timezone       string `yaml:"timezone"`
}

// Location resolves the scheduler timezone, defaulting to local time.
func (s SchedulerConfig) Location() *time.Location {
	if s.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LoggingConfig selects the console log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load resolves configuration from flags, the optional YAML file, and
// environment variables (flag > env > file > default). Validation
// failures are fatal before any network call happens.
func Load(args []string, now time.Time) (Config, error) {
	cfg := defaultConfig()

	fs := flag.NewFlagSet("leadminer", flag.ContinueOnError)
	var (
		startArg  = fs.String("start", "", "query start date (YYYY-MM-DD); default: trailing days before end")
		endArg    = fs.String("end", "", "query end date (YYYY-MM-DD); default: now")
		modeArg   = fs.String("mode", "", "window mode: daily or monthly")
		outDirArg = fs.String("out-dir", "", "output directory for export files")
		topNArg   = fs.Int("top-n", -1, "number of top leads to export")
		keyArg    = fs.String("service-key", "", "data.go.kr service key")
		configArg = fs.String("config", "", "path to YAML config file")
	)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	path := *configArg
	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv(serviceKeyEnv); v != "" {
		cfg.API.ServiceKey = v
	}

	if *modeArg != "" {
		cfg.Query.Mode = *modeArg
	}
	if *outDirArg != "" {
		cfg.Output.Dir = *outDirArg
	}
	if *topNArg >= 0 {
		cfg.Query.TopN = *topNArg
	}
	if *keyArg != "" {
		cfg.API.ServiceKey = *keyArg
	}

	end := now
	if *endArg != "" {
		parsed, err := time.ParseInLocation(dateLayout, *endArg, now.Location())
		if err != nil {
			return Config{}, fmt.Errorf("invalid --end %q: %w", *endArg, err)
		}
		end = parsed
	}
	start := end.AddDate(0, 0, -cfg.Query.TrailingDays)
	if *startArg != "" {
		parsed, err := time.ParseInLocation(dateLayout, *startArg, now.Location())
		if err != nil {
			return Config{}, fmt.Errorf("invalid --start %q: %w", *startArg, err)
		}
		start = parsed
	}
	cfg.Start, cfg.End = start, end

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.API.ServiceKey == "" {
		return fmt.Errorf("service key is required (--service-key or %s)", serviceKeyEnv)
	}
	if !g2b.WindowMode(c.Query.Mode).Valid() {
		return fmt.Errorf("mode must be %q or %q, got %q", g2b.ModeDaily, g2b.ModeMonthly, c.Query.Mode)
	}
	if c.Query.TopN < 0 {
		return fmt.Errorf("top-n must be >= 0, got %d", c.Query.TopN)
	}
	if c.Query.TrailingDays < 1 {
		return fmt.Errorf("trailingDays must be >= 1, got %d", c.Query.TrailingDays)
	}
	if c.Start.After(c.End) {
		return fmt.Errorf("start %s must not be after end %s",
			c.Start.Format(dateLayout), c.End.Format(dateLayout))
	}
	if tz := c.Scheduler.Timezone; tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("unknown scheduler timezone %q: %w", tz, err)
		}
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			PageSize:   100,
			MaxRetries: 4,
			TimeoutSec: 20,
		},
		Query: QueryConfig{
			Mode:         string(g2b.ModeDaily),
			TopN:         defaultTopN,
			TrailingDays: defaultTrailingDays,
		},
		Output:  OutputConfig{Dir: defaultOutDir},
		Logging: LoggingConfig{Level: "info"},
	}
}
