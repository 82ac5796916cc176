package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"FinCycle/pkg/logger"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string        `yaml:"environment" default:"development" validate:"required"`
	Log         logger.Config `yaml:"log"`
	Server      Server        `yaml:"server"`
	Metrics     Metrics       `yaml:"metrics"`
	Backend     Backend       `yaml:"backend"`
	FRED        FRED          `yaml:"fred"`
	Aggregator  Aggregator    `yaml:"aggregator"`
	Indicators  []Indicator   `yaml:"indicators" validate:"dive"`
	Cache       Cache         `yaml:"cache"`
	RateLimit   RateLimit     `yaml:"rate_limit"`
	Stream      Stream        `yaml:"stream"`
	Commentary  Commentary    `yaml:"commentary"`
	Kafka       Kafka         `yaml:"kafka"`
	ClickHouse  ClickHouse    `yaml:"clickhouse"`
}

type Server struct {
	Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	SlowThreshold   time.Duration `yaml:"slow_threshold" default:"2s"`
}

type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" default:"/metrics"`
}

// Backend selects where computed snapshots go: nowhere, straight to ClickHouse, or via Kafka.
type Backend struct {
	Type string `yaml:"type" default:"none" validate:"oneof=none kafka clickhouse"`
}

type FRED struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url" default:"https://api.stlouisfed.org/fred" validate:"url"`
	Timeout time.Duration `yaml:"timeout" default:"15s"`
	Limit   int           `yaml:"limit" default:"240" validate:"gte=14,lte=100000"`
}

type Aggregator struct {
	Strategy string        `yaml:"strategy" default:"all" validate:"oneof=all settled"`
	TailSize int           `yaml:"tail_size" default:"120" validate:"gte=1,lte=10000"`
	Timeout  time.Duration `yaml:"timeout" default:"45s"`
}

// Indicator is the YAML shape of one tracked series.
type Indicator struct {
	ID        string `yaml:"id" validate:"required"`
	Name      string `yaml:"name" validate:"required"`
	Kind      string `yaml:"kind" validate:"required,oneof=Leading Coincident Market Counter-cyclical Pro-cyclical Neutral"`
	Frequency string `yaml:"frequency" validate:"required,oneof=Daily Weekly Monthly Quarterly Annual"`
	SourceURL string `yaml:"source_url" validate:"omitempty,url"`
}

type Cache struct {
	// TTL of cached API responses; zero disables caching.
	TTL   time.Duration `yaml:"ttl"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
}

type RateLimit struct {
	Capacity     float64 `yaml:"capacity" default:"10" validate:"gte=0"`
	RefillPerSec float64 `yaml:"refill_per_sec" default:"5" validate:"gte=0"`
}

type Stream struct {
	Interval     time.Duration `yaml:"interval" default:"1m"`
	PingInterval time.Duration `yaml:"ping_interval" default:"30s"`
}

type Commentary struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model" default:"gemini-2.5-flash"`
	Timeout time.Duration `yaml:"timeout" default:"60s"`
}

type Kafka struct {
	Brokers     []string `yaml:"brokers"`
	Topic       string   `yaml:"topic" default:"indicator_snapshots"`
	Compression string   `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
	Producer    struct {
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		BatchSize    int           `yaml:"batch_size" default:"100"`
		Linger       time.Duration `yaml:"linger" default:"1s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"producer"`
	Consumer struct {
		Enabled    bool          `yaml:"enabled"`
		GroupID    string        `yaml:"group_id" default:"fincycle-snapshots"`
		RetryMax   int           `yaml:"retry_max" default:"3"`
		BackoffMin time.Duration `yaml:"backoff_min" default:"100ms"`
		BackoffMax time.Duration `yaml:"backoff_max" default:"5s"`
	} `yaml:"consumer"`
}

type ClickHouse struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port" default:"9000"`
	Database     string        `yaml:"database" default:"fincycle"`
	User         string        `yaml:"user" default:"default"`
	Password     string        `yaml:"password"`
	UseHTTP      bool          `yaml:"use_http"`
	DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
}

var validate = validator.New()

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML bytes, applies defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.applyDefaults(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.applyEnv(os.Getenv)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("config defaults: %w", err)
	}
	if len(c.Indicators) == 0 {
		c.Indicators = DefaultIndicators()
	}
	for i := range c.Indicators {
		if c.Indicators[i].SourceURL == "" {
			c.Indicators[i].SourceURL = SeriesURL(c.Indicators[i].ID)
		}
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("FRED_API_KEY"); v != "" {
		c.FRED.APIKey = v
	}
	if v := getenv("GENAI_API_KEY"); v != "" {
		c.Commentary.APIKey = v
	} else if v := getenv("GEMINI_API_KEY"); v != "" {
		c.Commentary.APIKey = v
	}
	if v := getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}
	if v := getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if len(c.Indicators) == 0 {
		return fmt.Errorf("indicators cannot be empty")
	}
	seen := make(map[string]struct{}, len(c.Indicators))
	for _, ind := range c.Indicators {
		if _, dup := seen[ind.ID]; dup {
			return fmt.Errorf("indicators: duplicate id %q", ind.ID)
		}
		seen[ind.ID] = struct{}{}
	}
	switch c.Backend.Type {
	case "kafka":
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when backend.type is 'kafka'")
		}
	case "clickhouse":
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required when backend.type is 'clickhouse'")
		}
	}
	if c.Kafka.Consumer.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when kafka.consumer.enabled")
		}
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required when kafka.consumer.enabled")
		}
	}
	return nil
}

// SeriesURL is the public FRED page of a series.
func SeriesURL(id string) string {
	return "https://fred.stlouisfed.org/series/" + id
}

// DefaultIndicators is the built-in indicator table used when the config lists none.
func DefaultIndicators() []Indicator {
	return []Indicator{
		{ID: "INDPRO", Name: "Industrial Production: Total Index", Kind: "Coincident", Frequency: "Monthly", SourceURL: SeriesURL("INDPRO")},
		{ID: "PAYEMS", Name: "All Employees, Total Nonfarm", Kind: "Coincident", Frequency: "Monthly", SourceURL: SeriesURL("PAYEMS")},
		{ID: "UMCSENT", Name: "University of Michigan: Consumer Sentiment", Kind: "Leading", Frequency: "Monthly", SourceURL: SeriesURL("UMCSENT")},
		{ID: "ICSA", Name: "Initial Claims", Kind: "Counter-cyclical", Frequency: "Weekly", SourceURL: SeriesURL("ICSA")},
		{ID: "T10Y2Y", Name: "10-Year Treasury Minus 2-Year Treasury", Kind: "Market", Frequency: "Daily", SourceURL: SeriesURL("T10Y2Y")},
	}
}
