package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"github.com/daslab/treeshade/internal/domain/shadow"
	"github.com/daslab/treeshade/internal/domain/suntable"
)

// Point cloud backends.
const (
	BackendMemory   = "memory"
	BackendDir      = "dir"
	BackendS3       = "s3"
	BackendPostgres = "postgres"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	PointCloud PointCloudConfig `yaml:"pointCloud"`
	SunTable   SunTableConfig   `yaml:"sunTable"`
	Solar      SolarConfig      `yaml:"solar"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// PointCloudConfig selects where per-tree scans are read from.
type PointCloudConfig struct {
	Backend     string            `yaml:"backend"`
	Dir         string            `yaml:"dir"`
	ObjectStore ObjectStoreConfig `yaml:"objectStore"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	Cache       CacheConfig       `yaml:"cache"`
}

// ObjectStoreConfig points at an S3-compatible bucket.
type ObjectStoreConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// CacheConfig contains connection information for the Valkey cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Addr    string        `yaml:"addr"`
	Prefix  string        `yaml:"prefix"`
	TTL     time.Duration `yaml:"ttl"`
}

// SunTableConfig chooses the sun positions served to clients. Path wins over
// an inline table; with neither, the built-in New York table is used.
type SunTableConfig struct {
	Path   string           `yaml:"path"`
	Inline *shadow.SunTable `yaml:"inline"`
}

// SolarConfig drives on-demand and CLI sun table generation.
type SolarConfig struct {
	Latitude     float64       `yaml:"latitude"`
	Longitude    float64       `yaml:"longitude"`
	Timezone     string        `yaml:"timezone"`
	SeasonDates  []string      `yaml:"seasonDates"`
	FirstSlot    time.Duration `yaml:"firstSlot"`
	SlotInterval time.Duration `yaml:"slotInterval"`
	Slots        int           `yaml:"slots"`
	MinAltitude  float64       `yaml:"minAltitude"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// LoadSunTable resolves the configured sun table.
func (c SunTableConfig) LoadSunTable() (shadow.SunTable, error) {
	var table shadow.SunTable
	switch {
	case strings.TrimSpace(c.Path) != "":
		data, err := os.ReadFile(c.Path)
		if err != nil {
			return shadow.SunTable{}, fmt.Errorf("read sun table: %w", err)
		}
		if err := yaml.Unmarshal(data, &table); err != nil {
			return shadow.SunTable{}, fmt.Errorf("parse sun table: %w", err)
		}
	case c.Inline != nil:
		table = *c.Inline
	default:
		table = shadow.DefaultTable()
	}
	if err := table.Validate(); err != nil {
		return shadow.SunTable{}, fmt.Errorf("sun table: %w", err)
	}
	return table, nil
}

// Location resolves the configured timezone.
func (c SolarConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// GeneratorConfig converts the section into sun table generator settings.
func (c SolarConfig) GeneratorConfig() (suntable.Config, error) {
	loc, err := c.Location()
	if err != nil {
		return suntable.Config{}, fmt.Errorf("solar timezone: %w", err)
	}
	return suntable.Config{
		Latitude:     c.Latitude,
		Longitude:    c.Longitude,
		Location:     loc,
		SeasonDates:  append([]string(nil), c.SeasonDates...),
		FirstSlot:    c.FirstSlot,
		SlotInterval: c.SlotInterval,
		Slots:        c.Slots,
		MinAltitude:  c.MinAltitude,
	}, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
	if v := os.Getenv("POINTCLOUD_BACKEND"); v != "" {
		cfg.PointCloud.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("POINTCLOUD_DIR"); v != "" {
		cfg.PointCloud.Dir = v
	}
	if v := os.Getenv("POINTCLOUD_S3_ENDPOINT"); v != "" {
		cfg.PointCloud.ObjectStore.Endpoint = v
	}
	if v := os.Getenv("POINTCLOUD_S3_ACCESS_KEY"); v != "" {
		cfg.PointCloud.ObjectStore.AccessKey = v
	}
	if v := os.Getenv("POINTCLOUD_S3_SECRET_KEY"); v != "" {
		cfg.PointCloud.ObjectStore.SecretKey = v
	}
	if v := os.Getenv("POINTCLOUD_S3_BUCKET"); v != "" {
		cfg.PointCloud.ObjectStore.Bucket = v
	}
	if v := os.Getenv("POINTCLOUD_S3_REGION"); v != "" {
		cfg.PointCloud.ObjectStore.Region = v
	}
	if v := os.Getenv("POINTCLOUD_S3_PREFIX"); v != "" {
		cfg.PointCloud.ObjectStore.Prefix = v
	}
	if v := os.Getenv("POINTCLOUD_POSTGRES_DSN"); v != "" {
		cfg.PointCloud.Postgres.DSN = v
	}
	if v := os.Getenv("POINTCLOUD_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.PointCloud.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POINTCLOUD_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.PointCloud.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("POINTCLOUD_CACHE_ENABLED"); v != "" {
		cfg.PointCloud.Cache.Enabled = parseBool(v)
	}
	if v := os.Getenv("POINTCLOUD_CACHE_ADDR"); v != "" {
		cfg.PointCloud.Cache.Addr = v
	}
	if v := os.Getenv("POINTCLOUD_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.PointCloud.Cache.TTL = parsed
		}
	}
	if v := os.Getenv("SUN_TABLE_PATH"); v != "" {
		cfg.SunTable.Path = v
	}
	if v := os.Getenv("SOLAR_LATITUDE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Solar.Latitude = parsed
		}
	}
	if v := os.Getenv("SOLAR_LONGITUDE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Solar.Longitude = parsed
		}
	}
	if v := os.Getenv("SOLAR_TIMEZONE"); v != "" {
		cfg.Solar.Timezone = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             40,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/shadows/project",
					"/api/v1/canopy/estimate",
				},
			},
		},
		PointCloud: PointCloudConfig{
			Backend: BackendDir,
			Dir:     "data/csv_out_deck",
			Postgres: PostgresConfig{
				MaxConns: 4,
				MinConns: 0,
			},
			Cache: CacheConfig{
				Prefix: "treeshade",
				TTL:    time.Hour,
			},
		},
		Solar: SolarConfig{
			Latitude:     40.7128,
			Longitude:    -74.0060,
			Timezone:     "America/New_York",
			SeasonDates:  []string{"2022-03-20", "2022-06-21", "2022-09-22", "2022-12-21"},
			FirstSlot:    5 * time.Hour,
			SlotInterval: time.Hour,
			Slots:        15,
			MinAltitude:  3,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}

	switch c.PointCloud.Backend {
	case BackendMemory:
	case BackendDir:
		if strings.TrimSpace(c.PointCloud.Dir) == "" {
			return errors.New("pointCloud.dir cannot be empty for the dir backend")
		}
	case BackendS3:
		if strings.TrimSpace(c.PointCloud.ObjectStore.Endpoint) == "" {
			return errors.New("pointCloud.objectStore.endpoint cannot be empty for the s3 backend")
		}
		if strings.TrimSpace(c.PointCloud.ObjectStore.Bucket) == "" {
			return errors.New("pointCloud.objectStore.bucket cannot be empty for the s3 backend")
		}
	case BackendPostgres:
		if strings.TrimSpace(c.PointCloud.Postgres.DSN) == "" {
			return errors.New("pointCloud.postgres.dsn cannot be empty for the postgres backend")
		}
	default:
		return fmt.Errorf("pointCloud.backend %q is not supported", c.PointCloud.Backend)
	}
	if c.PointCloud.Cache.Enabled && strings.TrimSpace(c.PointCloud.Cache.Addr) == "" {
		return errors.New("pointCloud.cache.addr cannot be empty when the cache is enabled")
	}
	if c.PointCloud.Cache.TTL < 0 {
		return errors.New("pointCloud.cache.ttl cannot be negative")
	}

	if math.IsNaN(c.Solar.Latitude) || math.Abs(c.Solar.Latitude) > 90 {
		return errors.New("solar.latitude must be within [-90, 90]")
	}
	if math.IsNaN(c.Solar.Longitude) || math.Abs(c.Solar.Longitude) > 180 {
		return errors.New("solar.longitude must be within [-180, 180]")
	}
	if _, err := c.Solar.Location(); err != nil {
		return fmt.Errorf("solar.timezone: %w", err)
	}
	if c.Solar.Slots <= 0 {
		return errors.New("solar.slots must be positive")
	}
	if c.Solar.SlotInterval <= 0 {
		return errors.New("solar.slotInterval must be positive")
	}
	if c.Solar.FirstSlot < 0 {
		return errors.New("solar.firstSlot cannot be negative")
	}
	return nil
}
