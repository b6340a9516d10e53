package shared

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload" // load .env, if present, before reading env
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

// Config mirrors the environment; koanf keys are the lower-cased variable
// names (MONGODB_URI -> mongodb_uri).
type Config struct {
	AppEnv      string `koanf:"app_env"`
	Port        string `koanf:"port"`
	HTTPAddr    string `koanf:"http_addr" validate:"required"`
	MetricsAddr string `koanf:"metrics_addr"`

	MongoURI string `koanf:"mongodb_uri" validate:"required"`
	MongoDB  string `koanf:"mongodb_db" validate:"required"`

	RedisAddr       string        `koanf:"redis_addr"`
	RedisPass       string        `koanf:"redis_password"`
	RedisDB         int           `koanf:"redis_db"`
	CacheTTLSeconds int           `koanf:"cache_ttl_seconds"`
	CacheTTL        time.Duration `koanf:"-"`

	CloudName     string `koanf:"cloudinary_cloud_name"`
	CloudKey      string `koanf:"cloudinary_api_key"`
	CloudSecret   string `koanf:"cloudinary_api_secret"`
	CloudFolder   string `koanf:"cloudinary_folder"`
	CloudBaseURL  string `koanf:"cloudinary_base_url"`
	CloudRPS      int    `koanf:"cloudinary_rps"`
	UploadDir     string `koanf:"upload_dir" validate:"required"`
	UploadMaxSize int64  `koanf:"upload_max_bytes" validate:"gt=0"`

	JWTSecret   string `koanf:"jwt_secret" validate:"required,min=16"`
	CORSOrigins string `koanf:"cors_origins"`

	AdminWorkers int `koanf:"admin_workers" validate:"gt=0"`
}

func (c Config) IsDev() bool { return c.AppEnv == "dev" || c.AppEnv == "development" }

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Load reads the environment, fills defaults and validates the result.
func Load() (Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}
	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, fmt.Errorf("decode env: %w", err)
	}
	applyDefaults(&c)

	if err := validator.New().Struct(c); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if c.CloudName == "" || c.CloudKey == "" || c.CloudSecret == "" {
		log.Warn().Msg("cloudinary credentials are empty; image uploads will fail")
	}
	if c.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR is empty; read cache disabled")
	}
	return c, nil
}

func applyDefaults(c *Config) {
	def := func(p *string, v string) {
		if *p == "" {
			*p = v
		}
	}
	def(&c.AppEnv, "prod")
	if c.HTTPAddr == "" && c.Port != "" {
		c.HTTPAddr = ":" + strings.TrimPrefix(c.Port, ":")
	}
	def(&c.HTTPAddr, ":5000")
	def(&c.MongoURI, "mongodb://localhost:27017")
	def(&c.MongoDB, "travel")
	def(&c.CloudFolder, "travel_website/tours")
	def(&c.UploadDir, "uploads")
	def(&c.CORSOrigins, "https://myvacationholidays.in")
	if c.UploadMaxSize == 0 {
		c.UploadMaxSize = 10 << 20
	}
	if c.CloudRPS == 0 {
		c.CloudRPS = 5
	}
	if c.CacheTTLSeconds == 0 {
		c.CacheTTLSeconds = 900
	}
	c.CacheTTL = time.Duration(c.CacheTTLSeconds) * time.Second
	if c.AdminWorkers == 0 {
		c.AdminWorkers = 4
	}
}
