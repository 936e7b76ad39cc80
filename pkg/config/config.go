package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Academic AcademicConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AcademicConfig carries the institution-independent grading defaults used by
// the aggregation and document layers.
type AcademicConfig struct {
	// FrequenciaMinima is the minimum attendance percentage (0-100) required
	// for a REGULAR attendance situation.
	FrequenciaMinima float64
	// MediaMinima is the minimum passing grade on the NotaMaxima scale.
	MediaMinima float64
	// NotaMaxima is the top of the grading scale.
	NotaMaxima float64
	// VerificationBaseURL prefixes certificate verification URLs.
	VerificationBaseURL string
	// VerificationCacheTTL bounds the redis cache for verification codes.
	VerificationCacheTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "academico")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ACADEMIC_FREQUENCIA_MINIMA", 75.0)
	v.SetDefault("ACADEMIC_MEDIA_MINIMA", 10.0)
	v.SetDefault("ACADEMIC_NOTA_MAXIMA", 20.0)
	v.SetDefault("ACADEMIC_VERIFICATION_BASE_URL", "https://verificar.dsicola.com/certificados")
	v.SetDefault("ACADEMIC_VERIFICATION_CACHE_TTL", "720h")

	cfg := &Config{
		Env:       v.GetString("ENV"),
		Port:      v.GetInt("PORT"),
		APIPrefix: v.GetString("API_PREFIX"),
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			Expiration: v.GetDuration("JWT_EXPIRATION"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitAndTrim(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Academic: AcademicConfig{
			FrequenciaMinima:     v.GetFloat64("ACADEMIC_FREQUENCIA_MINIMA"),
			MediaMinima:          v.GetFloat64("ACADEMIC_MEDIA_MINIMA"),
			NotaMaxima:           v.GetFloat64("ACADEMIC_NOTA_MAXIMA"),
			VerificationBaseURL:  v.GetString("ACADEMIC_VERIFICATION_BASE_URL"),
			VerificationCacheTTL: v.GetDuration("ACADEMIC_VERIFICATION_CACHE_TTL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Env == EnvProduction && c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required in production")
	}
	if c.Academic.FrequenciaMinima < 0 || c.Academic.FrequenciaMinima > 100 {
		return errors.New("ACADEMIC_FREQUENCIA_MINIMA must be between 0 and 100")
	}
	if c.Academic.MediaMinima < 0 || c.Academic.MediaMinima > c.Academic.NotaMaxima {
		return errors.New("ACADEMIC_MEDIA_MINIMA must be between 0 and ACADEMIC_NOTA_MAXIMA")
	}
	return nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
