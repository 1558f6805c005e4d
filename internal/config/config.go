package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/noah-isme/unimatch-go-api/internal/matching"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NatsURL                string
	JWTSecret              string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	MatchCacheTTL          time.Duration
	MinimumMatchScore      int
	GradeWeight            float64
	LanguageWeight         float64
	ExtracurricularWeight  float64
	WorkExperienceWeight   float64
	EventChannel           string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// MatchingOptions converts the configured cutoff and weights into matcher
// options.
func (c Config) MatchingOptions() matching.Options {
	return matching.Options{
		MinimumScore: c.MinimumMatchScore,
		Weights: matching.Weights{
			Grade:           c.GradeWeight,
			Language:        c.LanguageWeight,
			Extracurricular: c.ExtracurricularWeight,
			WorkExperience:  c.WorkExperienceWeight,
		},
	}
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("UNIMATCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "UniMatch API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cloudinary.folder", "unimatch/logos")
	v.SetDefault("match.cache_ttl", "6h")
	v.SetDefault("match.minimum_score", 50)
	v.SetDefault("match.grade_weight", 1.0)
	v.SetDefault("match.language_weight", 1.0)
	v.SetDefault("match.extracurricular_weight", 1.0)
	v.SetDefault("match.work_experience_weight", 1.0)
	v.SetDefault("event.channel", "unimatch")

	ttlString := v.GetString("match.cache_ttl")
	if ttlString == "" {
		ttlString = "6h"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid match cache ttl: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NatsURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		MatchCacheTTL:          ttl,
		MinimumMatchScore:      v.GetInt("match.minimum_score"),
		GradeWeight:            v.GetFloat64("match.grade_weight"),
		LanguageWeight:         v.GetFloat64("match.language_weight"),
		ExtracurricularWeight:  v.GetFloat64("match.extracurricular_weight"),
		WorkExperienceWeight:   v.GetFloat64("match.work_experience_weight"),
		EventChannel:           v.GetString("event.channel"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.MinimumMatchScore < 0 || cfg.MinimumMatchScore > 100 {
		return Config{}, fmt.Errorf("minimum match score must be between 0 and 100")
	}

	return cfg, nil
}
