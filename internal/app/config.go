package app

import (
	"github.com/lumabyte/storypipe/internal/clients/gcp"
	"github.com/lumabyte/storypipe/internal/db"
	"github.com/lumabyte/storypipe/internal/platform/envutil"
	"github.com/lumabyte/storypipe/internal/platform/openai"
)

// Config is read from the environment exactly once at startup and handed to
// every component explicitly; nothing reads configuration at call time.
type Config struct {
	LogMode     string
	Environment string
	Version     string

	HTTPPort string

	OpenAI   openai.Config
	Storage  gcp.Config
	Postgres db.Config

	// ObjectPrefix prefixes every story object key in the bucket.
	ObjectPrefix string
	// PromptsFile optionally replaces the built-in prompt list (YAML).
	PromptsFile string
}

func LoadConfig() Config {
	return Config{
		LogMode:     envutil.String("LOG_MODE", "development"),
		Environment: envutil.String("DEPLOY_ENV", "dev"),
		Version:     envutil.String("SERVICE_VERSION", "dev"),

		HTTPPort: envutil.String("HTTP_PORT", "8080"),

		OpenAI: openai.Config{
			APIKey:    envutil.String("OPENAI_API_KEY", ""),
			BaseURL:   envutil.String("OPENAI_BASE_URL", ""),
			Model:     envutil.String("OPENAI_MODEL", openai.DefaultModel),
			MaxTokens: envutil.Int("OPENAI_MAX_TOKENS", 600),
		},
		Storage: gcp.Config{
			Bucket:    envutil.String("STORY_BUCKET_NAME", ""),
			CDNDomain: envutil.String("STORY_CDN_DOMAIN", ""),
		},
		Postgres: db.Config{
			Host:     envutil.String("POSTGRES_HOST", "localhost"),
			Port:     envutil.String("POSTGRES_PORT", "5432"),
			User:     envutil.String("POSTGRES_USER", "postgres"),
			Password: envutil.String("POSTGRES_PASSWORD", ""),
			Name:     envutil.String("POSTGRES_NAME", "storypipe"),
			SSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
		},

		ObjectPrefix: envutil.String("STORY_OBJECT_PREFIX", "bedtime-stories/"),
		PromptsFile:  envutil.String("STORY_PROMPTS_FILE", ""),
	}
}
