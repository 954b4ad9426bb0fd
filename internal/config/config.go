package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port          string
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPath        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	JWTSecret     string
	JWTExpire     time.Duration
	GinMode       string
	LogLevel      string
	LogFormat     string
	LogStore      string
	MongoURI      string
	MongoDatabase string
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPassword  string
	MailFrom      string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
}

var defaults = map[string]any{
	"PORT":             "8080",
	"DB_DRIVER":        "mysql",
	"DB_HOST":          "localhost",
	"DB_PORT":          "3306",
	"DB_USER":          "taskuser",
	"DB_PASSWORD":      "taskpassword",
	"DB_NAME":          "task_tracker",
	"DB_PATH":          "task_tracker.db",
	"REDIS_HOST":       "",
	"REDIS_PORT":       "6379",
	"SESSION_SECRET":   "default-secret-key-change-me",
	"JWT_SECRET":       "default-jwt-secret-change-me",
	"JWT_EXPIRE":       "168h",
	"GIN_MODE":         "debug",
	"LOG_LEVEL":        "info",
	"LOG_FORMAT":       "text",
	"LOG_STORE":        "sql",
	"MONGODB_URI":      "mongodb://localhost:27017",
	"MONGODB_DATABASE": "task_tracker",
	"SMTP_HOST":        "",
	"SMTP_PORT":        587,
	"SMTP_USER":        "",
	"SMTP_PASSWORD":    "",
	"MAIL_FROM":        "no-reply@task-tracker.local",
	"OPENAI_API_KEY":   "",
	"OPENAI_MODEL":     "gpt-4o",
	"OPENAI_BASE_URL":  "",
}

// Load reads configuration from the environment, optionally layered over a
// config file. Environment variables always win over file values.
func Load(file string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	jwtExpire, err := time.ParseDuration(v.GetString("JWT_EXPIRE"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRE: %w", err)
	}

	return &Config{
		Port:          v.GetString("PORT"),
		DBDriver:      strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:        v.GetString("DB_HOST"),
		DBPort:        v.GetString("DB_PORT"),
		DBUser:        v.GetString("DB_USER"),
		DBPassword:    v.GetString("DB_PASSWORD"),
		DBName:        v.GetString("DB_NAME"),
		DBPath:        v.GetString("DB_PATH"),
		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetString("REDIS_PORT"),
		SessionSecret: v.GetString("SESSION_SECRET"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTExpire:     jwtExpire,
		GinMode:       v.GetString("GIN_MODE"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFormat:     v.GetString("LOG_FORMAT"),
		LogStore:      strings.ToLower(v.GetString("LOG_STORE")),
		MongoURI:      v.GetString("MONGODB_URI"),
		MongoDatabase: v.GetString("MONGODB_DATABASE"),
		SMTPHost:      v.GetString("SMTP_HOST"),
		SMTPPort:      v.GetInt("SMTP_PORT"),
		SMTPUser:      v.GetString("SMTP_USER"),
		SMTPPassword:  v.GetString("SMTP_PASSWORD"),
		MailFrom:      v.GetString("MAIL_FROM"),
		OpenAIAPIKey:  v.GetString("OPENAI_API_KEY"),
		OpenAIModel:   v.GetString("OPENAI_MODEL"),
		OpenAIBaseURL: v.GetString("OPENAI_BASE_URL"),
	}, nil
}

// IsProduction reports whether gin runs in release mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// UseMongoLogStore reports whether history and notifications live in MongoDB
func (c *Config) UseMongoLogStore() bool {
	return c.LogStore == "mongo"
}
