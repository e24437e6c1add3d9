package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/kova98/threadbrief/enums"
)

const (
	EnvDevelopment = "DEV"
	EnvProduction  = "PROD"
)

type AppConfig struct {
	PostgresURL        string
	Subreddits         []string
	NumPosts           int
	TimeFilter         enums.TimeFilter
	SummaryWorkers     int
	RunIntervalSeconds int
	EnableScheduler    bool
	SkipNonEnglish     bool
	ProxyURL           string
	LLMAPIKey          string
	LLMModel           string
	LLMBaseURL         string
	SMTPHost           string
	SMTPPort           string
	SMTPFrom           string
	SMTPPassword       string
	DigestRecipients   []string
	Port               string
	AppEnv             string // EnvDevelopment or EnvProduction
	LogLevel           slog.Level
}

var Config AppConfig

func LoadConfig() {
	cfg := AppConfig{}

	cfg.AppEnv = os.Getenv("APP_ENV")
	cfg.PostgresURL = loadRequired("POSTGRES_URL")
	cfg.LLMAPIKey = loadRequired("LLM_API_KEY")
	cfg.Subreddits = loadList(loadRequired("SUBREDDITS"))
	cfg.NumPosts = loadInt("NUM_POSTS", 10)
	cfg.SummaryWorkers = loadInt("SUMMARY_WORKERS", 10)
	cfg.RunIntervalSeconds = loadInt("RUN_INTERVAL_SECONDS", 21600)
	cfg.EnableScheduler = loadBool("ENABLE_SCHEDULER", true)
	cfg.SkipNonEnglish = loadBool("SKIP_NON_ENGLISH", false)
	cfg.ProxyURL = loadOptional("PROXY_URL", "")
	cfg.LLMModel = loadOptional("LLM_MODEL", "claude-3-5-haiku-latest")
	cfg.LLMBaseURL = loadOptional("LLM_BASE_URL", "https://api.anthropic.com")
	cfg.SMTPHost = loadOptional("SMTP_HOST", "")
	cfg.SMTPPort = loadOptional("SMTP_PORT", "587")
	cfg.SMTPFrom = loadOptional("SMTP_FROM", "")
	cfg.SMTPPassword = loadOptional("SMTP_PASSWORD", "")
	cfg.DigestRecipients = loadList(loadOptional("DIGEST_RECIPIENTS", ""))
	cfg.Port = loadOptional("PORT", "8080")

	filter, err := enums.ParseTimeFilter(loadOptional("TIME_FILTER", string(enums.TimeFilterWeek)))
	if err != nil {
		slog.Error("Invalid TIME_FILTER", "error", err)
		os.Exit(1)
	}
	cfg.TimeFilter = filter

	lvlString := loadOptional("LOG_LEVEL", "INFO")
	cfg.LogLevel, err = parseLogLevel(lvlString)
	if err != nil {
		slog.Error("Invalid LOG_LEVEL", "error", err)
		cfg.LogLevel = slog.LevelInfo
	}

	Config = cfg
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	var err = level.UnmarshalText([]byte(s))
	return level, err
}

func loadRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		slog.Error("Required env var not set", "key", key)
		os.Exit(1)
	}
	return value
}

func loadOptional(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func loadInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		slog.Error("Invalid int env var", "key", key, "value", value)
		os.Exit(1)
	}
	return parsed
}

func loadBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		slog.Error("Invalid bool env var", "key", key, "value", value)
		os.Exit(1)
	}
	return parsed
}

func loadList(value string) []string {
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}

func (c AppConfig) IsProduction() bool {
	return Config.AppEnv == EnvProduction
}

func (c AppConfig) MailerConfigured() bool {
	return c.SMTPHost != "" && c.SMTPFrom != "" && len(c.DigestRecipients) > 0
}
