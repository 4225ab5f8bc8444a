package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	defaultQuery    = "artificial intelligence AI machine learning deep learning GPT ChatGPT OpenAI Google Microsoft Meta yapay zeka"

	configPathEnv     = "NEWS_BULLETIN_CONFIG"
	logLevelEnv       = "LOG_LEVEL"
	tavilyAPIKeyEnv   = "TAVILY_API_KEY"
	openAIAPIKeyEnv   = "OPENAI_API_KEY"
	anthropicKeyEnv   = "ANTHROPIC_API_KEY"
	writerProviderEnv = "WRITER_PROVIDER"
	writerModelEnv    = "WRITER_MODEL"
	databaseDSNEnv    = "DATABASE_DSN"
	redisURLEnv       = "REDIS_URL"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"

	// ProviderOpenAI selects the OpenAI chat completions writer.
	ProviderOpenAI = "openai"
	// ProviderAnthropic selects the Anthropic messages writer.
	ProviderAnthropic = "anthropic"
)

// Validation errors reported by Config.Validate.
var (
	ErrMissingSearchKey  = errors.New("search.apiKey (TAVILY_API_KEY) is required")
	ErrMissingWriterKey  = errors.New("writer API key is required for the selected provider")
	ErrUnknownProvider   = errors.New("writer.provider must be one of: openai, anthropic")
	ErrInvalidLookback   = errors.New("bulletin.lookbackDays must be between 1 and 30")
	ErrInvalidMaxResults = errors.New("bulletin.maxResults must be positive")
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Search        SearchConfig       `yaml:"search"`
	Writer        WriterConfig       `yaml:"writer"`
	Bulletin      BulletinConfig     `yaml:"bulletin"`
	Cache         CacheConfig        `yaml:"cache"`
	Archive       ArchiveConfig      `yaml:"archive"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig selects level and handler format ("text" or "json").
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SearchConfig describes how to reach the Tavily search API.
type SearchConfig struct {
	Endpoint          string  `yaml:"endpoint"`
	APIKey            string  `yaml:"apiKey"`
	TimeoutSeconds    int     `yaml:"timeoutSeconds"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
}

// Timeout returns the HTTP timeout for search calls.
func (s SearchConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// WriterConfig defines which LLM writes the bulletin and how.
type WriterConfig struct {
	Provider        string  `yaml:"provider"`
	Model           string  `yaml:"model"`
	OpenAIAPIKey    string  `yaml:"openaiApiKey"`
	AnthropicAPIKey string  `yaml:"anthropicApiKey"`
	BaseURL         string  `yaml:"baseUrl"`
	MaxTokens       int     `yaml:"maxTokens"`
	Temperature     float64 `yaml:"temperature"`
	TimeoutSeconds  int     `yaml:"timeoutSeconds"`
}

// Timeout returns the per-request timeout for the writer.
func (w WriterConfig) Timeout() time.Duration {
	return time.Duration(w.TimeoutSeconds) * time.Second
}

// APIKey returns the key for the selected provider.
func (w WriterConfig) APIKey() string {
	if w.Provider == ProviderAnthropic {
		return w.AnthropicAPIKey
	}
	return w.OpenAIAPIKey
}

// BulletinConfig holds the per-run defaults.
type BulletinConfig struct {
	Query        string         `yaml:"query"`
	LookbackDays int            `yaml:"lookbackDays"`
	MaxResults   int            `yaml:"maxResults"`
	Timezone     string         `yaml:"timezone"`
	Domains      []string       `yaml:"domains"`
	OutputDir    string         `yaml:"outputDir"`
	location     *time.Location `yaml:"-"`
}

// Location resolves the bulletin timezone string to a time.Location.
func (b BulletinConfig) Location() *time.Location {
	if b.location != nil {
		return b.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// CacheConfig enables the Redis search response cache when RedisURL is set.
type CacheConfig struct {
	RedisURL   string `yaml:"redisUrl"`
	TTLMinutes int    `yaml:"ttlMinutes"`
}

// TTL returns how long cached search responses live.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// ArchiveConfig enables the Postgres bulletin archive when DSN is set.
type ArchiveConfig struct {
	DSN          string `yaml:"dsn"`
	SkipFeatured bool   `yaml:"skipFeatured"`
}

// SchedulerConfig defines when the weekly run fires.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Enabled reports whether both token and chat are present.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	return LoadFrom(os.Getenv(configPathEnv))
}

// LoadFrom is Load with an explicit file path; an empty path skips the file.
func LoadFrom(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezones()

	return cfg
}

// ValidateSearch checks what a search-only run needs.
func (c Config) ValidateSearch() error {
	var errs []error

	if strings.TrimSpace(c.Search.APIKey) == "" {
		errs = append(errs, ErrMissingSearchKey)
	}
	if c.Bulletin.LookbackDays < 1 || c.Bulletin.LookbackDays > 30 {
		errs = append(errs, ErrInvalidLookback)
	}
	if c.Bulletin.MaxResults <= 0 {
		errs = append(errs, ErrInvalidMaxResults)
	}

	return errors.Join(errs...)
}

// Validate checks what a generate run needs.
func (c Config) Validate() error {
	errs := []error{c.ValidateSearch()}

	switch c.Writer.Provider {
	case ProviderOpenAI, ProviderAnthropic:
		if strings.TrimSpace(c.Writer.APIKey()) == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingWriterKey, c.Writer.Provider))
		}
	default:
		errs = append(errs, fmt.Errorf("%w (got %q)", ErrUnknownProvider, c.Writer.Provider))
	}

	return errors.Join(errs...)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(tavilyAPIKeyEnv); v != "" {
		c.Search.APIKey = v
	}

	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.Writer.OpenAIAPIKey = v
	}

	if v := os.Getenv(anthropicKeyEnv); v != "" {
		c.Writer.AnthropicAPIKey = v
	}

	if v := os.Getenv(writerProviderEnv); v != "" {
		c.Writer.Provider = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv(writerModelEnv); v != "" {
		c.Writer.Model = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Archive.DSN = v
	}

	if v := os.Getenv(redisURLEnv); v != "" {
		c.Cache.RedisURL = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezones() {
	c.Bulletin.location = loadLocation(c.Bulletin.Timezone)
	c.Scheduler.location = loadLocation(c.Scheduler.Timezone)
}

func loadLocation(tz string) *time.Location {
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	return loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Search.Endpoint != "" {
		base.Search.Endpoint = override.Search.Endpoint
	}
	if override.Search.APIKey != "" {
		base.Search.APIKey = override.Search.APIKey
	}
	if override.Search.TimeoutSeconds > 0 {
		base.Search.TimeoutSeconds = override.Search.TimeoutSeconds
	}
	if override.Search.RequestsPerSecond > 0 {
		base.Search.RequestsPerSecond = override.Search.RequestsPerSecond
	}

	if override.Writer.Provider != "" {
		base.Writer.Provider = strings.ToLower(override.Writer.Provider)
	}
	if override.Writer.Model != "" {
		base.Writer.Model = override.Writer.Model
	}
	if override.Writer.OpenAIAPIKey != "" {
		base.Writer.OpenAIAPIKey = override.Writer.OpenAIAPIKey
	}
	if override.Writer.AnthropicAPIKey != "" {
		base.Writer.AnthropicAPIKey = override.Writer.AnthropicAPIKey
	}
	if override.Writer.BaseURL != "" {
		base.Writer.BaseURL = override.Writer.BaseURL
	}
	if override.Writer.MaxTokens > 0 {
		base.Writer.MaxTokens = override.Writer.MaxTokens
	}
	if override.Writer.Temperature > 0 {
		base.Writer.Temperature = override.Writer.Temperature
	}
	if override.Writer.TimeoutSeconds > 0 {
		base.Writer.TimeoutSeconds = override.Writer.TimeoutSeconds
	}

	if override.Bulletin.Query != "" {
		base.Bulletin.Query = override.Bulletin.Query
	}
	if override.Bulletin.LookbackDays != 0 {
		base.Bulletin.LookbackDays = override.Bulletin.LookbackDays
	}
	if override.Bulletin.MaxResults != 0 {
		base.Bulletin.MaxResults = override.Bulletin.MaxResults
	}
	if override.Bulletin.Timezone != "" {
		base.Bulletin.Timezone = override.Bulletin.Timezone
	}
	if len(override.Bulletin.Domains) > 0 {
		base.Bulletin.Domains = override.Bulletin.Domains
	}
	if override.Bulletin.OutputDir != "" {
		base.Bulletin.OutputDir = override.Bulletin.OutputDir
	}

	if override.Cache.RedisURL != "" {
		base.Cache.RedisURL = override.Cache.RedisURL
	}
	if override.Cache.TTLMinutes > 0 {
		base.Cache.TTLMinutes = override.Cache.TTLMinutes
	}

	if override.Archive.DSN != "" {
		base.Archive.DSN = override.Archive.DSN
	}
	base.Archive.SkipFeatured = base.Archive.SkipFeatured || override.Archive.SkipFeatured

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Search: SearchConfig{
			Endpoint:          "https://api.tavily.com/search",
			TimeoutSeconds:    30,
			RequestsPerSecond: 1,
		},
		Writer: WriterConfig{
			Provider:       ProviderOpenAI,
			MaxTokens:      4000,
			Temperature:    0.2,
			TimeoutSeconds: 120,
		},
		Bulletin: BulletinConfig{
			Query:        defaultQuery,
			LookbackDays: 7,
			MaxResults:   25,
			Timezone:     defaultTimezone,
			OutputDir:    ".",
			location:     tz,
		},
		Cache:     CacheConfig{TTLMinutes: 60},
		Scheduler: SchedulerConfig{CronExpression: "0 6 * * 1", Timezone: defaultTimezone, location: tz},
	}
}

// String renders a one-line summary with secrets masked, for startup logs.
func (c Config) String() string {
	return "provider=" + c.Writer.Provider +
		" model=" + c.Writer.Model +
		" lookback=" + strconv.Itoa(c.Bulletin.LookbackDays) +
		" max_results=" + strconv.Itoa(c.Bulletin.MaxResults) +
		" cache=" + strconv.FormatBool(c.Cache.RedisURL != "") +
		" archive=" + strconv.FormatBool(c.Archive.DSN != "") +
		" telegram=" + strconv.FormatBool(c.Notifications.Telegram.Enabled())
}
