package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Bot       BotConfig       `mapstructure:"bot"`
	Memory    MemoryConfig    `mapstructure:"memory"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type OpenAIConfig struct {
	APIKey         string  `mapstructure:"api_key"`
	Model          string  `mapstructure:"model"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	Temperature    float64 `mapstructure:"temperature"`
	TopP           float64 `mapstructure:"top_p"`
	RequestTimeout int     `mapstructure:"request_timeout"`
	Retries        int     `mapstructure:"retries"`
	Stub           bool    `mapstructure:"stub"`
}

type BotConfig struct {
	OrgName      string `mapstructure:"org_name"`
	BotName      string `mapstructure:"bot_name"`
	FallbackText string `mapstructure:"fallback_text"`
	SystemPrompt string `mapstructure:"system_prompt"`
}

type MemoryConfig struct {
	Capacity int `mapstructure:"capacity"`
}

type AnalyticsConfig struct {
	UseDatabase bool           `mapstructure:"use_database"`
	Database    DatabaseConfig `mapstructure:"database"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

const defaultSystemPrompt = `You are {bot_name}, a concise, helpful first-line support agent for {org_name}.
Rules:
- Greet briefly, ask one clarifying question if needed.
- Offer concrete next steps. Use numbered lists for procedures.
- If you don't know, say so and propose how to find out.
- Keep answers under 8 sentences unless asked for details.
- If the user is frustrated, acknowledge and solve.
- Always reply in English.`

// RequestTimeoutDuration returns the per-attempt completion timeout.
func (c OpenAIConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// RenderedSystemPrompt fills the bot and org names into the system
// prompt template.
func (c BotConfig) RenderedSystemPrompt() string {
	return strings.NewReplacer(
		"{bot_name}", c.BotName,
		"{org_name}", c.OrgName,
	).Replace(c.SystemPrompt)
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	// Remove leading slash from path to get database name
	dbName := strings.TrimPrefix(u.Path, "/")

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   dbName,
		SSLMode:  "disable",
	}, nil
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("openai.model", "gpt-3.5-turbo")
	v.SetDefault("openai.max_tokens", 512)
	v.SetDefault("openai.temperature", 0.2)
	v.SetDefault("openai.top_p", 0.9)
	v.SetDefault("openai.request_timeout", 20)
	v.SetDefault("openai.retries", 2)
	v.SetDefault("bot.org_name", "Your Company")
	v.SetDefault("bot.bot_name", "Helpdesk Assistant")
	v.SetDefault("bot.fallback_text", "Sorry, my AI engine is busy right now. Please try again in a minute.")
	v.SetDefault("bot.system_prompt", defaultSystemPrompt)
	v.SetDefault("memory.capacity", 10)
	v.SetDefault("analytics.use_database", false)
	v.SetDefault("analytics.database.host", "localhost")
	v.SetDefault("analytics.database.port", 5432)
	v.SetDefault("analytics.database.user", "postgres")
	v.SetDefault("analytics.database.sslmode", "disable")

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %v", err)
		}
		config.Analytics.Database = dbConfig
		config.Analytics.UseDatabase = true
	}

	// Get other environment variables
	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}

	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}

	if v.GetString("OPENAI_STUB") == "1" {
		config.OpenAI.Stub = true
	}

	return &config, nil
}
