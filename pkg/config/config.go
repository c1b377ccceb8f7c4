package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Reddit RedditConfig `yaml:"reddit" json:"reddit" jsonschema:"description=Board-content API configuration"`

	Collect CollectConfig `yaml:"collect" json:"collect" jsonschema:"description=Collection defaults"`

	Schedule ScheduleConfig `yaml:"schedule" json:"schedule" jsonschema:"description=Scheduled collection in serve mode"`

	Sentiment struct {
		Scorer string `yaml:"scorer" json:"scorer" jsonschema:"default=lexicon,enum=lexicon,enum=llm,description=Polarity scorer used for sentiment"`
	} `yaml:"sentiment" json:"sentiment" jsonschema:"description=Sentiment configuration"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for the llm polarity scorer"`
}

// RedditConfig holds board-content API settings
type RedditConfig struct {
	BaseURL      string        `yaml:"base_url" json:"base_url" jsonschema:"default=https://www.reddit.com,description=Public API base URL"`
	AuthURL      string        `yaml:"auth_url" json:"auth_url" jsonschema:"default=https://www.reddit.com/api/v1/access_token,description=OAuth token endpoint"`
	OAuthURL     string        `yaml:"oauth_url" json:"oauth_url" jsonschema:"default=https://oauth.reddit.com,description=API base URL used with OAuth token"`
	ClientID     string        `yaml:"client_id" json:"client_id" jsonschema:"description=OAuth client id (optional)"`
	ClientSecret string        `yaml:"client_secret" json:"client_secret" jsonschema:"description=OAuth client secret (can use environment variable)"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=subscope/1.0,description=User agent for API requests"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP request timeout"`
	RateLimit    time.Duration `yaml:"rate_limit" json:"rate_limit" jsonschema:"default=1s,description=Minimal interval between API requests"`
}

// CollectConfig holds defaults for collection runs
type CollectConfig struct {
	OutputDir    string        `yaml:"output_dir" json:"output_dir" jsonschema:"default=reports,description=Directory for CSV reports"`
	KeywordsFile string        `yaml:"keywords_file" json:"keywords_file" jsonschema:"default=topic_keywords.json,description=Topic keywords JSON file"`
	Pause        time.Duration `yaml:"pause" json:"pause" jsonschema:"default=2s,description=Pacing delay between boards"`
	Listing      string        `yaml:"listing" json:"listing" jsonschema:"default=top,enum=top,enum=hot,enum=new,enum=controversial,description=Default listing type"`
	Window       string        `yaml:"window" json:"window" jsonschema:"default=week,enum=day,enum=week,enum=month,enum=year,enum=all,description=Default time window"`
	Limit        int           `yaml:"limit" json:"limit" jsonschema:"default=50,minimum=1,description=Default number of posts per board"`
}

// ScheduleConfig holds periodic collection settings, used by serve command only
type ScheduleConfig struct {
	Interval time.Duration `yaml:"interval" json:"interval" jsonschema:"default=0s,description=Interval between scheduled collections (0 disables)"`
	Boards   []string      `yaml:"boards" json:"boards" jsonschema:"description=Boards collected on schedule with collection defaults"`
}

// LLMConfig holds LLM configuration for polarity scoring
type LLMConfig struct {
	Endpoint     string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint"`
	APIKey       string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model        string        `yaml:"model" json:"model" jsonschema:"description=Model name (e.g. gpt-4o-mini or llama3)"`
	Temperature  float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0,description=Temperature for response generation"`
	MaxTokens    int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=10,description=Maximum tokens in response"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
	SystemPrompt string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt for the LLM (optional)"`
}

// scorer names
const (
	ScorerLexicon = "lexicon"
	ScorerLLM     = "llm"
)

// Default returns configuration with all defaults applied, used when no config file is given
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	// set defaults for server
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	// set defaults for reddit
	if cfg.Reddit.BaseURL == "" {
		cfg.Reddit.BaseURL = "https://www.reddit.com"
	}
	if cfg.Reddit.AuthURL == "" {
		cfg.Reddit.AuthURL = "https://www.reddit.com/api/v1/access_token"
	}
	if cfg.Reddit.OAuthURL == "" {
		cfg.Reddit.OAuthURL = "https://oauth.reddit.com"
	}
	if cfg.Reddit.UserAgent == "" {
		cfg.Reddit.UserAgent = "subscope/1.0"
	}
	if cfg.Reddit.Timeout == 0 {
		cfg.Reddit.Timeout = 30 * time.Second
	}
	if cfg.Reddit.RateLimit == 0 {
		cfg.Reddit.RateLimit = time.Second
	}

	// set defaults for collection
	if cfg.Collect.OutputDir == "" {
		cfg.Collect.OutputDir = "reports"
	}
	if cfg.Collect.KeywordsFile == "" {
		cfg.Collect.KeywordsFile = "topic_keywords.json"
	}
	if cfg.Collect.Pause == 0 {
		cfg.Collect.Pause = 2 * time.Second
	}
	if cfg.Collect.Listing == "" {
		cfg.Collect.Listing = "top"
	}
	if cfg.Collect.Window == "" {
		cfg.Collect.Window = "week"
	}
	if cfg.Collect.Limit == 0 {
		cfg.Collect.Limit = 50
	}

	// set defaults for sentiment and LLM
	if cfg.Sentiment.Scorer == "" {
		cfg.Sentiment.Scorer = ScorerLexicon
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 10
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 30 * time.Second
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	switch cfg.Sentiment.Scorer {
	case ScorerLexicon:
	case ScorerLLM:
		if cfg.LLM.Endpoint == "" {
			return fmt.Errorf("llm.endpoint is required for llm scorer")
		}
		if cfg.LLM.Model == "" {
			return fmt.Errorf("llm.model is required for llm scorer")
		}
	default:
		return fmt.Errorf("unknown sentiment.scorer %q", cfg.Sentiment.Scorer)
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}

	if cfg.Collect.Limit < 1 {
		return fmt.Errorf("collect.limit must be at least 1")
	}
	if cfg.Collect.Pause < 0 {
		return fmt.Errorf("collect.pause must be non-negative")
	}
	if (cfg.Reddit.ClientID == "") != (cfg.Reddit.ClientSecret == "") {
		return fmt.Errorf("reddit.client_id and reddit.client_secret must be set together")
	}

	if cfg.Schedule.Interval < 0 {
		return fmt.Errorf("schedule.interval must be non-negative")
	}
	if cfg.Schedule.Interval > 0 {
		if cfg.Schedule.Interval < time.Minute {
			return fmt.Errorf("schedule.interval must be at least 1 minute")
		}
		if len(cfg.Schedule.Boards) == 0 {
			return fmt.Errorf("schedule.boards is required when schedule.interval is set")
		}
	}

	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetCollectConfig returns collection defaults
func (c *Config) GetCollectConfig() CollectConfig {
	return c.Collect
}

// GetScheduleConfig returns scheduled collection settings
func (c *Config) GetScheduleConfig() ScheduleConfig {
	return c.Schedule
}

// Secrets returns configured secret values for log masking
func (c *Config) Secrets() []string {
	var res []string
	for _, s := range []string{c.Reddit.ClientSecret, c.LLM.APIKey} {
		if s != "" {
			res = append(res, s)
		}
	}
	return res
}
