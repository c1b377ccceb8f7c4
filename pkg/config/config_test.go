package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		t.Setenv("TEST_REDDIT_SECRET", "s3cret")
		configContent := `
server:
  listen: ":9090"
  timeout: 45s

reddit:
  client_id: my-client
  client_secret: ${TEST_REDDIT_SECRET}
  rate_limit: 500ms

collect:
  output_dir: /tmp/reports
  pause: 3s
  listing: new
  limit: 25
`
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "test-config.yml")
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, ":9090", cfg.Server.Listen)
		assert.Equal(t, 45*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "my-client", cfg.Reddit.ClientID)
		assert.Equal(t, "s3cret", cfg.Reddit.ClientSecret)
		assert.Equal(t, 500*time.Millisecond, cfg.Reddit.RateLimit)
		assert.Equal(t, "/tmp/reports", cfg.Collect.OutputDir)
		assert.Equal(t, 3*time.Second, cfg.Collect.Pause)
		assert.Equal(t, "new", cfg.Collect.Listing)
		assert.Equal(t, "week", cfg.Collect.Window)
		assert.Equal(t, 25, cfg.Collect.Limit)
		assert.Equal(t, []string{"s3cret"}, cfg.Secrets())
	})

	t.Run("defaults", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "test-config.yml")
		err := os.WriteFile(configPath, []byte("server:\n  listen: \":8080\"\n"), 0o644)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)

		assert.Equal(t, ":8080", cfg.Server.Listen)
		assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
		assert.Equal(t, "https://www.reddit.com", cfg.Reddit.BaseURL)
		assert.Equal(t, "https://oauth.reddit.com", cfg.Reddit.OAuthURL)
		assert.Equal(t, "subscope/1.0", cfg.Reddit.UserAgent)
		assert.Equal(t, time.Second, cfg.Reddit.RateLimit)
		assert.Equal(t, "topic_keywords.json", cfg.Collect.KeywordsFile)
		assert.Equal(t, 2*time.Second, cfg.Collect.Pause)
		assert.Equal(t, "top", cfg.Collect.Listing)
		assert.Equal(t, 50, cfg.Collect.Limit)
		assert.Equal(t, ScorerLexicon, cfg.Sentiment.Scorer)
		assert.Empty(t, cfg.Secrets())
	})

	t.Run("file not found", func(t *testing.T) {
		cfg, err := Load("/non/existent/file.yml")
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configContent := `
invalid yaml content
  with bad indentation
    and no structure
`
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "invalid.yml")
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "parse config")
	})
}

func TestValidate(t *testing.T) {
	tbl := []struct {
		name   string
		modify func(c *Config)
		errMsg string
	}{
		{"defaults ok", func(*Config) {}, ""},
		{"llm scorer without endpoint", func(c *Config) { c.Sentiment.Scorer = ScorerLLM }, "llm.endpoint is required"},
		{"llm scorer without model", func(c *Config) {
			c.Sentiment.Scorer = ScorerLLM
			c.LLM.Endpoint = "http://localhost:1234/v1"
		}, "llm.model is required"},
		{"llm scorer complete", func(c *Config) {
			c.Sentiment.Scorer = ScorerLLM
			c.LLM.Endpoint = "http://localhost:1234/v1"
			c.LLM.Model = "m"
		}, ""},
		{"unknown scorer", func(c *Config) { c.Sentiment.Scorer = "magic" }, "unknown sentiment.scorer"},
		{"bad temperature", func(c *Config) { c.LLM.Temperature = 3 }, "llm.temperature"},
		{"negative limit", func(c *Config) { c.Collect.Limit = -1 }, "collect.limit"},
		{"negative pause", func(c *Config) { c.Collect.Pause = -time.Second }, "collect.pause"},
		{"client id without secret", func(c *Config) { c.Reddit.ClientID = "id" }, "must be set together"},
		{"short server timeout", func(c *Config) { c.Server.Timeout = time.Millisecond }, "server timeout"},
		{"schedule without boards", func(c *Config) { c.Schedule.Interval = time.Hour }, "schedule.boards is required"},
		{"schedule too frequent", func(c *Config) {
			c.Schedule.Interval = time.Second
			c.Schedule.Boards = []string{"golang"}
		}, "at least 1 minute"},
		{"negative schedule", func(c *Config) { c.Schedule.Interval = -time.Hour }, "schedule.interval"},
		{"schedule complete", func(c *Config) {
			c.Schedule.Interval = 24 * time.Hour
			c.Schedule.Boards = []string{"golang"}
		}, ""},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := validate(cfg)
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_GetServerConfig(t *testing.T) {
	cfg := Default()
	cfg.Server.Listen = ":9090"
	cfg.Server.Timeout = 45 * time.Second

	listen, timeout := cfg.GetServerConfig()
	assert.Equal(t, ":9090", listen)
	assert.Equal(t, 45*time.Second, timeout)
}

func TestConfig_GetCollectConfig(t *testing.T) {
	cfg := Default()
	cfg.Collect.Limit = 10
	cfg.Collect.Listing = "hot"

	cc := cfg.GetCollectConfig()
	assert.Equal(t, 10, cc.Limit)
	assert.Equal(t, "hot", cc.Listing)
	assert.Equal(t, "reports", cc.OutputDir)
}

func TestConfig_Secrets(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Secrets())

	cfg.Reddit.ClientSecret = "reddit-secret"
	cfg.LLM.APIKey = "llm-key"
	assert.Equal(t, []string{"reddit-secret", "llm-key"}, cfg.Secrets())
}

func TestConfig_GetScheduleConfig(t *testing.T) {
	cfg := Default()
	assert.Zero(t, cfg.GetScheduleConfig().Interval, "disabled by default")

	cfg.Schedule.Interval = 6 * time.Hour
	cfg.Schedule.Boards = []string{"golang", "rust"}
	sc := cfg.GetScheduleConfig()
	assert.Equal(t, 6*time.Hour, sc.Interval)
	assert.Equal(t, []string{"golang", "rust"}, sc.Boards)
}
