// Package llm implements text polarity scoring with an OpenAI-compatible chat model
package llm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"

	"github.com/subscope/subscope/pkg/config"
)

// maxTextLen limits the text sent to the model, in runes
const maxTextLen = 2000

var numberRe = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// PolarityScorer asks a chat model for the polarity of a text
type PolarityScorer struct {
	client    *openai.Client
	config    config.LLMConfig
	systemMsg string
}

// NewPolarityScorer creates a scorer for the configured endpoint and model
func NewPolarityScorer(cfg config.LLMConfig) *PolarityScorer {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	// use custom system prompt if provided, otherwise use default
	systemMsg := cfg.SystemPrompt
	if systemMsg == "" {
		systemMsg = defaultSystemPrompt
	}

	return &PolarityScorer{
		client:    openai.NewClientWithConfig(clientConfig),
		config:    cfg,
		systemMsg: systemMsg,
	}
}

const defaultSystemPrompt = `You rate the sentiment polarity of community forum posts.
Reply with a single decimal number between -1 and 1 and nothing else:
-1 is clearly negative, 0 is neutral, 1 is clearly positive.`

// Polarity returns polarity of the text in [-1, 1]. Empty text is neutral and not sent to the model.
func (s *PolarityScorer) Polarity(ctx context.Context, text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	if utf8.RuneCountInString(text) > maxTextLen {
		text = string([]rune(text)[:maxTextLen]) + "..."
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	// retry up to 3 times if the reply has no number
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       s.config.Model,
			Temperature: float32(s.config.Temperature),
			MaxTokens:   s.config.MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: s.systemMsg},
				{Role: openai.ChatMessageRoleUser, Content: text},
			},
		})
		if err != nil {
			return 0, fmt.Errorf("llm request failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return 0, fmt.Errorf("no response from llm")
		}

		polarity, err := parsePolarity(resp.Choices[0].Message.Content)
		if err == nil {
			return polarity, nil
		}
		lastErr = err
	}

	return 0, fmt.Errorf("failed after 3 attempts: %w", lastErr)
}

// parsePolarity takes the first number of the reply and clamps it to [-1, 1]
func parsePolarity(content string) (float64, error) {
	m := numberRe.FindString(content)
	if m == "" {
		return 0, fmt.Errorf("no number in response %q", content)
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", m, err)
	}
	switch {
	case v > 1:
		v = 1
	case v < -1:
		v = -1
	}
	return v, nil
}
