// Package summarize produces an optional plain-English paragraph about
// the rate movement for the top of the alert email.
package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pmehta/ratewatch/internal/rates"
)

const (
	defaultModel = "gpt-4o-mini"

	systemPrompt = "You summarize mortgage rate movements for a homeowner watching refinance pricing. " +
		"Reply with at most two plain sentences, no markdown, no advice beyond describing the movement."
)

// Config holds client settings.
type Config struct {
	APIKey    string
	Model     string
	Timeout   time.Duration
	MaxTokens int
}

// Client wraps the OpenAI chat API.
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// New creates a client from config.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("summarize: API key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 200
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		api:       openai.NewClient(apiKey),
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
	}, nil
}

// ChangeSummary describes how the best rate per product moved between
// the two listings.
func (c *Client) ChangeSummary(ctx context.Context, oldRates, newRates []rates.RateOption) (string, error) {
	if c == nil {
		return "", fmt.Errorf("summarize: client is nil")
	}

	prompt := buildPrompt(oldRates, newRates)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: c.maxTokens,
	}

	resp, err := c.api.CreateChatCompletion(ctxWithTimeout, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summarize: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildPrompt(oldRates, newRates []rates.RateOption) string {
	oldBest := rates.BestByProduct(oldRates)
	newBest := rates.BestByProduct(newRates)

	var b strings.Builder
	b.WriteString("Best available rate per product, previous -> current:\n")
	for product, nb := range newBest {
		ob, ok := oldBest[product]
		if !ok {
			fmt.Fprintf(&b, "%s: new product, now %s APR %s\n",
				product, num(nb.Rate), num(nb.APR))
			continue
		}
		fmt.Fprintf(&b, "%s: rate %s -> %s, APR %s -> %s\n",
			product, num(ob.Rate), num(nb.Rate), num(ob.APR), num(nb.APR))
	}
	return b.String()
}

func num(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.3f%%", *v)
}
