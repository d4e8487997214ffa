// Package reflection asks a hosted language model for a short, supportive
// comment on a journal entry.
package reflection

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/config"
	"github.com/dmitrijs2005/mindjournal/internal/logging"
	"github.com/dmitrijs2005/mindjournal/internal/metrics"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

// ErrEmptyText is returned for blank input; no request is made. It
// matches common.ErrValidation.
var ErrEmptyText = fmt.Errorf("%w: reflection text is empty", common.ErrValidation)

// Fallback is returned when the model answers with nothing.
const Fallback = "I couldn't generate a reflection at this moment."

const promptTemplate = `You are a supportive, insightful, and empathetic journaling companion.
Read the following journal entry and provide a brief, warm reflection.
It could be a validating comment, a gentle insight, or a thought-provoking question to help the writer dig deeper.
Keep the response concise (under 60 words) and use a comforting tone.

Journal Entry: "%s"`

// newModel builds the chat model. Swapped in tests.
var newModel = func(baseURL, model, token string) (llms.Model, error) {
	return openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
		openai.WithToken(token),
	)
}

// Client is stateless apart from its rate limiter and is safe for
// concurrent use.
type Client struct {
	model   llms.Model
	limiter *rate.Limiter
	timeout time.Duration
	log     logging.Logger
	metrics *metrics.Metrics
}

// New creates a client for the configured endpoint. Without an API key the
// client is still returned, and every call fails with
// common.ErrConfiguration.
func New(cfg *config.Config, log logging.Logger) (*Client, error) {
	c := &Client{
		limiter: rate.NewLimiter(perMinute(cfg.ReflectionRatePerMinute), 1),
		timeout: cfg.ReflectionTimeout,
		log:     log.With("module", "reflection"),
		metrics: metrics.NewMetrics(),
	}

	if cfg.ReflectionAPIKey == "" {
		c.log.Warn(context.Background(), "reflection API key is not set; reflections are disabled")
		return c, nil
	}

	m, err := newModel(cfg.ReflectionBaseURL, cfg.ReflectionModel, cfg.ReflectionAPIKey)
	if err != nil {
		return nil, fmt.Errorf("create reflection model: %w", err)
	}
	c.model = m

	return c, nil
}

func perMinute(n int) rate.Limit {
	if n <= 0 {
		return rate.Inf
	}
	return rate.Every(time.Minute / time.Duration(n))
}

// Enabled reports whether an API key was configured.
func (c *Client) Enabled() bool {
	return c.model != nil
}

// GenerateReflection returns the model's reflection on text.
//
// Blank text yields ErrEmptyText and a missing key common.ErrConfiguration,
// both without network I/O. Every other failure, including rate-limit
// waits cut short by ctx, is common.ErrServiceUnavailable.
func (c *Client) GenerateReflection(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	if c.model == nil {
		c.metrics.ReflectionsTotal.WithLabelValues("unconfigured").Inc()
		return "", common.ErrConfiguration
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		c.metrics.ReflectionsTotal.WithLabelValues("error").Inc()
		c.log.Warn(ctx, "reflection rate limited", "error", err)
		return "", fmt.Errorf("%w: %v", common.ErrServiceUnavailable, err)
	}

	answer, err := llms.GenerateFromSinglePrompt(ctx, c.model, fmt.Sprintf(promptTemplate, text))
	if err != nil {
		c.metrics.ReflectionsTotal.WithLabelValues("error").Inc()
		c.log.Error(ctx, "reflection request failed", "error", err)
		return "", fmt.Errorf("%w: %v", common.ErrServiceUnavailable, err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		c.metrics.ReflectionsTotal.WithLabelValues("empty").Inc()
		return Fallback, nil
	}

	c.metrics.ReflectionsTotal.WithLabelValues("ok").Inc()
	return answer, nil
}
