package gift

import (
	"context"
	"time"

	"github.com/bornholm/genai/llm"
	"github.com/pkg/errors"
	"github.com/tartampluch/go-birthday-server/internal/config"
	"golang.org/x/time/rate"

	"github.com/bornholm/genai/llm/provider"
	"github.com/bornholm/genai/llm/provider/openai"
)

// NewCompleterFromConfig creates the chat completion client from the LLM
// provider configuration, optionally wrapped with a minimum request interval.
func NewCompleterFromConfig(ctx context.Context, conf config.LLMProvider) (Completer, error) {
	client, err := provider.Create(ctx, provider.WithChatCompletion(provider.Name(conf.Name), openai.Options{
		CommonOptions: provider.CommonOptions{
			BaseURL: conf.BaseURL,
			APIKey:  conf.Key,
			Model:   conf.ChatCompletionModel,
		},
	}))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if conf.RateLimit != 0 {
		return NewRateLimitedCompleter(client, conf.RateLimit), nil
	}

	return client, nil
}

// RateLimitedCompleter spaces out chat completion requests to respect
// provider quotas.
type RateLimitedCompleter struct {
	limiter *rate.Limiter
	client  Completer
}

// ChatCompletion implements Completer.
func (r *RateLimitedCompleter) ChatCompletion(ctx context.Context, funcs ...llm.ChatCompletionOptionFunc) (llm.ChatCompletionResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return r.client.ChatCompletion(ctx, funcs...)
}

// NewRateLimitedCompleter enforces a minimum delay between requests.
func NewRateLimitedCompleter(client Completer, minDelay time.Duration) *RateLimitedCompleter {
	return &RateLimitedCompleter{
		limiter: rate.NewLimiter(rate.Every(minDelay), 1),
		client:  client,
	}
}

var _ Completer = &RateLimitedCompleter{}
