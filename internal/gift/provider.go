package gift

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bornholm/genai/llm"
	"github.com/bornholm/genai/llm/prompt"
	"github.com/pkg/errors"
	"github.com/tartampluch/go-birthday-server/internal/config"
)

// Input carries the derived facts the suggestion prompt is built from.
type Input struct {
	Name          string
	Age           int
	DaysRemaining int
	Interests     []string
}

// Provider is the gift suggestion boundary. Implementations may fail; callers
// that must not fail use TryGenerate instead.
type Provider interface {
	Suggest(ctx context.Context, input Input) (string, error)
}

const suggestionPromptTemplate = `
Suggest 3 short, creative, and age-appropriate birthday gift ideas
for a {{ .Age }}-year-old named {{ .Name }}.
They like {{ .Interests }}.
Their birthday is in {{ .DaysRemaining }} days.
Respond naturally with comma-separated ideas only, no numbering.
`

// Completer is the subset of llm.Client the provider needs. Satisfied by any
// genai client; narrowed so tests can mock it.
type Completer interface {
	ChatCompletion(ctx context.Context, funcs ...llm.ChatCompletionOptionFunc) (llm.ChatCompletionResponse, error)
}

// LLMProvider generates suggestions with a chat completion model.
type LLMProvider struct {
	client Completer
}

// NewLLMProvider wraps a chat completion client.
func NewLLMProvider(client Completer) *LLMProvider {
	return &LLMProvider{client: client}
}

// Suggest implements Provider.
func (p *LLMProvider) Suggest(ctx context.Context, input Input) (string, error) {
	interests := strings.Join(input.Interests, ", ")
	if interests == "" {
		interests = "surprises"
	}

	userPrompt, err := prompt.Template(suggestionPromptTemplate, struct {
		Name          string
		Age           int
		DaysRemaining int
		Interests     string
	}{
		Name:          input.Name,
		Age:           input.Age,
		DaysRemaining: input.DaysRemaining,
		Interests:     interests,
	})
	if err != nil {
		return "", errors.WithStack(err)
	}

	completion, err := p.client.ChatCompletion(ctx,
		llm.WithMessages(
			llm.NewMessage(llm.RoleUser, userPrompt),
		),
		llm.WithTemperature(0.7),
	)
	if err != nil {
		return "", errors.WithStack(err)
	}

	suggestions := strings.TrimSpace(completion.Message().Content())
	if suggestions == "" {
		return "", errors.New("empty completion")
	}

	return suggestions, nil
}

var _ Provider = &LLMProvider{}

// TryGenerate asks the provider for suggestions and degrades to the constant
// fallback text on any failure. It never returns an error: gift suggestions
// are best-effort and must not block record creation.
func TryGenerate(ctx context.Context, provider Provider, input Input) string {
	if provider == nil {
		return config.GiftFallback
	}

	ctx, cancel := context.WithTimeout(ctx, config.GiftTimeout)
	defer cancel()

	suggestions, err := provider.Suggest(ctx, input)
	if err != nil {
		slog.Warn(config.MsgGiftFallback,
			config.LogKeyComponent, config.CompGift,
			config.LogKeyName, input.Name,
			config.LogKeyError, err,
		)
		return config.GiftFallback
	}

	slog.Debug(config.MsgGiftGenerated,
		config.LogKeyComponent, config.CompGift,
		config.LogKeyName, input.Name,
		config.LogKeyAge, input.Age,
		config.LogKeyDays, input.DaysRemaining,
	)

	return suggestions
}
