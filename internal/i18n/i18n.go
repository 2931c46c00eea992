package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-birthday-server/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator resolves localized mail and calendar strings for a fixed
// language. The server is single-user, so one localizer per process is
// enough.
type Translator struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer

	// Languages lists the locale codes detected in the embedded files.
	Languages []string
}

// New loads the embedded locale files and builds a localizer for the given
// language, falling back to English for missing messages.
func New(lang string) *Translator {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	t := &Translator{bundle: bundle}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return t
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		trimmed := strings.TrimPrefix(name, "active.")
		langCode := strings.TrimSuffix(trimmed, ".json")

		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		t.Languages = append(t.Languages, langCode)

		path := "locales/" + name
		if _, err := bundle.LoadMessageFileFS(localeFS, path); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
		} else {
			slog.Debug(config.MsgLocaleLoaded,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyLang, langCode,
				config.LogKeyFile, name,
			)
		}
	}

	if lang == "" {
		lang = config.DefaultLanguage
	}
	t.localizer = i18n.NewLocalizer(bundle, lang)

	return t
}

// Msg translates a key without template data.
func (t *Translator) Msg(key string) string {
	return t.MsgData(key, nil)
}

// MsgData translates a key with template data, returning the key itself when
// no translation exists so callers always get a usable string.
func (t *Translator) MsgData(key string, data map[string]interface{}) string {
	if t.localizer == nil {
		return key
	}
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// FormatSummary renders the calendar event summary for a person. Age 0 with a
// known year means the birth itself.
func (t *Translator) FormatSummary(name string, age int, yearKnown bool) string {
	switch {
	case yearKnown && age > 0:
		return t.MsgData(config.TKeyEvtSummaryAge, map[string]interface{}{"Name": name, "Age": age})
	case yearKnown:
		return t.MsgData(config.TKeyEvtSummaryBirth, map[string]interface{}{"Name": name})
	default:
		return t.MsgData(config.TKeyEvtSummary, map[string]interface{}{"Name": name})
	}
}

// MailSubject returns the localized birthday mail subject.
func (t *Translator) MailSubject() string {
	subject := t.Msg(config.TKeyMailSubject)
	if subject == config.TKeyMailSubject {
		return config.FallbackMailSubject
	}
	return subject
}

// MailBody returns the localized birthday mail body for the recipient.
func (t *Translator) MailBody(name string) string {
	body := t.MsgData(config.TKeyMailBody, map[string]interface{}{"Name": name})
	if body == config.TKeyMailBody {
		return fmt.Sprintf(config.FallbackMailBody, name)
	}
	return body
}
