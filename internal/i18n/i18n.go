// Package i18n selects user-facing messages in the supported languages.
// Messages are registered with golang.org/x/text/message under stable keys;
// callers pass keys around and render them at the edge.
package i18n

import (
	"context"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// supported lists the available languages; the first entry is the default.
var supported = []language.Tag{language.Russian, language.English}

var matcher = language.NewMatcher(supported)

func init() {
	register(language.English, english)
	register(language.Russian, russian)
}

func register(tag language.Tag, catalog map[string]string) {
	for key, msg := range catalog {
		if err := message.SetString(tag, key, msg); err != nil {
			panic("i18n: register " + tag.String() + " " + key + ": " + err.Error())
		}
	}
}

// DefaultTag returns the language used when nothing better matches.
func DefaultTag() language.Tag {
	return supported[0]
}

// Supported returns the supported language tags.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// Match picks the best supported language for the given preferences. Each
// value may be an Accept-Language header ("en-US,en;q=0.8") or a POSIX locale
// ("en_US.UTF-8"). Values are tried in order; the first one that matches a
// supported language wins.
func Match(values ...string) language.Tag {
	for _, raw := range values {
		value := normalizeLocale(raw)
		if value == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(value)
		if err != nil || len(tags) == 0 {
			continue
		}
		_, idx, confidence := matcher.Match(tags...)
		if confidence == language.No {
			continue
		}
		return supported[idx]
	}
	return DefaultTag()
}

// normalizeLocale turns POSIX locale names into BCP 47 form.
func normalizeLocale(raw string) string {
	value := strings.TrimSpace(raw)
	if i := strings.IndexAny(value, ".@"); i >= 0 && !strings.Contains(value, ",") {
		value = value[:i]
	}
	if value == "C" || value == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(value, "_", "-")
}

// T renders the message registered under key for tag. Unknown keys render as
// the key itself.
func T(tag language.Tag, key string, args ...any) string {
	return message.NewPrinter(tag).Sprintf(key, args...)
}

type ctxKey struct{}

// WithTag returns a context carrying the request language.
func WithTag(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, ctxKey{}, tag)
}

// FromContext returns the language stored by WithTag, or DefaultTag.
func FromContext(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(ctxKey{}).(language.Tag); ok {
		return tag
	}
	return DefaultTag()
}
