// Package i18n escolhe o idioma da resposta. As traduções em si ficam no front-end.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

const (
	Arabic  = "ar"
	English = "en"
)

var matcher = language.NewMatcher([]language.Tag{language.Arabic, language.English})

// Negotiate dá prioridade ao parâmetro ?lang=, depois ao Accept-Language e,
// por fim, ao idioma padrão.
func Negotiate(acceptLanguage, queryLang, fallback string) string {
	if l := normalize(queryLang); l != "" {
		return l
	}
	if acceptLanguage != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(tags) > 0 {
			_, idx, conf := matcher.Match(tags...)
			if conf != language.No {
				if idx == 0 {
					return Arabic
				}
				return English
			}
		}
	}
	if l := normalize(fallback); l != "" {
		return l
	}
	return Arabic
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return ""
	case strings.HasPrefix(s, Arabic):
		return Arabic
	case strings.HasPrefix(s, English):
		return English
	}
	return ""
}

// Dir devolve a direção do texto para o idioma.
func Dir(lang string) string {
	if lang == Arabic {
		return "rtl"
	}
	return "ltr"
}
