// Package sanitize limpa as descrições que chegam do painel com HTML colado.
package sanitize

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blockTags = "p, div, li, br, h1, h2, h3, h4, h5, h6, tr"

// Text extrai o texto visível de um fragmento HTML, um bloco por linha.
// Scripts e estilos são descartados.
func Text(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapse(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapse(html.UnescapeString(fragment))
	}
	doc.Find("script, style, iframe, object").Remove()
	doc.Find(blockTags).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	text := doc.Text()
	return collapse(text)
}

// collapse junta espaços repetidos em cada linha e remove linhas vazias.
func collapse(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
