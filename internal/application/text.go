package application

import (
	"strings"

	"golang.org/x/net/html"
)

// plainText drops markup from a status body and keeps its text. Block and
// line-break elements become spaces so words on either side stay apart.
func plainText(body string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(body))

	var b strings.Builder
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tokenizer.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "br", "p", "div", "li":
				b.WriteByte(' ')
			}
		}
	}
}

// commandTokens splits a status body into words, dropping a leading mention.
func commandTokens(body string) []string {
	tokens := strings.Fields(plainText(body))
	if len(tokens) > 0 && strings.HasPrefix(tokens[0], "@") {
		tokens = tokens[1:]
	}
	return tokens
}
