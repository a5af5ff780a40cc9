package utils

import (
	"regexp"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var (
	descriptionPolicyOnce sync.Once
	descriptionPolicy     *bluemonday.Policy
	whitespace            = regexp.MustCompile(`\s+`)
)

// SanitizeDescription keeps only inline formatting from outcome descriptions
// before they are injected into a document.
func SanitizeDescription(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(descriptionSanitizer().Sanitize(trimmed))
}

func descriptionSanitizer() *bluemonday.Policy {
	descriptionPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("strong", "b", "em", "i", "u", "br", "span", "code", "small")
		policy.AllowAttrs("class").OnElements("span", "strong", "em")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		descriptionPolicy = policy
	})
	return descriptionPolicy
}

// Inline styles
func BoldStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true)
}

func ItalicStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Italic(true)
}

func LinkStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Underline(true)
}

func CodeStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Padding(0, 1)
}

// RenderInline turns sanitized inline markup into styled terminal text.
func RenderInline(markup string) string {
	z := html.NewTokenizer(strings.NewReader(SanitizeDescription(markup)))
	var (
		result strings.Builder
		bold   int
		italic int
		link   int
		code   int
	)

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.TrimSpace(result.String())
		case html.TextToken:
			text := whitespace.ReplaceAllString(string(z.Text()), " ")
			if text == "" {
				continue
			}
			style := lipgloss.NewStyle()
			if bold > 0 {
				style = style.Inherit(BoldStyle())
			}
			if italic > 0 {
				style = style.Inherit(ItalicStyle())
			}
			if link > 0 {
				style = style.Inherit(LinkStyle())
			}
			if code > 0 {
				style = style.Inherit(CodeStyle())
			}
			result.WriteString(style.Render(text))
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			delta := 1
			if tt == html.EndTagToken {
				delta = -1
			}
			switch string(name) {
			case "strong", "b":
				bold = max(bold+delta, 0)
			case "em", "i":
				italic = max(italic+delta, 0)
			case "a", "u":
				link = max(link+delta, 0)
			case "code":
				code = max(code+delta, 0)
			case "br":
				result.WriteString("\n")
			}
		}
	}
}
