package core

import (
	"fmt"
	"strings"
)

type Strategy string

// Ways to locate clickable elements.
const (
	ByLinkText        Strategy = "link_text"
	ByPartialLinkText Strategy = "partial_link_text"
	ByCSS             Strategy = "css"
)

func (s Strategy) IsValid() bool {
	switch s {
	case ByLinkText, ByPartialLinkText, ByCSS:
		return true
	}
	return false
}

// Locator identifies zero or more elements on the current page.
type Locator struct {
	By    Strategy `yaml:"by" json:"by"`
	Value string   `yaml:"value" json:"value"`
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%q", l.By, l.Value)
}

// Candidates is an ordered fallback list for one navigation step.
type Candidates []Locator

func LinkText(text string) Locator {
	return Locator{By: ByLinkText, Value: text}
}

func PartialLinkText(text string) Locator {
	return Locator{By: ByPartialLinkText, Value: text}
}

func CSS(selector string) Locator {
	return Locator{By: ByCSS, Value: selector}
}

// LinkTexts turns labels into exact link text candidates, keeping order.
func LinkTexts(labels ...string) Candidates {
	cands := make(Candidates, 0, len(labels))
	for _, l := range labels {
		cands = append(cands, LinkText(l))
	}
	return cands
}

// TextFallback returns the exact label followed by a partial match on its
// first prefixRunes characters, e.g. "运费时效" -> "运费". Short labels
// keep the whole label as the partial value, so "服务" still finds "服务网点".
func TextFallback(text string, prefixRunes int) Candidates {
	cands := Candidates{LinkText(text)}

	runes := []rune(text)
	if prefixRunes <= 0 {
		return cands
	}
	if prefixRunes > len(runes) {
		prefixRunes = len(runes)
	}

	prefix := strings.TrimSpace(string(runes[:prefixRunes]))
	if prefix == "" {
		return cands
	}
	return append(cands, PartialLinkText(prefix))
}

// NormalizeSpace collapses runs of whitespace like XPath normalize-space().
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// MatchLinkText reports whether visible link text satisfies a link strategy.
// Whitespace is collapsed on both sides, as browsers do for link text.
func MatchLinkText(by Strategy, linkText, value string) bool {
	text := NormalizeSpace(linkText)
	want := NormalizeSpace(value)

	switch by {
	case ByLinkText:
		return text == want
	case ByPartialLinkText:
		return want != "" && strings.Contains(text, want)
	}
	return false
}
