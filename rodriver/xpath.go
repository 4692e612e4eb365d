package rodriver

import (
	"fmt"
	"strings"

	"github.com/karust/navprobe/core"
)

// xpathLiteral quotes s as an XPath 1.0 string literal. XPath has no escape
// sequences, so values holding both quote kinds are built with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	parts := strings.Split(s, "'")
	args := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			args = append(args, `"'"`)
		}
		if p != "" {
			args = append(args, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}

// linkXPath matches anchors by their visible text, the way WebDriver's
// link text strategies do.
func linkXPath(by core.Strategy, value string) string {
	lit := xpathLiteral(core.NormalizeSpace(value))
	if by == core.ByPartialLinkText {
		return fmt.Sprintf("//a[contains(normalize-space(.), %s)]", lit)
	}
	return fmt.Sprintf("//a[normalize-space(.)=%s]", lit)
}
