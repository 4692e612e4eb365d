package rodriver

import (
	"testing"

	"github.com/karust/navprobe/core"
)

func TestXPathLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`服务支持`, `'服务支持'`},
		{`Today's rates`, `"Today's rates"`},
		{`say "hi"`, `'say "hi"'`},
		{`it's "x"`, `concat('it', "'", 's "x"')`},
		{`'"`, `concat("'", '"')`},
	}

	for _, tt := range tests {
		if got := xpathLiteral(tt.in); got != tt.want {
			t.Errorf("xpathLiteral(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestLinkXPath(t *testing.T) {
	tests := []struct {
		loc  core.Locator
		want string
	}{
		{core.LinkText("服务支持"), `//a[normalize-space(.)='服务支持']`},
		{core.LinkText("  Service   Support "), `//a[normalize-space(.)='Service Support']`},
		{core.PartialLinkText("运费"), `//a[contains(normalize-space(.), '运费')]`},
	}

	for _, tt := range tests {
		if got := linkXPath(tt.loc.By, tt.loc.Value); got != tt.want {
			t.Errorf("linkXPath(%v) = %s, want %s", tt.loc, got, tt.want)
		}
	}
}

func TestEmptyPartialLinkTextMatchesNothing(t *testing.T) {
	b := &Browser{}
	for _, value := range []string{"", "  \n "} {
		els, err := b.FindElements(core.ByPartialLinkText, value)
		if err != nil || len(els) != 0 {
			t.Errorf("FindElements(partial, %q) = %d elements, %v", value, len(els), err)
		}
	}
}
