package rodriver

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/karust/navprobe/core"
)

// Needs a local Chrome, opt in with NAVPROBE_ROD_TESTS=1
func newTestBrowser(t *testing.T) *Browser {
	if os.Getenv("NAVPROBE_ROD_TESTS") != "1" {
		t.Skip("NAVPROBE_ROD_TESTS not set")
	}

	browser, err := NewBrowser(core.DriverConfig{Headless: true, PageLoadTimeout: 10 * time.Second, ImplicitWait: time.Second})
	if err != nil {
		t.Fatalf("Error failed initializing browser: %s", err)
	}
	t.Cleanup(func() { browser.Close() })
	return browser
}

func TestBrowserClickLink(t *testing.T) {
	browser := newTestBrowser(t)

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if r.URL.Path == "/support" {
			w.Write([]byte(`<html><body><h1>support</h1></body></html>`))
			return
		}
		w.Write([]byte(`<html><body><a href="/support"> 服务支持 </a></body></html>`))
	}))
	defer site.Close()

	if err := browser.Open(site.URL); err != nil {
		t.Fatal(err)
	}

	els, err := browser.FindElements(core.ByLinkText, "服务支持")
	if err != nil || len(els) != 1 {
		t.Fatalf("Wanted one link, got %d (%v)", len(els), err)
	}
	if err := els[0].Click(); err != nil {
		t.Fatal(err)
	}

	els, err = browser.FindElements(core.ByPartialLinkText, "NoSuchLabel")
	if err != nil || len(els) != 0 {
		t.Fatalf("Wanted no links, got %d (%v)", len(els), err)
	}

	png, err := browser.Screenshot()
	if err != nil || len(png) == 0 {
		t.Fatalf("Empty screenshot: %v", err)
	}
}
