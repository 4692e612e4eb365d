package rawdriver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/karust/navprobe/core"
)

const homePage = `<html><body>
<nav>
  <a href="/support"> 服务支持 </a>
  <a href="#top">Support</a>
  <a href="javascript:void(0)">服务</a>
  <a class="menu" href="query">服务查询与预约</a>
</nav>
</body></html>`

func newSite(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(homePage))
	})
	mux.HandleFunc("/support", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1>support</h1><a href="/">home</a></body></html>`))
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/support", http.StatusFound)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(homePage))
	})
	mux.HandleFunc("/ua", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>" + r.Header.Get("User-Agent") + "</body></html>"))
	})

	site := httptest.NewServer(mux)
	t.Cleanup(site.Close)
	return site
}

func newSession(t *testing.T) *Session {
	s, err := New(core.DriverConfig{Backend: core.BackendRaw, PageLoadTimeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestFindElements(t *testing.T) {
	site := newSite(t)
	s := newSession(t)
	if err := s.Open(site.URL); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		loc  core.Locator
		want int
	}{
		{core.LinkText("服务支持"), 1},
		{core.LinkText("服务"), 1},
		{core.LinkText("服务查询"), 0},
		{core.PartialLinkText("服务"), 3},
		{core.PartialLinkText("NoSuchLabel"), 0},
		{core.CSS("a.menu"), 1},
		{core.CSS("nav a"), 4},
	}

	for _, tt := range tests {
		els, err := s.FindElements(tt.loc.By, tt.loc.Value)
		if err != nil {
			t.Fatalf("FindElements(%v): %v", tt.loc, err)
		}
		if len(els) != tt.want {
			t.Errorf("FindElements(%v) = %d elements, want %d", tt.loc, len(els), tt.want)
		}
	}
}

func TestClickFollowsLink(t *testing.T) {
	site := newSite(t)
	s := newSession(t)
	if err := s.Open(site.URL); err != nil {
		t.Fatal(err)
	}

	els, _ := s.FindElements(core.ByLinkText, "服务支持")
	if len(els) != 1 {
		t.Fatalf("Link not found")
	}
	text, _ := els[0].Text()
	if text != "服务支持" {
		t.Fatalf("Text() = %q", text)
	}

	if err := els[0].Click(); err != nil {
		t.Fatal(err)
	}
	if s.CurrentURL() != site.URL+"/support" {
		t.Fatalf("Wrong page after click: %s", s.CurrentURL())
	}

	page, _ := s.Screenshot()
	if !strings.Contains(string(page), "<h1>support</h1>") {
		t.Fatalf("Unexpected page source: %s", page)
	}
}

func TestClickWithoutTarget(t *testing.T) {
	site := newSite(t)
	s := newSession(t)
	if err := s.Open(site.URL); err != nil {
		t.Fatal(err)
	}

	for _, text := range []string{"Support", "服务"} {
		els, _ := s.FindElements(core.ByLinkText, text)
		if len(els) != 1 {
			t.Fatalf("Link %s not found", text)
		}
		if err := els[0].Click(); err != nil {
			t.Fatalf("Click on %s: %v", text, err)
		}
		if s.CurrentURL() != site.URL+"/" && s.CurrentURL() != site.URL {
			t.Fatalf("Click on %s navigated to %s", text, s.CurrentURL())
		}
	}
}

func TestRelativeLinkAndRedirect(t *testing.T) {
	site := newSite(t)
	s := newSession(t)

	if err := s.Open(site.URL + "/moved"); err != nil {
		t.Fatal(err)
	}
	if s.CurrentURL() != site.URL+"/support" {
		t.Fatalf("Redirect not followed: %s", s.CurrentURL())
	}

	if err := s.Open(site.URL + "/"); err != nil {
		t.Fatal(err)
	}
	els, _ := s.FindElements(core.ByCSS, "a.menu")
	if err := els[0].Click(); err != nil {
		t.Fatal(err)
	}
	if s.CurrentURL() != site.URL+"/query" {
		t.Fatalf("Relative link resolved to %s", s.CurrentURL())
	}
}

func TestPageLoadTimeout(t *testing.T) {
	site := newSite(t)
	s := newSession(t)
	s.SetPageLoadTimeout(50 * time.Millisecond)

	err := s.Open(site.URL + "/slow")
	if !errors.Is(err, core.ErrDriverFault) {
		t.Fatalf("Wanted driver fault on slow page, got %v", err)
	}
}

func TestNoPageLoaded(t *testing.T) {
	s := newSession(t)

	_, err := s.FindElements(core.ByLinkText, "服务支持")
	if !errors.Is(err, core.ErrNoPage) || !errors.Is(err, core.ErrDriverFault) {
		t.Fatalf("Wanted no page fault, got %v", err)
	}

	page, err := s.Screenshot()
	if err != nil || !strings.Contains(string(page), "<body>") {
		t.Fatalf("Wanted blank page, got %q (%v)", page, err)
	}
	if s.EvidenceExt() != ".html" {
		t.Fatalf("Unexpected extension %s", s.EvidenceExt())
	}
}

func TestUserAgent(t *testing.T) {
	site := newSite(t)
	s := newSession(t)
	if err := s.Open(site.URL + "/ua"); err != nil {
		t.Fatal(err)
	}

	page, _ := s.Screenshot()
	if strings.Contains(string(page), "Go-http-client") {
		t.Fatalf("Default user agent leaked: %s", page)
	}
}
