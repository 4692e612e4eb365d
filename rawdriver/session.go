// Package rawdriver is a browserless core.Session. Pages are fetched over
// plain HTTP and parsed with goquery, clicks follow link targets. Scripts
// don't run, so sites that build menus client side will not be navigable.
package rawdriver

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/corpix/uarand"
	"github.com/karust/navprobe/core"
	"github.com/sirupsen/logrus"
)

type Session struct {
	client    *http.Client
	userAgent string
	lang      string
	current   *url.URL
	source    []byte
	doc       *goquery.Document
}

func New(conf core.DriverConfig) (*Session, error) {
	conf.Check()

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if conf.ProxyURL != "" {
		proxyURL, err := url.Parse(conf.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %v", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	s := Session{
		client:    &http.Client{Transport: transport, Timeout: conf.PageLoadTimeout},
		userAgent: uarand.GetRandom(),
		lang:      conf.LanguageCode,
	}
	logrus.Debugf("Raw session user agent: %s", s.userAgent)
	return &s, nil
}

func (s *Session) SetPageLoadTimeout(timeout time.Duration) error {
	s.client.Timeout = timeout
	return nil
}

func (s *Session) Open(URL string) error {
	logrus.Debug("Fetch: ", URL)

	req, err := http.NewRequest("GET", URL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrDriverFault, err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	if s.lang != "" {
		req.Header.Set("Accept-Language", s.lang)
	}

	res, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrDriverFault, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", core.ErrDriverFault, URL, err)
	}
	logrus.Debugf("Raw response: code=%d size=%d", res.StatusCode, len(body))

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: parse %s: %v", core.ErrDriverFault, URL, err)
	}

	// Redirects are followed, links resolve against the final location
	s.current = res.Request.URL
	s.source = body
	s.doc = doc
	return nil
}

// CurrentURL of the loaded page, empty before the first Open.
func (s *Session) CurrentURL() string {
	if s.current == nil {
		return ""
	}
	return s.current.String()
}

func (s *Session) FindElements(by core.Strategy, value string) ([]core.Element, error) {
	if s.doc == nil {
		return nil, fmt.Errorf("%w: %w", core.ErrDriverFault, core.ErrNoPage)
	}

	var sel *goquery.Selection
	switch by {
	case core.ByCSS:
		sel = s.doc.Find(value)
	case core.ByLinkText, core.ByPartialLinkText:
		sel = s.doc.Find("a").FilterFunction(func(_ int, a *goquery.Selection) bool {
			return core.MatchLinkText(by, a.Text(), value)
		})
	default:
		return nil, fmt.Errorf("%w: unsupported locator strategy %q", core.ErrDriverFault, by)
	}

	els := make([]core.Element, 0, sel.Length())
	sel.Each(func(_ int, item *goquery.Selection) {
		els = append(els, element{session: s, sel: item})
	})
	return els, nil
}

// Same as a browser's about:blank
var blankPage = []byte("<html><head></head><body></body></html>")

// Screenshot returns the page source, there is nothing to render.
func (s *Session) Screenshot() ([]byte, error) {
	if s.source == nil {
		return blankPage, nil
	}
	return s.source, nil
}

func (s *Session) EvidenceExt() string {
	return ".html"
}

func (s *Session) Close() error {
	s.client.CloseIdleConnections()
	s.doc = nil
	return nil
}

type element struct {
	session *Session
	sel     *goquery.Selection
}

// Click follows the element's href. Anchors without a real target are
// clicked without effect.
func (e element) Click() error {
	href, ok := e.sel.Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return nil
	}

	target, err := e.session.current.Parse(href)
	if err != nil {
		return fmt.Errorf("%w: bad href %q: %v", core.ErrDriverFault, href, err)
	}
	return e.session.Open(target.String())
}

func (e element) Text() (string, error) {
	return core.NormalizeSpace(e.sel.Text()), nil
}
