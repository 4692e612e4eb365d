// Package rodriver implements core.Session on top of a Chrome instance driven
// through the DevTools protocol with go-rod.
package rodriver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/karust/navprobe/core"
	"github.com/sirupsen/logrus"
)

type Browser struct {
	core.DriverConfig
	browserAddr string
	browser     *rod.Browser
	page        *rod.Page
}

func NewBrowser(conf core.DriverConfig) (*Browser, error) {
	conf.Check()
	logrus.Debugf("Browser options: %+v", conf)

	path := conf.DriverPath
	if path == "" {
		var has bool
		path, has = launcher.LookPath()
		logrus.Debug("Browser found: ", has)
	}

	// Create launcher
	l := launcher.New().Bin(path).Leakless(conf.Leakless).Headless(conf.Headless)

	var proxyURL *url.URL
	if conf.ProxyURL != "" {
		var err error
		proxyURL, err = url.Parse(conf.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %v", err)
		}

		logrus.Debugf("Setting up proxy: %s", proxyURL.Redacted())
		l = l.Proxy(proxyURL.String())
	}

	b := Browser{DriverConfig: conf}

	var err error
	b.browserAddr, err = l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot launch browser: %v", core.ErrDriverFault, err)
	}

	b.browser = rod.New().ControlURL(b.browserAddr)
	if err := b.browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: cannot connect to browser: %v", core.ErrDriverFault, err)
	}

	// Proxies get certificate errors ignored, otherwise only on request
	if proxyURL != nil || conf.Insecure {
		if err := b.browser.IgnoreCertErrors(true); err != nil {
			logrus.Warnf("Cannot ignore certificate errors: %v", err)
		}
	}

	if proxyURL != nil && proxyURL.User != nil {
		username := proxyURL.User.Username()
		password, _ := proxyURL.User.Password()
		logrus.Debugf("Using proxy authentication: %s:****", username)

		// Auth handler must be waiting before the first navigation
		wait := b.browser.HandleAuth(username, password)
		go func() {
			if err := wait(); err != nil {
				logrus.Debugf("Proxy auth handler stopped: %v", err)
			}
		}()
	}

	if conf.Stealth {
		b.page, err = stealth.Page(b.browser)
	} else {
		b.page, err = b.browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		b.browser.Close()
		return nil, fmt.Errorf("%w: cannot create page: %v", core.ErrDriverFault, err)
	}

	err = b.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             conf.WindowWidth,
		Height:            conf.WindowHeight,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		logrus.Warnf("Cannot set viewport %dx%d: %v", conf.WindowWidth, conf.WindowHeight, err)
	}

	if conf.LanguageCode != "" {
		if _, err := b.page.SetExtraHeaders([]string{"Accept-Language", conf.LanguageCode}); err != nil {
			logrus.Warnf("Cannot set language %s: %v", conf.LanguageCode, err)
		}
	}

	return &b, nil
}

// Check whether browser instance is already created
func (b *Browser) IsInitialized() bool {
	return b.browserAddr != "" && b.page != nil
}

func (b *Browser) SetPageLoadTimeout(timeout time.Duration) error {
	b.PageLoadTimeout = timeout
	return nil
}

// Open URL and wait for the load event, bounded by the page load timeout
func (b *Browser) Open(URL string) error {
	logrus.Debug("Navigate to: ", URL)

	page := b.page.Timeout(b.PageLoadTimeout)
	defer page.CancelTimeout()

	if err := page.Navigate(URL); err != nil {
		return fmt.Errorf("%w: navigate %s: %v", core.ErrDriverFault, URL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("%w: load %s: %v", core.ErrDriverFault, URL, err)
	}
	return nil
}

func (b *Browser) FindElements(by core.Strategy, value string) ([]core.Element, error) {
	// contains(x, '') holds for every anchor, an empty partial text matches none
	if by == core.ByPartialLinkText && core.NormalizeSpace(value) == "" {
		return nil, nil
	}

	var query func(*rod.Page) (rod.Elements, error)
	var first func(*rod.Page) error

	switch by {
	case core.ByCSS:
		query = func(p *rod.Page) (rod.Elements, error) { return p.Elements(value) }
		first = func(p *rod.Page) error { _, err := p.Element(value); return err }
	case core.ByLinkText, core.ByPartialLinkText:
		xpath := linkXPath(by, value)
		query = func(p *rod.Page) (rod.Elements, error) { return p.ElementsX(xpath) }
		first = func(p *rod.Page) error { _, err := p.ElementX(xpath); return err }
	default:
		return nil, fmt.Errorf("%w: unsupported locator strategy %q", core.ErrDriverFault, by)
	}

	// Implicit wait: give the page a chance to render the first match
	if b.ImplicitWait > 0 {
		page := b.page.Timeout(b.ImplicitWait)
		err := first(page)
		page.CancelTimeout()

		if errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrDriverFault, err)
		}
	}

	els, err := query(b.page)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrDriverFault, err)
	}

	found := make([]core.Element, 0, len(els))
	for _, el := range els {
		found = append(found, element{el: el, timeout: b.PageLoadTimeout})
	}
	return found, nil
}

func (b *Browser) Screenshot() ([]byte, error) {
	return b.page.Screenshot(false, nil)
}

func (b *Browser) Close() error {
	if b.page != nil {
		if err := b.page.Close(); err != nil {
			logrus.Debugf("Cannot close page: %v", err)
		}
	}
	return b.browser.Close()
}

type element struct {
	el      *rod.Element
	timeout time.Duration
}

func (e element) Click() error {
	el := e.el.Timeout(e.timeout)
	defer el.CancelTimeout()
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (e element) Text() (string, error) {
	return e.el.Text()
}
