// Package seleniumdriver implements core.Session over the WebDriver protocol,
// either through a local chromedriver or a remote WebDriver endpoint.
package seleniumdriver

import (
	"fmt"
	"net"
	"os/exec"
	"strings"
	"time"

	"github.com/karust/navprobe/core"
	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

const chromedriverBin = "chromedriver"

type Driver struct {
	core.DriverConfig
	service *selenium.Service
	wd      selenium.WebDriver
}

func New(conf core.DriverConfig) (*Driver, error) {
	conf.Check()
	logrus.Debugf("WebDriver options: %+v", conf)

	d := Driver{DriverConfig: conf}

	endpoint := conf.RemoteURL
	if endpoint == "" {
		path, err := driverPath(conf.DriverPath)
		if err != nil {
			return nil, err
		}

		port, err := freePort()
		if err != nil {
			return nil, fmt.Errorf("%w: no free port for chromedriver: %v", core.ErrDriverFault, err)
		}

		d.service, err = selenium.NewChromeDriverService(path, port)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot start chromedriver %s: %v", core.ErrDriverFault, path, err)
		}
		endpoint = fmt.Sprintf("http://localhost:%d", port)
	}

	var err error
	d.wd, err = selenium.NewRemote(capabilities(conf), endpoint)
	if err != nil {
		d.stopService()
		return nil, fmt.Errorf("%w: cannot create session at %s: %v", core.ErrDriverFault, endpoint, err)
	}

	if err := d.wd.SetImplicitWaitTimeout(conf.ImplicitWait); err != nil {
		logrus.Warnf("Cannot set implicit wait: %v", err)
	}
	if err := d.SetPageLoadTimeout(conf.PageLoadTimeout); err != nil {
		logrus.Warnf("Cannot set page load timeout: %v", err)
	}

	// Headless windows can't be maximized, size them explicitly instead
	if err := d.wd.MaximizeWindow(""); err != nil {
		logrus.Debugf("Cannot maximize window, resizing: %v", err)
		if err := d.wd.ResizeWindow("", conf.WindowWidth, conf.WindowHeight); err != nil {
			logrus.Warnf("Cannot resize window: %v", err)
		}
	}

	return &d, nil
}

func driverPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	found, err := exec.LookPath(chromedriverBin)
	if err != nil {
		return "", fmt.Errorf("%w: %s not found, set driver_path: %v", core.ErrDriverFault, chromedriverBin, err)
	}
	return found, nil
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

func chromeArgs(conf core.DriverConfig) []string {
	args := []string{}
	if conf.Headless {
		args = append(args,
			"--headless=new",
			"--no-sandbox",
			"--disable-dev-shm-usage",
			fmt.Sprintf("--window-size=%d,%d", conf.WindowWidth, conf.WindowHeight),
		)
	}
	if conf.LanguageCode != "" {
		args = append(args, "--lang="+conf.LanguageCode)
	}
	if conf.ProxyURL != "" {
		args = append(args, "--proxy-server="+conf.ProxyURL)
	}
	if conf.Insecure {
		args = append(args, "--ignore-certificate-errors")
	}
	return args
}

func capabilities(conf core.DriverConfig) selenium.Capabilities {
	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chrome.Capabilities{
		Path: chromeBinary(conf),
		Args: chromeArgs(conf),
		W3C:  true,
	})
	return caps
}

// With a remote endpoint DriverPath may point at the Chrome binary instead of
// chromedriver.
func chromeBinary(conf core.DriverConfig) string {
	if conf.RemoteURL == "" || conf.DriverPath == "" {
		return ""
	}
	if strings.Contains(conf.DriverPath, chromedriverBin) {
		return ""
	}
	return conf.DriverPath
}

func by(strategy core.Strategy) (string, error) {
	switch strategy {
	case core.ByLinkText:
		return selenium.ByLinkText, nil
	case core.ByPartialLinkText:
		return selenium.ByPartialLinkText, nil
	case core.ByCSS:
		return selenium.ByCSSSelector, nil
	}
	return "", fmt.Errorf("%w: unsupported locator strategy %q", core.ErrDriverFault, strategy)
}

func (d *Driver) SetPageLoadTimeout(timeout time.Duration) error {
	d.PageLoadTimeout = timeout
	return d.wd.SetPageLoadTimeout(timeout)
}

func (d *Driver) Open(URL string) error {
	logrus.Debug("Navigate to: ", URL)
	if err := d.wd.Get(URL); err != nil {
		return fmt.Errorf("%w: navigate %s: %v", core.ErrDriverFault, URL, err)
	}
	return nil
}

func (d *Driver) FindElements(strategy core.Strategy, value string) ([]core.Element, error) {
	method, err := by(strategy)
	if err != nil {
		return nil, err
	}

	els, err := d.wd.FindElements(method, value)
	if err != nil {
		if isNoSuchElement(err) {
			return nil, core.ErrElementNotFound
		}
		return nil, fmt.Errorf("%w: %v", core.ErrDriverFault, err)
	}

	found := make([]core.Element, 0, len(els))
	for _, el := range els {
		found = append(found, el)
	}
	return found, nil
}

// Some drivers answer an empty lookup with an error instead of an empty list.
func isNoSuchElement(err error) bool {
	return strings.Contains(err.Error(), "no such element")
}

func (d *Driver) Screenshot() ([]byte, error) {
	return d.wd.Screenshot()
}

func (d *Driver) Close() error {
	err := d.wd.Quit()
	d.stopService()
	return err
}

func (d *Driver) stopService() {
	if d.service == nil {
		return
	}
	if err := d.service.Stop(); err != nil {
		logrus.Debugf("Cannot stop chromedriver: %v", err)
	}
}
