package core

import (
	"time"
)

// Session is a live browser (or browser-like) connection. Calls block until
// the underlying driver answers or times out.
type Session interface {
	Open(url string) error
	SetPageLoadTimeout(timeout time.Duration) error
	FindElements(by Strategy, value string) ([]Element, error)
	Screenshot() ([]byte, error)
	Close() error
}

type Element interface {
	Click() error
	Text() (string, error)
}

// EvidenceFormat is implemented by sessions whose screenshots are not PNG.
type EvidenceFormat interface {
	EvidenceExt() string
}

// Evidence file extension produced by the session.
func EvidenceExt(s Session) string {
	if f, ok := s.(EvidenceFormat); ok {
		return f.EvidenceExt()
	}
	return ".png"
}

// Session backends.
const (
	BackendRod      = "rod"
	BackendSelenium = "selenium"
	BackendRaw      = "raw"
)

type DriverConfig struct {
	Backend         string        `mapstructure:"backend"`           // rod, selenium or raw
	Headless        bool          `mapstructure:"headless"`          // Hide browser interface
	DriverPath      string        `mapstructure:"driver_path"`       // Browser binary for rod, chromedriver for selenium
	RemoteURL       string        `mapstructure:"remote_url"`        // Existing WebDriver endpoint
	PageLoadTimeout time.Duration `mapstructure:"page_load_timeout"` // Bound for a single page load
	ImplicitWait    time.Duration `mapstructure:"implicit_wait"`
	WindowWidth     int           `mapstructure:"window_width"`
	WindowHeight    int           `mapstructure:"window_height"`
	LanguageCode    string        `mapstructure:"lang"`
	ProxyURL        string        `mapstructure:"proxy"`    // HTTP or Socks5 proxy URL
	Insecure        bool          `mapstructure:"insecure"` // Allow insecure TLS connections
	Leakless        bool          `mapstructure:"leakless"` // Force to kill browser
	Stealth         bool          `mapstructure:"stealth"`
}

// Initialize driver parameters with default values if they are not set
func (c *DriverConfig) Check() {
	if c.Backend == "" {
		c.Backend = BackendRod
	}
	if c.PageLoadTimeout == 0 {
		c.PageLoadTimeout = time.Second * 30
	}
	if c.ImplicitWait == 0 {
		c.ImplicitWait = time.Second * 10
	}
	if c.WindowWidth == 0 {
		c.WindowWidth = 1920
	}
	if c.WindowHeight == 0 {
		c.WindowHeight = 1080
	}
}
