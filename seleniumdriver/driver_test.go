package seleniumdriver

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/karust/navprobe/core"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

func TestChromeArgs(t *testing.T) {
	headless := core.DriverConfig{Headless: true}
	headless.Check()

	want := []string{"--headless=new", "--no-sandbox", "--disable-dev-shm-usage", "--window-size=1920,1080"}
	if diff := cmp.Diff(want, chromeArgs(headless)); diff != "" {
		t.Errorf("Headless args mismatch (-want +got):\n%s", diff)
	}

	local := core.DriverConfig{LanguageCode: "zh-CN", Insecure: true}
	local.Check()

	want = []string{"--lang=zh-CN", "--ignore-certificate-errors"}
	if diff := cmp.Diff(want, chromeArgs(local)); diff != "" {
		t.Errorf("Local args mismatch (-want +got):\n%s", diff)
	}
}

func TestCapabilities(t *testing.T) {
	conf := core.DriverConfig{Headless: true, RemoteURL: "http://grid:4444/wd/hub", DriverPath: "/opt/chrome/chrome"}
	conf.Check()

	caps := capabilities(conf)
	if caps["browserName"] != "chrome" {
		t.Fatalf("Unexpected browser: %v", caps["browserName"])
	}

	opts, ok := caps[chrome.CapabilitiesKey].(chrome.Capabilities)
	if !ok {
		t.Fatalf("Chrome options missing: %+v", caps)
	}
	if opts.Path != "/opt/chrome/chrome" || len(opts.Args) != 4 {
		t.Fatalf("Unexpected chrome options: %+v", opts)
	}
}

func TestChromeBinary(t *testing.T) {
	tests := []struct {
		conf core.DriverConfig
		want string
	}{
		{core.DriverConfig{DriverPath: "/usr/bin/chromedriver"}, ""},
		{core.DriverConfig{RemoteURL: "http://grid:4444", DriverPath: "/usr/bin/chromedriver"}, ""},
		{core.DriverConfig{RemoteURL: "http://grid:4444", DriverPath: "/usr/bin/google-chrome"}, "/usr/bin/google-chrome"},
	}

	for _, tt := range tests {
		if got := chromeBinary(tt.conf); got != tt.want {
			t.Errorf("chromeBinary(%+v) = %q, want %q", tt.conf, got, tt.want)
		}
	}
}

func TestBy(t *testing.T) {
	tests := map[core.Strategy]string{
		core.ByLinkText:        selenium.ByLinkText,
		core.ByPartialLinkText: selenium.ByPartialLinkText,
		core.ByCSS:             selenium.ByCSSSelector,
	}
	for strategy, want := range tests {
		got, err := by(strategy)
		if err != nil || got != want {
			t.Errorf("by(%s) = %q, %v", strategy, got, err)
		}
	}

	if _, err := by("xpath"); !errors.Is(err, core.ErrDriverFault) {
		t.Errorf("Wanted driver fault for unknown strategy, got %v", err)
	}
}

func TestDriverPath(t *testing.T) {
	path, err := driverPath("/custom/chromedriver")
	if err != nil || path != "/custom/chromedriver" {
		t.Fatalf("driverPath() = %q, %v", path, err)
	}
}

func TestIsNoSuchElement(t *testing.T) {
	if !isNoSuchElement(errors.New("no such element: Unable to locate element")) {
		t.Error("Wanted no such element match")
	}
	if isNoSuchElement(errors.New("stale element reference")) {
		t.Error("Stale element is a driver fault")
	}
}
