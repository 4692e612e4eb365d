package cmd

import (
	"fmt"
	"strings"

	"github.com/karust/navprobe/core"
	"github.com/karust/navprobe/evidence"
	"github.com/karust/navprobe/rawdriver"
	"github.com/karust/navprobe/rodriver"
	"github.com/karust/navprobe/seleniumdriver"
	"github.com/karust/navprobe/suite"
	"github.com/sirupsen/logrus"
)

func newSession(conf core.DriverConfig) (core.Session, error) {
	conf.Check()

	switch strings.ToLower(conf.Backend) {
	case core.BackendRod:
		return rodriver.NewBrowser(conf)
	case core.BackendSelenium:
		return seleniumdriver.New(conf)
	case core.BackendRaw:
		logrus.Warn("Browserless session doesn't run scripts, menus built by JS won't be found")
		return rawdriver.New(conf)
	}
	return nil, fmt.Errorf("no `%s` backend found", conf.Backend)
}

func loadSuite(path string) (*suite.Suite, error) {
	if path == "" {
		return suite.Default()
	}
	return suite.Load(path)
}

func runnerOpts() suite.RunnerOpts {
	return suite.RunnerOpts{
		PageLoadTimeout: config.Driver.PageLoadTimeout,
		RateRequests:    config.Suite.RateRequests,
		RateTime:        config.Suite.RateTime,
		Settle:          config.Suite.Settle,
	}
}

// newRunner builds the suite runner and its session. Caller closes the session.
func newRunner() (*suite.Runner, core.Session, error) {
	s, err := loadSuite(config.Suite.Path)
	if err != nil {
		return nil, nil, err
	}

	session, err := newSession(config.Driver)
	if err != nil {
		return nil, nil, err
	}

	capturer := evidence.NewCapturer(config.Suite.EvidenceDir)
	return suite.NewRunner(s, session, capturer, runnerOpts()), session, nil
}
