package suite

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/karust/navprobe/core"
	"gopkg.in/yaml.v3"
)

//go:embed sfexpress.yaml
var defaultSuite []byte

const defaultMenuPrefix = 2

type Entry struct {
	Top    core.Candidates `yaml:"top"`
	Second core.Candidates `yaml:"second"`
}

type Suite struct {
	Name        string      `yaml:"name"`
	BaseURL     string      `yaml:"base_url"`
	FallbackURL string      `yaml:"fallback_url"` // Opened when base URL fails to load in time
	MenuPrefix  int         `yaml:"menu_prefix"`  // Runes of the menu label used for partial matching
	Entry       Entry       `yaml:"entry"`
	Cases       []core.Case `yaml:"cases"`
}

// Default returns the built-in SF Express suite.
func Default() (*Suite, error) {
	return Parse(defaultSuite)
}

func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read suite: %v", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Suite, error) {
	s := Suite{}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("cannot parse suite: %v", err)
	}

	if s.MenuPrefix == 0 {
		s.MenuPrefix = defaultMenuPrefix
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Suite) Validate() error {
	if s.BaseURL == "" {
		return errors.New("suite has no base_url")
	}
	if _, err := url.ParseRequestURI(s.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %v", err)
	}

	for _, loc := range append(append(core.Candidates{}, s.Entry.Top...), s.Entry.Second...) {
		if !loc.By.IsValid() {
			return fmt.Errorf("unknown locator strategy %q", loc.By)
		}
		if loc.Value == "" {
			return fmt.Errorf("empty %s locator", loc.By)
		}
	}

	seen := map[string]bool{}
	for i, c := range s.Cases {
		if c.ID == "" {
			return fmt.Errorf("case #%d has no id", i+1)
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate case id %s", c.ID)
		}
		seen[c.ID] = true

		if c.Evidence == "" {
			return fmt.Errorf("case %s has no evidence name", c.ID)
		}
		if filepath.Base(c.Evidence) != c.Evidence || c.Evidence == "." || c.Evidence == ".." {
			return fmt.Errorf("case %s evidence name %q must be a plain file name", c.ID, c.Evidence)
		}
	}
	return nil
}

func (s *Suite) Find(id string) (core.Case, error) {
	for _, c := range s.Cases {
		if c.ID == id {
			return c, nil
		}
	}
	return core.Case{}, fmt.Errorf("%w: %s", core.ErrCaseNotFound, id)
}

// MenuCandidates is the exact menu label followed by its partial prefix.
func (s *Suite) MenuCandidates(c core.Case) core.Candidates {
	return core.TextFallback(c.Menu, s.MenuPrefix)
}
