package core

import (
	"errors"
	"time"
)

var ErrElementNotFound = errors.New("Element not found")
var ErrDriverFault = errors.New("Driver fault")
var ErrEvidenceCapture = errors.New("Evidence capture failed")
var ErrCaseNotFound = errors.New("Case not found")
var ErrNoPage = errors.New("No page loaded")

// Case is one scripted check: reach a menu and leave evidence behind.
type Case struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Module   string `yaml:"module" json:"module"`
	Menu     string `yaml:"menu" json:"menu"`         // Left menu label, empty to stay on the entry page
	Evidence string `yaml:"evidence" json:"evidence"` // Logical screenshot name
}

type StepReport struct {
	Stage   string `json:"stage"`
	Outcome string `json:"outcome"`
	Locator string `json:"locator,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CaseReport describes a single case run. Passed only means evidence was
// written; it says nothing about whether the menu was actually reached.
type CaseReport struct {
	RunID     string        `json:"run_id"`
	CaseID    string        `json:"case_id"`
	Title     string        `json:"title"`
	Evidence  string        `json:"evidence,omitempty"`
	Reached   bool          `json:"reached"`
	Passed    bool          `json:"passed"`
	Steps     []StepReport  `json:"steps"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}
