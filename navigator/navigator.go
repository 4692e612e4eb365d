// Package navigator clicks through menus on a best-effort basis: a missing
// entry or a driver fault is reported as an outcome, never as an error.
package navigator

import (
	"errors"
	"fmt"
	"time"

	"github.com/karust/navprobe/core"
	"github.com/sirupsen/logrus"
)

type Outcome int

const (
	NotFound Outcome = iota
	Clicked
	ErrorSuppressed
)

func (o Outcome) String() string {
	switch o {
	case Clicked:
		return "clicked"
	case NotFound:
		return "not-found"
	case ErrorSuppressed:
		return "error-suppressed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result of one navigation step. Locator is set when an element was found,
// Err holds the driver fault that was absorbed.
type Result struct {
	Outcome Outcome
	Locator core.Locator
	Err     error
}

func (r Result) Clicked() bool {
	return r.Outcome == Clicked
}

type Navigator struct {
	session core.Session
	settle  time.Duration
}

type Option func(*Navigator)

// WithSettle pauses after a successful click so the next stage sees the new page.
func WithSettle(d time.Duration) Option {
	return func(n *Navigator) {
		n.settle = d
	}
}

func New(session core.Session, opts ...Option) *Navigator {
	nav := Navigator{session: session}
	for _, opt := range opts {
		opt(&nav)
	}
	return &nav
}

// Locate tries candidates in order and clicks the first match of the first
// candidate that resolves. At most one click is made. A driver fault ends the
// step with ErrorSuppressed.
func (n *Navigator) Locate(candidates core.Candidates) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Outcome: ErrorSuppressed, Err: fmt.Errorf("%w: panic: %v", core.ErrDriverFault, r)}
			logrus.Warnf("Navigation panic suppressed: %v", r)
		}
	}()

	for _, loc := range candidates {
		els, err := n.session.FindElements(loc.By, loc.Value)
		if errors.Is(err, core.ErrElementNotFound) || (err == nil && len(els) == 0) {
			logrus.Tracef("No element for %s", loc)
			continue
		}
		if err != nil {
			logrus.Debugf("Find %s failed, navigation step skipped: %v", loc, err)
			return Result{Outcome: ErrorSuppressed, Locator: loc, Err: err}
		}

		if err := els[0].Click(); err != nil {
			logrus.Debugf("Click on %s failed, navigation step skipped: %v", loc, err)
			return Result{Outcome: ErrorSuppressed, Locator: loc, Err: err}
		}

		logrus.Debugf("Clicked %s (%d matches)", loc, len(els))
		if n.settle > 0 {
			time.Sleep(n.settle)
		}
		return Result{Outcome: Clicked, Locator: loc}
	}

	return Result{Outcome: NotFound}
}

func (n *Navigator) LocateAndClick(candidates core.Candidates) bool {
	return n.Locate(candidates).Clicked()
}

// NavigateMenu reaches a top level entry, then refines it with a second level
// entry. The second stage only runs when the first one clicked. Returned
// results cover the stages that were attempted.
func (n *Navigator) NavigateMenu(top, second core.Candidates) []Result {
	first := n.Locate(top)
	if !first.Clicked() {
		logrus.Debugf("Top level menu not reached (%s), staying on current page", first.Outcome)
		return []Result{first}
	}
	return []Result{first, n.Locate(second)}
}
