package suite

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/karust/navprobe/core"
	"github.com/karust/navprobe/evidence"
	"github.com/karust/navprobe/navigator"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type RunnerOpts struct {
	PageLoadTimeout time.Duration // Bound for opening the base URL
	RateRequests    int           // Cases per RateTime, 0 disables pacing
	RateTime        time.Duration
	Settle          time.Duration // Pause after every successful click
}

func (o *RunnerOpts) Init() {
	if o.PageLoadTimeout == 0 {
		o.PageLoadTimeout = 30 * time.Second
	}
	if o.RateTime == 0 {
		o.RateTime = time.Minute
	}
}

func (o *RunnerOpts) GetRateLimiter() *rate.Limiter {
	if o.RateRequests <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(o.RateTime/time.Duration(o.RateRequests)), 1)
}

// Runner executes suite cases on one session. Cases never run concurrently.
type Runner struct {
	suite    *Suite
	session  core.Session
	nav      *navigator.Navigator
	capturer *evidence.Capturer
	limiter  *rate.Limiter
	opts     RunnerOpts
	mu       sync.Mutex
}

func NewRunner(s *Suite, session core.Session, capturer *evidence.Capturer, opts RunnerOpts) *Runner {
	opts.Init()
	return &Runner{
		suite:    s,
		session:  session,
		nav:      navigator.New(session, navigator.WithSettle(opts.Settle)),
		capturer: capturer,
		limiter:  opts.GetRateLimiter(),
		opts:     opts,
	}
}

func (r *Runner) Cases() []core.Case {
	return r.suite.Cases
}

func (r *Runner) EvidenceDir() string {
	return r.capturer.Dir
}

// RunCase navigates to the case's menu and captures evidence. Navigation
// problems end up in the report only; the returned error is always an
// evidence capture failure or an unknown case.
func (r *Runner) RunCase(ctx context.Context, id string) (core.CaseReport, error) {
	c, err := r.suite.Find(id)
	if err != nil {
		return core.CaseReport{}, err
	}

	if err := ctx.Err(); err != nil {
		return core.CaseReport{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.run(c)
}

// Run executes the given cases, or all of them, in suite order. It stops at
// the first evidence failure or when ctx is done.
func (r *Runner) Run(ctx context.Context, ids ...string) ([]core.CaseReport, error) {
	cases := r.suite.Cases
	if len(ids) > 0 {
		cases = make([]core.Case, 0, len(ids))
		for _, id := range ids {
			c, err := r.suite.Find(id)
			if err != nil {
				return nil, err
			}
			cases = append(cases, c)
		}
	}

	reports := make([]core.CaseReport, 0, len(cases))
	for _, c := range cases {
		if err := r.limiter.Wait(ctx); err != nil {
			return reports, err
		}

		r.mu.Lock()
		report, err := r.run(c)
		r.mu.Unlock()

		reports = append(reports, report)
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}

func (r *Runner) run(c core.Case) (core.CaseReport, error) {
	report := core.CaseReport{
		RunID:     uuid.NewString(),
		CaseID:    c.ID,
		Title:     c.Title,
		StartedAt: time.Now(),
	}
	log := logrus.WithField("case", c.ID)
	log.Infof("Start case: %s", c.Title)

	r.open(log)

	for i, res := range r.nav.NavigateMenu(r.suite.Entry.Top, r.suite.Entry.Second) {
		stage := "entry"
		if i > 0 {
			stage = "query"
		}
		report.Steps = append(report.Steps, stepReport(stage, res))
	}

	// The menu is tried even when the entry stages missed, the menu may be
	// reachable from wherever the page is now
	if c.Menu != "" {
		res := r.nav.Locate(r.suite.MenuCandidates(c))
		report.Steps = append(report.Steps, stepReport("menu", res))
		report.Reached = res.Clicked()
	}

	path, err := r.capturer.Capture(r.session, c.Evidence)
	report.Duration = time.Since(report.StartedAt)
	if err != nil {
		log.Errorf("Evidence capture failed: %v", err)
		report.Error = err.Error()
		return report, err
	}

	report.Evidence = path
	report.Passed = true
	log.Infof("Case done, menu reached: %v", report.Reached)
	return report, nil
}

// open loads the base URL. When it doesn't load in time the fallback URL is
// tried, otherwise the case continues on whatever page is shown.
func (r *Runner) open(log *logrus.Entry) {
	if err := r.session.SetPageLoadTimeout(r.opts.PageLoadTimeout); err != nil {
		log.Debugf("Cannot set page load timeout: %v", err)
	}

	err := r.session.Open(r.suite.BaseURL)
	if err == nil {
		return
	}
	log.Warnf("Cannot open %s: %v", r.suite.BaseURL, err)

	if r.suite.FallbackURL == "" {
		return
	}
	if err := r.session.Open(r.suite.FallbackURL); err != nil {
		log.Warnf("Cannot open fallback %s: %v", r.suite.FallbackURL, err)
	}
}

func stepReport(stage string, res navigator.Result) core.StepReport {
	step := core.StepReport{Stage: stage, Outcome: res.Outcome.String()}
	if res.Locator.Value != "" {
		step.Locator = res.Locator.String()
	}
	if res.Err != nil {
		step.Error = res.Err.Error()
	}
	return step
}
