// Package dashboard owns the per-session view state of the analysis dashboard.
package dashboard

import (
	"context"
	"strings"
	"sync"

	"cybersentinel/internal/models"
	"cybersentinel/internal/view"
	apperrors "cybersentinel/pkg/errors"
)

// Analyzer produces a finished result for a URL.
type Analyzer interface {
	Analyze(ctx context.Context, url string) (*models.AnalysisResult, error)
}

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// State is a snapshot of one dashboard. Result is shared but never mutated.
type State struct {
	Loading   bool
	Result    *models.AnalysisResult
	Error     string
	ActiveTab view.Tab
	// URL is the most recently submitted target.
	URL string
}

func (s State) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseLoading
	case s.Error != "":
		return PhaseError
	case s.Result != nil:
		return PhaseSuccess
	default:
		return PhaseIdle
	}
}

// Panel returns the panel for the active tab.
func (s State) Panel() view.Panel {
	return view.Select(s.ActiveTab, s.Result)
}

// Controller serializes analyses for one dashboard: a submit while another is
// in flight is rejected, and completions carrying an old sequence are dropped.
type Controller struct {
	analyzer Analyzer

	mu       sync.Mutex
	state    State
	seq      uint64
	inflight uint64
}

func NewController(analyzer Analyzer) *Controller {
	return &Controller{
		analyzer: analyzer,
		state:    State{ActiveTab: view.DefaultTab},
	}
}

// Begin moves the dashboard into loading and returns the sequence number of the request.
func (c *Controller) Begin(url string) (uint64, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return 0, apperrors.ErrEmptyURL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight != 0 {
		return 0, apperrors.ErrAnalysisInFlight
	}
	c.seq++
	c.inflight = c.seq
	c.state.Loading = true
	c.state.Error = ""
	c.state.URL = url
	return c.seq, nil
}

// Complete settles the request identified by seq. It reports false for stale sequences.
func (c *Controller) Complete(seq uint64, result *models.AnalysisResult, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq == 0 || seq != c.inflight {
		return false
	}
	c.inflight = 0
	c.state.Loading = false

	if err != nil || result == nil {
		c.state.Error = apperrors.FailureMessage
		return true
	}
	c.state.Result = result
	c.state.Error = ""
	c.state.ActiveTab = view.DefaultTab
	return true
}

// Submit runs one analysis end to end. The returned error is the analyzer's, if any.
// A panicking analyzer still settles the request before the panic propagates.
func (c *Controller) Submit(ctx context.Context, url string) error {
	seq, err := c.Begin(url)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			c.Complete(seq, nil, apperrors.ErrRequestFailed)
			panic(r)
		}
	}()

	result, err := c.analyzer.Analyze(ctx, strings.TrimSpace(url))
	if err == nil && result == nil {
		err = apperrors.ErrRequestFailed
	}
	c.Complete(seq, result, err)
	return err
}

func (c *Controller) SelectTab(name string) error {
	tab, ok := view.ParseTab(name)
	if !ok {
		return apperrors.ErrUnknownTab
	}
	c.mu.Lock()
	c.state.ActiveTab = tab
	c.mu.Unlock()
	return nil
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
