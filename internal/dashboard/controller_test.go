package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cybersentinel/internal/models"
	"cybersentinel/internal/view"
	apperrors "cybersentinel/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, url string) (*models.AnalysisResult, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalysisResult), args.Error(1)
}

// blockingAnalyzer lets a test observe the controller while a request is in flight.
type blockingAnalyzer struct {
	started chan struct{}
	release chan struct{}
	result  *models.AnalysisResult
	err     error
}

func (b *blockingAnalyzer) Analyze(ctx context.Context, url string) (*models.AnalysisResult, error) {
	b.started <- struct{}{}
	<-b.release
	return b.result, b.err
}

func resultWithScore(score float64) *models.AnalysisResult {
	return models.NewAnalysisResult("example.com", &models.AnalysisPayload{
		Reputation: &models.ReputationInfo{Label: "Trusted", Score: &score},
	}, nil, time.Now())
}

func TestController_InitialStateIsIdle(t *testing.T) {
	c := NewController(new(MockAnalyzer))
	s := c.Snapshot()
	assert.Equal(t, PhaseIdle, s.Phase())
	assert.Nil(t, s.Result)
	assert.Empty(t, s.Error)
	assert.Equal(t, view.TabOverview, s.ActiveTab)
}

func TestController_LoadingUntilSettled(t *testing.T) {
	tests := []struct {
		name      string
		result    *models.AnalysisResult
		err       error
		wantPhase Phase
	}{
		{"success", resultWithScore(85), nil, PhaseSuccess},
		{"failure", nil, apperrors.ErrRequestFailed, PhaseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &blockingAnalyzer{
				started: make(chan struct{}),
				release: make(chan struct{}),
				result:  tt.result,
				err:     tt.err,
			}
			c := NewController(a)

			done := make(chan error, 1)
			go func() { done <- c.Submit(context.Background(), "example.com") }()

			<-a.started
			s := c.Snapshot()
			assert.True(t, s.Loading)
			assert.Equal(t, PhaseLoading, s.Phase())
			assert.Equal(t, "example.com", s.URL)

			close(a.release)
			<-done

			s = c.Snapshot()
			assert.False(t, s.Loading)
			assert.Equal(t, tt.wantPhase, s.Phase())
		})
	}
}

func TestController_SuccessResetsTab(t *testing.T) {
	m := new(MockAnalyzer)
	m.On("Analyze", mock.Anything, "example.com").Return(resultWithScore(85), nil)
	c := NewController(m)

	require.NoError(t, c.SelectTab("Reputation"))
	require.NoError(t, c.Submit(context.Background(), "  example.com  "))

	s := c.Snapshot()
	assert.Equal(t, view.TabOverview, s.ActiveTab)
	require.NotNil(t, s.Result)
	assert.Equal(t, 85, s.Result.TrustScore)
	assert.Equal(t, "Analyzed", s.Result.Status)
	m.AssertExpectations(t)
}

func TestController_FailureKeepsResultNil(t *testing.T) {
	m := new(MockAnalyzer)
	m.On("Analyze", mock.Anything, "example.com").Return(nil, errors.New("backend request failed: 500"))
	c := NewController(m)

	err := c.Submit(context.Background(), "example.com")
	require.Error(t, err)

	s := c.Snapshot()
	assert.Nil(t, s.Result)
	assert.Equal(t, apperrors.FailureMessage, s.Error)
	assert.Equal(t, PhaseError, s.Phase())
}

func TestController_FailureAfterSuccessKeepsPreviousResult(t *testing.T) {
	first := resultWithScore(85)
	m := new(MockAnalyzer)
	m.On("Analyze", mock.Anything, "good.com").Return(first, nil).Once()
	m.On("Analyze", mock.Anything, "bad.com").Return(nil, apperrors.ErrRequestFailed).Once()
	c := NewController(m)

	require.NoError(t, c.Submit(context.Background(), "good.com"))
	require.Error(t, c.Submit(context.Background(), "bad.com"))

	s := c.Snapshot()
	assert.Same(t, first, s.Result)
	assert.Equal(t, apperrors.FailureMessage, s.Error)
}

func TestController_SubmitClearsPreviousError(t *testing.T) {
	c := NewController(new(MockAnalyzer))

	seq, err := c.Begin("bad.com")
	require.NoError(t, err)
	c.Complete(seq, nil, apperrors.ErrRequestFailed)
	require.Equal(t, apperrors.FailureMessage, c.Snapshot().Error)

	_, err = c.Begin("good.com")
	require.NoError(t, err)
	assert.Empty(t, c.Snapshot().Error)
	assert.True(t, c.Snapshot().Loading)
}

func TestController_RejectsEmptyURL(t *testing.T) {
	m := new(MockAnalyzer)
	c := NewController(m)

	assert.ErrorIs(t, c.Submit(context.Background(), "   "), apperrors.ErrEmptyURL)
	assert.Equal(t, PhaseIdle, c.Snapshot().Phase())
	m.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}

func TestController_RejectsConcurrentSubmit(t *testing.T) {
	a := &blockingAnalyzer{
		started: make(chan struct{}),
		release: make(chan struct{}),
		result:  resultWithScore(40),
	}
	c := NewController(a)

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background(), "first.com") }()
	<-a.started

	err := c.Submit(context.Background(), "second.com")
	assert.ErrorIs(t, err, apperrors.ErrAnalysisInFlight)
	assert.Equal(t, "first.com", c.Snapshot().URL)

	close(a.release)
	require.NoError(t, <-done)
	assert.Equal(t, 40, c.Snapshot().Result.TrustScore)
}

func TestController_StaleCompletionIgnored(t *testing.T) {
	c := NewController(new(MockAnalyzer))

	seq1, err := c.Begin("a.com")
	require.NoError(t, err)
	assert.True(t, c.Complete(seq1, resultWithScore(10), nil))

	seq2, err := c.Begin("b.com")
	require.NoError(t, err)

	// a late duplicate of the first completion must not clobber the second request
	assert.False(t, c.Complete(seq1, resultWithScore(99), nil))
	assert.True(t, c.Snapshot().Loading)

	assert.True(t, c.Complete(seq2, resultWithScore(70), nil))
	assert.Equal(t, 70, c.Snapshot().Result.TrustScore)
	assert.False(t, c.Complete(seq2, resultWithScore(1), nil))
	assert.False(t, c.Complete(0, resultWithScore(1), nil))
}

func TestController_NilResultWithoutErrorIsFailure(t *testing.T) {
	m := new(MockAnalyzer)
	m.On("Analyze", mock.Anything, "example.com").Return(nil, nil)
	c := NewController(m)

	assert.ErrorIs(t, c.Submit(context.Background(), "example.com"), apperrors.ErrRequestFailed)
	assert.Equal(t, PhaseError, c.Snapshot().Phase())
}

// flakyAnalyzer panics on its first call and succeeds afterwards.
type flakyAnalyzer struct {
	calls int
}

func (f *flakyAnalyzer) Analyze(ctx context.Context, url string) (*models.AnalysisResult, error) {
	f.calls++
	if f.calls == 1 {
		panic("backend exploded")
	}
	return resultWithScore(90), nil
}

func TestController_PanicReleasesSession(t *testing.T) {
	c := NewController(&flakyAnalyzer{})

	assert.PanicsWithValue(t, "backend exploded", func() {
		_ = c.Submit(context.Background(), "example.com")
	})

	s := c.Snapshot()
	assert.False(t, s.Loading)
	assert.Equal(t, apperrors.FailureMessage, s.Error)

	require.NoError(t, c.Submit(context.Background(), "example.com"))
	assert.Equal(t, PhaseSuccess, c.Snapshot().Phase())
	assert.Equal(t, 90, c.Snapshot().Result.TrustScore)
}

func TestController_SelectTab(t *testing.T) {
	c := NewController(new(MockAnalyzer))

	require.NoError(t, c.SelectTab("technical"))
	assert.Equal(t, view.TabTechnical, c.Snapshot().ActiveTab)

	assert.ErrorIs(t, c.SelectTab("Billing"), apperrors.ErrUnknownTab)
	assert.Equal(t, view.TabTechnical, c.Snapshot().ActiveTab)
}

func TestController_PanelFollowsActiveTab(t *testing.T) {
	m := new(MockAnalyzer)
	m.On("Analyze", mock.Anything, "example.com").Return(resultWithScore(85), nil)
	c := NewController(m)
	require.NoError(t, c.Submit(context.Background(), "example.com"))

	p := c.Snapshot().Panel()
	assert.Equal(t, view.TabOverview, p.Tab)
	assert.False(t, p.Available)
	assert.Equal(t, view.PlaceholderOverview, p.Placeholder)

	require.NoError(t, c.SelectTab("Reputation"))
	p = c.Snapshot().Panel()
	assert.True(t, p.Available)
	assert.Equal(t, 85, p.Reputation.Score)
}

func TestController_ConcurrentSnapshots(t *testing.T) {
	m := new(MockAnalyzer)
	m.On("Analyze", mock.Anything, mock.Anything).Return(resultWithScore(60), nil)
	c := NewController(m)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = c.Submit(context.Background(), "example.com")
		}()
		go func() {
			defer wg.Done()
			_ = c.Snapshot().Phase()
			_ = c.SelectTab("Domain")
		}()
	}
	wg.Wait()
	assert.False(t, c.Snapshot().Loading)
}
