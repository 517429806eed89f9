package completion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lewisedginton/teambuilder_concierge/pkg/metrics"
)

type mockProvider struct {
	mock.Mock
	jsonMode bool
}

func (m *mockProvider) Name() string           { return "mock" }
func (m *mockProvider) SupportsJSONMode() bool { return m.jsonMode }

func (m *mockProvider) Generate(ctx context.Context, req Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func TestCompleteReturnsTrimmedText(t *testing.T) {
	p := &mockProvider{jsonMode: true}
	p.On("Generate", mock.Anything, Request{Prompt: "hi"}).Return("  hello \n", nil)

	text, err := NewClient(p, Config{}).Complete(context.Background(), "hi", Options{})
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	p.AssertExpectations(t)
}

func TestCompleteJSONModeAddsSystemPrompt(t *testing.T) {
	p := &mockProvider{jsonMode: true}
	p.On("Generate", mock.Anything, Request{Prompt: "plan", System: JSONSystemPrompt, JSONMode: true}).
		Return(`{"tool":"none"}`, nil)

	text, err := NewClient(p, Config{}).Complete(context.Background(), "plan", Options{JSONMode: true})
	require.NoError(t, err)
	assert.Equal(t, `{"tool":"none"}`, text)
}

func TestCompleteDegradesJSONModeWhenUnsupported(t *testing.T) {
	p := &mockProvider{jsonMode: false}
	p.On("Generate", mock.Anything, mock.MatchedBy(func(r Request) bool {
		return !r.JSONMode && r.System == JSONSystemPrompt
	})).Return("```json\n{}\n```", nil)

	_, err := NewClient(p, Config{}).Complete(context.Background(), "plan", Options{JSONMode: true})
	require.NoError(t, err)
	p.AssertExpectations(t)
}

func TestCompleteNormalisesFailures(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		err      error
		wantKind Kind
		wantText string
	}{
		{"provider error", "", errors.New("429 rate limited"), KindProvider, "AI Error: 429 rate limited"},
		{"empty output", "   ", nil, KindEmpty, "AI unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &mockProvider{}
			p.On("Generate", mock.Anything, mock.Anything).Return(tt.text, tt.err)

			text, err := NewClient(p, Config{}).Complete(context.Background(), "x", Options{})
			assert.Empty(t, text)
			require.ErrorIs(t, err, ErrUnavailable)

			var cerr *Error
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.wantKind, cerr.Kind)
			assert.Equal(t, tt.wantText, Placeholder(err))
		})
	}
}

func TestCompleteTimesOut(t *testing.T) {
	p := &mockProvider{}
	p.On("Generate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return("", context.DeadlineExceeded)

	start := time.Now()
	_, err := NewClient(p, Config{Timeout: 30 * time.Millisecond}).Complete(context.Background(), "x", Options{})
	assert.Less(t, time.Since(start), 2*time.Second)

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, KindTimeout, cerr.Kind)
	assert.Equal(t, "AI unavailable", Placeholder(err))
}

func TestCompleteRecoversAdapterPanic(t *testing.T) {
	p := &mockProvider{}
	p.On("Generate", mock.Anything, mock.Anything).Run(func(mock.Arguments) { panic("nil response") })

	var err error
	assert.NotPanics(t, func() {
		_, err = NewClient(p, Config{}).Complete(context.Background(), "x", Options{})
	})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, Placeholder(err), "adapter panic")
}

func TestCompleteWithoutProvider(t *testing.T) {
	c := NewClient(nil, Config{})
	assert.Equal(t, "none", c.ProviderName())

	_, err := c.Complete(context.Background(), "x", Options{})
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "No AI provider configured", Placeholder(err))
}

func TestCompleteRecordsMetrics(t *testing.T) {
	p := &mockProvider{}
	p.On("Generate", mock.Anything, mock.Anything).Return("ok", nil).Once()
	p.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("boom")).Once()

	m := metrics.NewMetrics(false)
	c := NewClient(p, Config{Metrics: m})

	_, _ = c.Complete(context.Background(), "a", Options{})
	_, _ = c.Complete(context.Background(), "b", Options{})

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var calls float64
	for _, f := range families {
		if f.GetName() == "concierge_completion_calls_total" {
			for _, metric := range f.GetMetric() {
				calls += metric.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, calls)
}

func TestPlaceholderForForeignError(t *testing.T) {
	assert.Equal(t, "AI unavailable", Placeholder(errors.New("other")))
}
