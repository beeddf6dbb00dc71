package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sellermetrics/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventSink struct {
	events  []*domain.ReorderEvent
	failFor map[int64]error
}

func (s *fakeEventSink) SaveReorderEvent(_ context.Context, event *domain.ReorderEvent) error {
	if err, ok := s.failFor[event.ProductID]; ok {
		return err
	}
	s.events = append(s.events, event)
	return nil
}

func newTestTrigger(sink EventSink) *Trigger {
	tr := NewTrigger(sink)
	tr.now = func() time.Time { return fixedNow }
	return tr
}

func TestTriggerDisabledNeverFires(t *testing.T) {
	sink := &fakeEventSink{}
	tr := newTestTrigger(sink)

	recs := []domain.ReorderRecommendation{
		{ProductID: 1, SKU: "A", RecommendedQuantity: 50, ProfitMargin: 40},
		{ProductID: 2, SKU: "B", RecommendedQuantity: 10, ProfitMargin: 90},
	}
	settings := domain.Settings{AutoReorderEnabled: false, MinimumProfitMargin: 25}

	report, err := tr.Run(context.Background(), "t1", recs, nil, settings)
	require.NoError(t, err)
	assert.Empty(t, report.Fired)
	assert.Equal(t, 2, report.Declined)
	assert.Empty(t, sink.events)
}

func TestTriggerFiresOneEventPerQualifyingRecommendation(t *testing.T) {
	sink := &fakeEventSink{}
	tr := newTestTrigger(sink)

	recs := []domain.ReorderRecommendation{
		{ProductID: 1, SKU: "A", ProductName: "Widget", RecommendedQuantity: 40, ProfitMargin: 30, Reason: "stock covers 5.0 days"},
	}
	perfs := []domain.ProductPerformance{
		{SKU: "A", TotalQuantity: 10, TotalProfit: 100, OrderCount: 4},
	}
	settings := domain.Settings{AutoReorderEnabled: true, MinimumProfitMargin: 25}

	report, err := tr.Run(context.Background(), "t1", recs, perfs, settings)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, report.Fired)
	assert.Zero(t, report.Declined)
	require.Len(t, sink.events, 1)

	event := sink.events[0]
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "reorder", event.Type)
	assert.Equal(t, "t1", event.TenantID)
	assert.Equal(t, int64(1), event.ProductID)
	assert.Contains(t, event.Recommendation, "40 units")
	assert.Equal(t, "stock covers 5.0 days", event.Explanation)
	assert.Contains(t, event.SuggestedAction, "purchase order")
	assert.Equal(t, fixedNow, event.CreatedAt)

	// Per-unit profit 10; 40 more units project 400 on top of the current 100.
	assert.Equal(t, 100.0, event.Impact.CurrentProfit)
	assert.InDelta(t, 500.0, event.Impact.ProjectedProfit, 1e-9)
	assert.InDelta(t, 0.7, event.Impact.ConfidenceScore, 1e-9)
}

func TestTriggerDeclinesBelowMarginFloor(t *testing.T) {
	sink := &fakeEventSink{}
	tr := newTestTrigger(sink)

	recs := []domain.ReorderRecommendation{
		{ProductID: 1, SKU: "A", RecommendedQuantity: 20, ProfitMargin: 20},
	}
	settings := domain.Settings{AutoReorderEnabled: true, MinimumProfitMargin: 25}

	report, err := tr.Run(context.Background(), "t1", recs, nil, settings)
	require.NoError(t, err)
	assert.Empty(t, report.Fired)
	assert.Equal(t, 1, report.Declined)
	assert.Empty(t, sink.events)
}

func TestTriggerDeclinesZeroQuantity(t *testing.T) {
	sink := &fakeEventSink{}
	tr := newTestTrigger(sink)

	recs := []domain.ReorderRecommendation{
		{ProductID: 1, SKU: "A", RecommendedQuantity: 0, ProfitMargin: 50},
	}
	settings := domain.Settings{AutoReorderEnabled: true, MinimumProfitMargin: 25}

	report, err := tr.Run(context.Background(), "t1", recs, nil, settings)
	require.NoError(t, err)
	assert.Empty(t, report.Fired)
	assert.Equal(t, 1, report.Declined)
}

func TestTriggerPartialFailureKeepsGoing(t *testing.T) {
	sink := &fakeEventSink{
		failFor: map[int64]error{2: errors.New("connection reset")},
	}
	tr := newTestTrigger(sink)

	recs := []domain.ReorderRecommendation{
		{ProductID: 1, SKU: "A", RecommendedQuantity: 10, ProfitMargin: 40},
		{ProductID: 2, SKU: "B", RecommendedQuantity: 10, ProfitMargin: 40},
		{ProductID: 3, SKU: "C", RecommendedQuantity: 10, ProfitMargin: 40},
	}
	settings := domain.Settings{AutoReorderEnabled: true, MinimumProfitMargin: 25}

	report, err := tr.Run(context.Background(), "t1", recs, nil, settings)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, report.Fired)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, int64(2), report.Failures[0].ProductID)
	assert.Contains(t, report.Failures[0].Error, "connection reset")
	assert.Len(t, sink.events, 2)
}

func TestTriggerStopsOnCancelledContext(t *testing.T) {
	sink := &fakeEventSink{}
	tr := newTestTrigger(sink)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	recs := []domain.ReorderRecommendation{
		{ProductID: 1, SKU: "A", RecommendedQuantity: 10, ProfitMargin: 40},
	}
	settings := domain.Settings{AutoReorderEnabled: true}

	_, err := tr.Run(ctx, "t1", recs, nil, settings)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.events)
}

func TestConfidenceScoreCapped(t *testing.T) {
	assert.Equal(t, 0.5, confidenceScore(0))
	assert.InDelta(t, 0.75, confidenceScore(5), 1e-9)
	assert.Equal(t, 0.95, confidenceScore(9))
	assert.Equal(t, 0.95, confidenceScore(1000))
}
