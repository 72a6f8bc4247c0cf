package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skin-vision/internal/domain/entity"
	"skin-vision/internal/skin"
)

func TestBatchService_IsolatesErrors(t *testing.T) {
	analyzer := &stubAnalyzer{}
	svc := NewBatchService(analyzer, skin.DefaultParams(), 3, zap.NewNop())

	items := []BatchItem{
		{Name: "a", Data: []byte{100}},
		{Name: "b", Data: nil},
		{Name: "c", Data: []byte{0}},
		{Name: "d", Data: []byte{50}},
	}
	results := svc.AnalyzeMany(context.Background(), items)

	require.Len(t, results, 4)
	for i, r := range results {
		require.Equal(t, items[i].Name, r.Name)
	}
	require.NoError(t, results[0].Err)
	require.ErrorIs(t, results[1].Err, errBadPhoto)
	require.ErrorIs(t, results[2].Err, entity.ErrNoFaceDetected)
	require.NoError(t, results[3].Err)
	require.Equal(t, int32(4), analyzer.calls.Load())

	cmp, err := svc.Compare(results)
	require.NoError(t, err)
	require.Equal(t, entity.TrendSignificantImprovement, cmp.OverallTrend)
	require.Greater(t, cmp.LastScore, cmp.FirstScore)
}

func TestBatchService_CompareNeedsTwoValid(t *testing.T) {
	svc := NewBatchService(&stubAnalyzer{}, skin.DefaultParams(), 1, zap.NewNop())
	results := svc.AnalyzeMany(context.Background(), []BatchItem{
		{Name: "a", Data: []byte{10}},
		{Name: "b", Data: nil},
	})

	_, err := svc.Compare(results)
	require.ErrorIs(t, err, entity.ErrInsufficientData)
}

func TestBatchService_CancelledContext(t *testing.T) {
	analyzer := &stubAnalyzer{}
	svc := NewBatchService(analyzer, skin.DefaultParams(), 2, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := svc.AnalyzeMany(ctx, []BatchItem{{Name: "a", Data: []byte{1}}})
	require.ErrorIs(t, results[0].Err, context.Canceled)
	require.Zero(t, analyzer.calls.Load())
}
