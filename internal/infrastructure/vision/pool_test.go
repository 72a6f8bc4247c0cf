package vision

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skin-vision/internal/domain/entity"
	"skin-vision/internal/domain/port"
)

type fakeDetector struct {
	active *int32
	peak   *int32
	closed atomic.Bool
	block  chan struct{}
}

func (f *fakeDetector) Detect(ctx context.Context, img image.Image) ([]entity.LandmarkSet, error) {
	n := atomic.AddInt32(f.active, 1)
	defer atomic.AddInt32(f.active, -1)
	for {
		old := atomic.LoadInt32(f.peak)
		if n <= old || atomic.CompareAndSwapInt32(f.peak, old, n) {
			break
		}
	}
	if f.block != nil {
		<-f.block
	}
	return []entity.LandmarkSet{{{X: 0.5, Y: 0.5}}}, nil
}

func (f *fakeDetector) Close() error {
	f.closed.Store(true)
	return nil
}

func TestDetectorPool_BoundsInstances(t *testing.T) {
	var active, peak, created int32
	var mu sync.Mutex
	var detectors []*fakeDetector
	pool := NewDetectorPool(2, func() (port.LandmarkDetector, error) {
		atomic.AddInt32(&created, 1)
		d := &fakeDetector{active: &active, peak: &peak}
		mu.Lock()
		detectors = append(detectors, d)
		mu.Unlock()
		return d, nil
	}, zap.NewNop())

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := pool.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 1, 1)))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.LessOrEqual(t, atomic.LoadInt32(&created), int32(2))
	require.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))

	require.NoError(t, pool.Close())
	for _, d := range detectors {
		require.True(t, d.closed.Load())
	}

	_, err := pool.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 1, 1)))
	require.ErrorIs(t, err, ErrPoolClosed)
}

func TestDetectorPool_WaitHonoursContext(t *testing.T) {
	var active, peak int32
	block := make(chan struct{})
	pool := NewDetectorPool(1, func() (port.LandmarkDetector, error) {
		return &fakeDetector{active: &active, peak: &peak, block: block}, nil
	}, zap.NewNop())
	defer pool.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = pool.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 1, 1)))
	}()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&active) == 1 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := pool.Detect(ctx, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(block)
	<-done
}

func TestDetectorPool_FactoryError(t *testing.T) {
	boom := errors.New("model missing")
	pool := NewDetectorPool(1, func() (port.LandmarkDetector, error) {
		return nil, boom
	}, zap.NewNop())

	_, err := pool.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 1, 1)))
	require.ErrorIs(t, err, boom)

	_, err = pool.Detect(context.Background(), image.NewRGBA(image.Rect(0, 0, 1, 1)))
	require.ErrorIs(t, err, boom)
}
