package vision

import (
	"context"
	"errors"
	"image"
	"sync"

	"go.uber.org/zap"

	"skin-vision/internal/domain/entity"
	"skin-vision/internal/domain/port"
)

// ErrPoolClosed возвращается после Close.
var ErrPoolClosed = errors.New("detector pool is closed")

// DetectorFactory создаёт новый экземпляр детектора точек.
type DetectorFactory func() (port.LandmarkDetector, error)

// DetectorPool ограниченный пул детекторов. Экземпляры создаются лениво,
// каждый в один момент времени обслуживает один вызов.
type DetectorPool struct {
	factory DetectorFactory
	idle    chan port.LandmarkDetector
	slots   chan struct{}
	logger  *zap.Logger

	mu     sync.Mutex
	all    []port.LandmarkDetector
	closed bool
}

// NewDetectorPool создаёт пул размера size (минимум 1).
func NewDetectorPool(size int, factory DetectorFactory, logger *zap.Logger) *DetectorPool {
	if size < 1 {
		size = 1
	}
	return &DetectorPool{
		factory: factory,
		idle:    make(chan port.LandmarkDetector, size),
		slots:   make(chan struct{}, size),
		logger:  logger.Named("detector_pool"),
	}
}

// Detect берёт свободный детектор, при необходимости дожидаясь его.
func (p *DetectorPool) Detect(ctx context.Context, img image.Image) ([]entity.LandmarkSet, error) {
	d, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.release(d)
	return d.Detect(ctx, img)
}

// Close закрывает все созданные детекторы.
func (p *DetectorPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	var errs []error
	for _, d := range p.all {
		if err := d.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.all = nil
	return errors.Join(errs...)
}

func (p *DetectorPool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *DetectorPool) acquire(ctx context.Context) (port.LandmarkDetector, error) {
	if p.isClosed() {
		return nil, ErrPoolClosed
	}

	select {
	case d := <-p.idle:
		return d, nil
	default:
	}

	select {
	case p.slots <- struct{}{}:
		d, err := p.factory()
		if err != nil {
			<-p.slots
			return nil, err
		}
		p.mu.Lock()
		p.all = append(p.all, d)
		size := len(p.all)
		p.mu.Unlock()
		p.logger.Debug("detector created", zap.Int("instances", size))
		return d, nil
	default:
	}

	select {
	case d := <-p.idle:
		return d, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *DetectorPool) release(d port.LandmarkDetector) {
	p.idle <- d
}
