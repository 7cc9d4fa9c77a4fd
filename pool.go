package gamebase

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// poolResizeAmount is how many slots a resizable pool grows by when New
// finds no free instance.
const poolResizeAmount = 20

var (
	// ErrInvalidSize is returned when a pool is created with fewer than one slot.
	ErrInvalidSize = errors.New("initial size must be at least 1")
	// ErrNilValidate is returned when a pool is created without a validate func.
	ErrNilValidate = errors.New("validate func is nil")
	// ErrNilAllocate is returned when a pool is created without an allocate func.
	ErrNilAllocate = errors.New("allocate func is nil")
)

// Pool recycles instances of T so steady-state spawning does not allocate.
//
// The backing slice is split in place: indices [0, InvalidCount) hold free
// slots and [InvalidCount, Cap) hold live instances. New moves the boundary
// down by one; CleanUp swaps dead instances across it. A slot's instance is
// allocated on first use and then reused for the life of the pool.
//
// Pool is not safe for concurrent use.
type Pool[T any] struct {
	items        []*T
	invalidCount int
	canResize    bool
	validate     func(*T) bool
	allocate     func() *T

	// OnAcquire, if set, runs on every instance returned by New.
	OnAcquire func(*T)
	// OnRelease, if set, runs on every instance CleanUp moves to the free region.
	OnRelease func(*T)
}

// NewPool creates a pool with initialSize empty slots. validate reports
// whether a handed-out instance is still in use; allocate creates a new
// instance the first time a slot is needed. If canResize is true the pool
// grows when exhausted instead of refusing.
func NewPool[T any](initialSize int, canResize bool, validate func(*T) bool, allocate func() *T) (*Pool[T], error) {
	if initialSize < 1 {
		return nil, fmt.Errorf("gamebase: new pool: %w (got %d)", ErrInvalidSize, initialSize)
	}
	if validate == nil {
		return nil, fmt.Errorf("gamebase: new pool: %w", ErrNilValidate)
	}
	if allocate == nil {
		return nil, fmt.Errorf("gamebase: new pool: %w", ErrNilAllocate)
	}
	return &Pool[T]{
		items:        make([]*T, initialSize),
		invalidCount: initialSize,
		canResize:    canResize,
		validate:     validate,
		allocate:     allocate,
	}, nil
}

// ValidCount returns the number of live instances.
func (p *Pool[T]) ValidCount() int {
	return len(p.items) - p.invalidCount
}

// InvalidCount returns the number of free slots.
func (p *Pool[T]) InvalidCount() int {
	return p.invalidCount
}

// Cap returns the total number of slots.
func (p *Pool[T]) Cap() int {
	return len(p.items)
}

// At returns the live instance at index i, which must be in [0, ValidCount).
func (p *Pool[T]) At(i int) *T {
	if i < 0 || i >= p.ValidCount() {
		panic(fmt.Sprintf("gamebase: pool index %d out of range [0, %d)", i, p.ValidCount()))
	}
	return p.items[p.invalidCount+i]
}

// Each calls fn for every live instance in index order. fn must not call
// New or CleanUp on the same pool.
func (p *Pool[T]) Each(fn func(*T)) {
	for _, obj := range p.items[p.invalidCount:] {
		fn(obj)
	}
}

// New returns a free instance, moving it into the live region. It returns
// nil, false when the pool is full and cannot resize. A nil result from the
// allocate func is a broken factory and panics.
func (p *Pool[T]) New() (*T, bool) {
	if p.invalidCount == 0 {
		if !p.canResize {
			return nil, false
		}
		p.grow()
	}

	p.invalidCount--
	obj := p.items[p.invalidCount]
	if obj == nil {
		obj = p.allocate()
		if obj == nil {
			panic("gamebase: pool allocate func returned nil")
		}
		p.items[p.invalidCount] = obj
	}

	if p.OnAcquire != nil {
		p.OnAcquire(obj)
	}
	return obj, true
}

// grow prepends poolResizeAmount empty slots to the free region. Live
// instances keep their relative order.
func (p *Pool[T]) grow() {
	logger.Debug("resizing pool",
		zap.Int("old_size", len(p.items)),
		zap.Int("new_size", len(p.items)+poolResizeAmount))

	items := make([]*T, len(p.items)+poolResizeAmount)
	copy(items[poolResizeAmount:], p.items)
	p.items = items
	p.invalidCount += poolResizeAmount
}

// CleanUp moves every live instance that fails validate into the free
// region. Instances are swapped, not shifted, so order within the live
// region is not preserved.
func (p *Pool[T]) CleanUp() {
	// Everything in [invalidCount, i) has already passed validate this pass,
	// so the entry swapped into slot i never needs rechecking.
	for i := p.invalidCount; i < len(p.items); i++ {
		obj := p.items[i]
		if p.validate(obj) {
			continue
		}

		if i != p.invalidCount {
			p.items[i] = p.items[p.invalidCount]
			p.items[p.invalidCount] = obj
		}

		if p.OnRelease != nil {
			p.OnRelease(obj)
		}
		p.invalidCount++
	}
}
