package gamebase

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Quadtree defaults applied by Insert when Initialize was never called.
const (
	DefaultMaxLevels  = 5
	DefaultMaxObjects = 10
)

// depthWarnObjects is the object count at which a node that can no longer
// split logs a warning. Past this point Retrieve degrades toward a linear scan.
const depthWarnObjects = 64

var (
	// ErrInvalidBounds is returned when a quadtree is created with a
	// non-positive width or height.
	ErrInvalidBounds = errors.New("bounds must have positive width and height")
	// ErrInvalidLevel is returned when a quadtree is created at a negative level.
	ErrInvalidLevel = errors.New("level must not be negative")
)

// Quadrant identifies one of the four children of a split node.
type Quadrant int

const (
	QuadrantNone Quadrant = -1 // straddles a midpoint; stays at the parent
	QuadrantNE   Quadrant = 0  // top-right
	QuadrantNW   Quadrant = 1  // top-left
	QuadrantSW   Quadrant = 2  // bottom-left
	QuadrantSE   Quadrant = 3  // bottom-right
)

// Quadtree is a broad-phase spatial index over Bounded entries. A node keeps
// the entries that straddle its midpoints (or all of its entries once it has
// reached MaxLevels) and pushes the rest down into four children.
//
// The tree is meant to be rebuilt every frame: Clear, Insert the live set,
// then Retrieve per entry. Entry bounds must not change between Insert and
// Retrieve. Quadtree is not safe for concurrent use.
type Quadtree[E Bounded] struct {
	level       int
	bounds      Rect
	objects     []E
	nodes       [4]*Quadtree[E]
	maxLevels   int
	maxObjects  int
	initialized bool
	warned      bool
}

// NewQuadtree creates an unsplit node covering bounds at the given depth.
// Roots use level 0.
func NewQuadtree[E Bounded](level int, bounds Rect) (*Quadtree[E], error) {
	if level < 0 {
		return nil, fmt.Errorf("gamebase: new quadtree: %w (got %d)", ErrInvalidLevel, level)
	}
	// Written so NaN sizes are rejected too.
	if !(bounds.Width > 0 && bounds.Height > 0) {
		return nil, fmt.Errorf("gamebase: new quadtree: %w (got %vx%v)", ErrInvalidBounds, bounds.Width, bounds.Height)
	}
	return newQuadtreeNode[E](level, bounds), nil
}

func newQuadtreeNode[E Bounded](level int, bounds Rect) *Quadtree[E] {
	return &Quadtree[E]{level: level, bounds: bounds}
}

// Initialize sets the split limits. A node never splits past maxLevels and
// splits once it holds more than maxObjects entries. Only the first call has
// any effect.
func (q *Quadtree[E]) Initialize(maxLevels, maxObjects int) {
	if q.initialized {
		return
	}
	q.maxLevels = maxLevels
	q.maxObjects = maxObjects
	q.initialized = true
}

// Bounds returns the region this node covers.
func (q *Quadtree[E]) Bounds() Rect { return q.bounds }

// Level returns the node's depth; the root is 0.
func (q *Quadtree[E]) Level() int { return q.level }

// MaxLevels returns the configured depth cap.
func (q *Quadtree[E]) MaxLevels() int { return q.maxLevels }

// MaxObjects returns the configured split threshold.
func (q *Quadtree[E]) MaxObjects() int { return q.maxObjects }

// IsSplit reports whether the node has children.
func (q *Quadtree[E]) IsSplit() bool { return q.nodes[0] != nil }

// Objects returns the entries stored directly at this node. The returned
// slice MUST NOT be mutated by the caller.
func (q *Quadtree[E]) Objects() []E { return q.objects }

// Child returns the child covering quadrant, or nil if the node is unsplit.
func (q *Quadtree[E]) Child(quadrant Quadrant) *Quadtree[E] {
	if quadrant < QuadrantNE || quadrant > QuadrantSE {
		return nil
	}
	return q.nodes[quadrant]
}

// Clear removes every entry and discards all children.
func (q *Quadtree[E]) Clear() {
	clear(q.objects)
	q.objects = q.objects[:0]
	q.warned = false
	for i, node := range q.nodes {
		if node != nil {
			node.Clear()
			q.nodes[i] = nil
		}
	}
}

// Split divides the node into four equal children one level deeper. It does
// nothing if the node is already split. Entries already at this node stay
// where they are until the next Insert redistributes them.
func (q *Quadtree[E]) Split() {
	if q.nodes[0] != nil {
		return
	}
	if !q.initialized {
		q.Initialize(DefaultMaxLevels, DefaultMaxObjects)
	}

	subW := q.bounds.Width / 2
	subH := q.bounds.Height / 2
	x, y := q.bounds.X, q.bounds.Y

	q.nodes[QuadrantNE] = newQuadtreeNode[E](q.level+1, Rect{x + subW, y, subW, subH})
	q.nodes[QuadrantNW] = newQuadtreeNode[E](q.level+1, Rect{x, y, subW, subH})
	q.nodes[QuadrantSW] = newQuadtreeNode[E](q.level+1, Rect{x, y + subH, subW, subH})
	q.nodes[QuadrantSE] = newQuadtreeNode[E](q.level+1, Rect{x + subW, y + subH, subW, subH})
	for _, node := range q.nodes {
		node.Initialize(q.maxLevels, q.maxObjects)
	}
}

// Index classifies r against this node's midpoints. An entry belongs to a
// quadrant only when both of its edges on each axis lie strictly on that
// quadrant's side; anything touching or crossing a midpoint is QuadrantNone.
func (q *Quadtree[E]) Index(r Rect) Quadrant {
	vm := q.bounds.X + q.bounds.Width/2
	hm := q.bounds.Y + q.bounds.Height/2

	top := r.Y < hm && r.Bottom() < hm
	bottom := r.Y > hm && r.Bottom() > hm

	switch {
	case r.X < vm && r.Right() < vm:
		if top {
			return QuadrantNW
		}
		if bottom {
			return QuadrantSW
		}
	case r.X > vm && r.Right() > vm:
		if top {
			return QuadrantNE
		}
		if bottom {
			return QuadrantSE
		}
	}
	return QuadrantNone
}

// InsertAll inserts each entry in order.
func (q *Quadtree[E]) InsertAll(entries []E) {
	for _, e := range entries {
		q.Insert(e)
	}
}

// Insert adds e to the tree. When a node grows past MaxObjects and is above
// MaxLevels it splits and moves every entry that fits a single quadrant down
// into that child.
func (q *Quadtree[E]) Insert(e E) {
	if q.nodes[0] != nil {
		if i := q.Index(e.Bounds()); i != QuadrantNone {
			q.nodes[i].Insert(e)
			return
		}
	}

	q.objects = append(q.objects, e)
	if !q.initialized {
		q.Initialize(DefaultMaxLevels, DefaultMaxObjects)
	}
	if len(q.objects) <= q.maxObjects {
		return
	}
	if q.level >= q.maxLevels {
		q.checkDepth()
		return
	}

	if q.nodes[0] == nil {
		q.Split()
	}

	kept := q.objects[:0]
	for _, obj := range q.objects {
		if i := q.Index(obj.Bounds()); i != QuadrantNone {
			q.nodes[i].Insert(obj)
		} else {
			kept = append(kept, obj)
		}
	}
	clear(q.objects[len(kept):])
	q.objects = kept
}

// checkDepth warns once per frame when a node at the depth cap fills up.
func (q *Quadtree[E]) checkDepth() {
	if q.warned || len(q.objects) <= depthWarnObjects {
		return
	}
	q.warned = true
	logger.Warn("quadtree node at depth cap is crowded",
		zap.Int("level", q.level),
		zap.Int("objects", len(q.objects)),
		zap.Float64("x", q.bounds.X),
		zap.Float64("y", q.bounds.Y),
		zap.Float64("width", q.bounds.Width),
		zap.Float64("height", q.bounds.Height))
}

// Retrieve returns every entry that could overlap e, possibly including e
// itself. The result is a broad-phase candidate set; callers still need an
// exact overlap test.
func (q *Quadtree[E]) Retrieve(e E) []E {
	return q.RetrieveRect(nil, e.Bounds())
}

// RetrieveInto appends the candidates for e to dst and returns the extended
// slice, so a per-frame buffer can be reused with dst[:0].
func (q *Quadtree[E]) RetrieveInto(dst []E, e E) []E {
	return q.RetrieveRect(dst, e.Bounds())
}

// RetrieveRect appends every entry that could overlap r to dst. Children are
// visited before this node's own entries. A region that straddles a midpoint
// descends into every child on the sides it reaches, so two overlapping
// entries always find each other.
func (q *Quadtree[E]) RetrieveRect(dst []E, r Rect) []E {
	if q.nodes[0] != nil {
		vm := q.bounds.X + q.bounds.Width/2
		hm := q.bounds.Y + q.bounds.Height/2

		top := r.Y < hm
		bottom := r.Bottom() > hm
		left := r.X < vm
		right := r.Right() > vm

		if top && right {
			dst = q.nodes[QuadrantNE].RetrieveRect(dst, r)
		}
		if top && left {
			dst = q.nodes[QuadrantNW].RetrieveRect(dst, r)
		}
		if bottom && left {
			dst = q.nodes[QuadrantSW].RetrieveRect(dst, r)
		}
		if bottom && right {
			dst = q.nodes[QuadrantSE].RetrieveRect(dst, r)
		}
	}
	return append(dst, q.objects...)
}

// Len returns the number of entries in this node and all descendants.
func (q *Quadtree[E]) Len() int {
	n := len(q.objects)
	for _, node := range q.nodes {
		if node != nil {
			n += node.Len()
		}
	}
	return n
}

// Walk visits this node and its descendants in pre-order (NE, NW, SW, SE).
// Returning false from fn skips that node's children.
func (q *Quadtree[E]) Walk(fn func(node *Quadtree[E]) bool) {
	if !fn(q) {
		return
	}
	for _, node := range q.nodes {
		if node != nil {
			node.Walk(fn)
		}
	}
}

// QuadtreeStats summarizes the shape of a tree.
type QuadtreeStats struct {
	Nodes    int // nodes including the root
	Objects  int // entries across all nodes
	MaxDepth int // deepest level reached, relative to the root's level
}

// Stats walks the tree and reports its shape.
func (q *Quadtree[E]) Stats() QuadtreeStats {
	var s QuadtreeStats
	q.Walk(func(node *Quadtree[E]) bool {
		s.Nodes++
		s.Objects += len(node.objects)
		if d := node.level - q.level; d > s.MaxDepth {
			s.MaxDepth = d
		}
		return true
	})
	return s
}
