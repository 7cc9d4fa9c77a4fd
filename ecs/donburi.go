package ecs

import (
	"github.com/jdgamebase/gamebase"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// Bounds is the component holding an entity's world-space bounding box.
// Only entities with this component take part in the broad phase.
var Bounds = donburi.NewComponentType[gamebase.Rect]()

// CandidatePair names two entities whose bounds may overlap. Each pair is
// published once per frame, in no particular order.
type CandidatePair struct {
	A, B donburi.Entity
}

// CandidateEventType is the Donburi event type BroadPhase publishes to.
var CandidateEventType = events.NewEventType[CandidatePair]()

// Body is the quadtree entry for one entity during one frame.
type Body struct {
	entity donburi.Entity
	bounds gamebase.Rect
	frame  uint64
	seq    int
}

// Bounds returns the entity's bounds as of the frame it was inserted.
func (b *Body) Bounds() gamebase.Rect { return b.bounds }

// Entity returns the entity this body stands for.
func (b *Body) Entity() donburi.Entity { return b.entity }

// BroadPhase rebuilds a quadtree from every entity with a Bounds component
// each frame and publishes the overlapping candidates. Bodies are recycled
// through a gamebase.Pool, so a steady entity count does not allocate.
type BroadPhase struct {
	// Exact drops candidates whose bounds do not actually intersect before
	// publishing them.
	Exact bool

	tree    *gamebase.Quadtree[*Body]
	bodies  *gamebase.Pool[Body]
	query   *donburi.Query
	frame   uint64
	buf     []*Body
	dropped int
	pairs   int
}

// NewBroadPhase creates a broad phase sized by cfg.
func NewBroadPhase(cfg *gamebase.Config) (*BroadPhase, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bp := &BroadPhase{
		query: donburi.NewQuery(filter.Contains(Bounds)),
	}

	tree, err := gamebase.NewQuadtreeFromConfig[*Body](cfg.Quadtree)
	if err != nil {
		return nil, err
	}
	bodies, err := gamebase.NewPoolFromConfig(cfg.Pool,
		// A body is live only during the frame it was filled in.
		func(b *Body) bool { return b.frame == bp.frame },
		func() *Body { return &Body{} })
	if err != nil {
		return nil, err
	}
	bp.tree = tree
	bp.bodies = bodies
	return bp, nil
}

// Tree returns the quadtree built by the last Update.
func (bp *BroadPhase) Tree() *gamebase.Quadtree[*Body] { return bp.tree }

// Pool returns the pool of per-frame bodies.
func (bp *BroadPhase) Pool() *gamebase.Pool[Body] { return bp.bodies }

// Dropped returns how many entities the last Update skipped because the
// body pool was full and not allowed to resize.
func (bp *BroadPhase) Dropped() int { return bp.dropped }

// Pairs returns how many candidate pairs the last Update published.
func (bp *BroadPhase) Pairs() int { return bp.pairs }

// Update rebuilds the tree from w and publishes candidate pairs to
// CandidateEventType. Events are queued; call ProcessEvents to deliver them.
func (bp *BroadPhase) Update(w donburi.World) {
	bp.frame++
	bp.bodies.CleanUp()
	bp.tree.Clear()
	bp.dropped = 0
	bp.pairs = 0

	seq := 0
	bp.query.Each(w, func(entry *donburi.Entry) {
		b, ok := bp.bodies.New()
		if !ok {
			bp.dropped++
			return
		}
		b.entity = entry.Entity()
		b.bounds = *Bounds.Get(entry)
		b.frame = bp.frame
		b.seq = seq
		seq++
		bp.tree.Insert(b)
	})

	bp.bodies.Each(func(b *Body) {
		bp.buf = bp.tree.RetrieveInto(bp.buf[:0], b)
		for _, other := range bp.buf {
			// seq ordering reports each pair once and skips b itself.
			if other.seq <= b.seq {
				continue
			}
			if bp.Exact && !b.bounds.Intersects(other.bounds) {
				continue
			}
			CandidateEventType.Publish(w, CandidatePair{A: b.entity, B: other.entity})
			bp.pairs++
		}
	})
}
