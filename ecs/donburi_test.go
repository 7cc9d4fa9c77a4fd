package ecs

import (
	"testing"

	"github.com/jdgamebase/gamebase"

	"github.com/yohamta/donburi"
)

func spawn(w donburi.World, r gamebase.Rect) donburi.Entity {
	e := w.Create(Bounds)
	Bounds.SetValue(w.Entry(e), r)
	return e
}

func collect(w donburi.World) *[]CandidatePair {
	var got []CandidatePair
	CandidateEventType.Subscribe(w, func(w donburi.World, p CandidatePair) {
		got = append(got, p)
	})
	return &got
}

func hasPair(pairs []CandidatePair, a, b donburi.Entity) bool {
	for _, p := range pairs {
		if (p.A == a && p.B == b) || (p.A == b && p.B == a) {
			return true
		}
	}
	return false
}

func testConfig() *gamebase.Config {
	cfg := gamebase.DefaultConfig()
	cfg.Quadtree.Bounds = gamebase.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	cfg.Quadtree.MaxObjects = 1
	cfg.Pool.InitialSize = 4
	return cfg
}

func TestNewBroadPhaseInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Pool.InitialSize = 0
	if _, err := NewBroadPhase(cfg); err == nil {
		t.Fatal("expected error for zero pool size")
	}
}

func TestBroadPhasePublishesOverlaps(t *testing.T) {
	world := donburi.NewWorld()
	got := collect(world)

	a := spawn(world, gamebase.Rect{X: 10, Y: 10, Width: 10, Height: 10})
	b := spawn(world, gamebase.Rect{X: 15, Y: 15, Width: 10, Height: 10})
	far := spawn(world, gamebase.Rect{X: 80, Y: 80, Width: 5, Height: 5})

	bp, err := NewBroadPhase(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	bp.Exact = true
	bp.Update(world)
	CandidateEventType.ProcessEvents(world)

	if !hasPair(*got, a, b) {
		t.Errorf("missing overlapping pair, got %v", *got)
	}
	if hasPair(*got, a, far) || hasPair(*got, b, far) {
		t.Errorf("reported pair with distant entity: %v", *got)
	}
	if len(*got) != 1 || bp.Pairs() != 1 {
		t.Errorf("got %d events, Pairs() = %d, want 1", len(*got), bp.Pairs())
	}
	if bp.Tree().Len() != 3 {
		t.Errorf("tree holds %d bodies, want 3", bp.Tree().Len())
	}
}

func TestBroadPhaseNoSelfOrDuplicatePairs(t *testing.T) {
	world := donburi.NewWorld()
	got := collect(world)

	// All straddle the root midpoints, so every body sees every other.
	spawn(world, gamebase.Rect{X: 40, Y: 40, Width: 20, Height: 20})
	spawn(world, gamebase.Rect{X: 45, Y: 45, Width: 20, Height: 20})
	spawn(world, gamebase.Rect{X: 35, Y: 35, Width: 20, Height: 20})

	bp, err := NewBroadPhase(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	bp.Update(world)
	CandidateEventType.ProcessEvents(world)

	if len(*got) != 3 {
		t.Fatalf("got %d pairs, want 3: %v", len(*got), *got)
	}
	seen := map[CandidatePair]bool{}
	for _, p := range *got {
		if p.A == p.B {
			t.Errorf("self pair %v", p)
		}
		rev := CandidatePair{A: p.B, B: p.A}
		if seen[p] || seen[rev] {
			t.Errorf("duplicate pair %v", p)
		}
		seen[p] = true
	}
}

func TestBroadPhaseRecyclesBodies(t *testing.T) {
	world := donburi.NewWorld()
	collect(world)
	for i := 0; i < 3; i++ {
		spawn(world, gamebase.Rect{X: float64(i * 30), Y: 5, Width: 5, Height: 5})
	}

	bp, err := NewBroadPhase(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	for frame := 0; frame < 5; frame++ {
		bp.Update(world)
		CandidateEventType.ProcessEvents(world)
		if bp.Pool().ValidCount() != 3 {
			t.Fatalf("frame %d: %d live bodies, want 3", frame, bp.Pool().ValidCount())
		}
	}
	if bp.Pool().Cap() != 4 {
		t.Errorf("pool grew to %d with a steady entity count", bp.Pool().Cap())
	}
}

func TestBroadPhaseDropsWhenPoolFull(t *testing.T) {
	world := donburi.NewWorld()
	collect(world)
	for i := 0; i < 6; i++ {
		spawn(world, gamebase.Rect{X: float64(i * 10), Y: 5, Width: 5, Height: 5})
	}

	cfg := testConfig()
	cfg.Pool.CanResize = false
	bp, err := NewBroadPhase(cfg)
	if err != nil {
		t.Fatal(err)
	}
	bp.Update(world)
	CandidateEventType.ProcessEvents(world)

	if bp.Dropped() != 2 {
		t.Errorf("Dropped = %d, want 2", bp.Dropped())
	}
	if bp.Tree().Len() != 4 {
		t.Errorf("tree holds %d bodies, want 4", bp.Tree().Len())
	}
}

func TestBroadPhaseTracksMovement(t *testing.T) {
	world := donburi.NewWorld()
	got := collect(world)

	a := spawn(world, gamebase.Rect{X: 10, Y: 10, Width: 5, Height: 5})
	b := spawn(world, gamebase.Rect{X: 80, Y: 80, Width: 5, Height: 5})

	bp, err := NewBroadPhase(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	bp.Exact = true
	bp.Update(world)
	CandidateEventType.ProcessEvents(world)
	if len(*got) != 0 {
		t.Fatalf("unexpected pairs before move: %v", *got)
	}

	Bounds.SetValue(world.Entry(b), gamebase.Rect{X: 12, Y: 12, Width: 5, Height: 5})
	bp.Update(world)
	CandidateEventType.ProcessEvents(world)
	if !hasPair(*got, a, b) {
		t.Errorf("pair not reported after move: %v", *got)
	}
}
