package gamebase

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestDebugShapesOnePerNode(t *testing.T) {
	q := newTestTree(t, Rect{0, 0, 100, 100}, 4, 1)
	q.Insert(newBox("a", 10, 10, 5, 5))
	q.Insert(newBox("b", 80, 80, 5, 5))

	shapes := q.debugShapes(DebugOptions{})
	if len(shapes) != 5 {
		t.Fatalf("got %d shapes, want 5", len(shapes))
	}
	if shapes[0].rect != (Rect{0, 0, 100, 100}) {
		t.Errorf("root shape = %v", shapes[0].rect)
	}
	for _, s := range shapes {
		if s.label != "" {
			t.Errorf("label %q drawn without ShowCounts", s.label)
		}
	}
}

func TestDebugShapesCountsAndOffset(t *testing.T) {
	q := newTestTree(t, Rect{0, 0, 100, 100}, 4, 1)
	q.Insert(newBox("a", 10, 10, 5, 5))
	q.Insert(newBox("b", 80, 80, 5, 5))
	q.Insert(newBox("straddler", 45, 45, 10, 10))

	shapes := q.debugShapes(DebugOptions{ShowCounts: true, Offset: Vec2{X: 20, Y: 10}})
	root := shapes[0]
	if root.label != "Objects: 1" {
		t.Errorf("root label = %q, want %q", root.label, "Objects: 1")
	}
	if root.rect.X != -20 || root.rect.Y != -10 {
		t.Errorf("root rect not offset: %v", root.rect)
	}
	if root.labelX != -20 || root.labelY != 90-debugLabelHeight {
		t.Errorf("root label at (%d, %d)", root.labelX, root.labelY)
	}

	// Children follow in NE, NW, SW, SE order.
	wantLabels := []string{"Objects: 0", "Objects: 1", "Objects: 0", "Objects: 1"}
	for i, want := range wantLabels {
		if shapes[i+1].label != want {
			t.Errorf("child %d label = %q, want %q", i, shapes[i+1].label, want)
		}
	}
}

func TestDrawDebugDoesNotPanic(t *testing.T) {
	q := newTestTree(t, Rect{0, 0, 64, 64}, 3, 1)
	q.Insert(newBox("a", 2, 2, 4, 4))
	q.Insert(newBox("b", 40, 40, 4, 4))

	img := ebiten.NewImage(64, 64)
	q.DrawDebug(img, DebugOptions{})
	q.DrawDebug(img, DebugOptions{Color: Color{1, 0, 0, 1}, StrokeWidth: 2, ShowCounts: true})
}
