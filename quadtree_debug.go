package gamebase

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// debugLabelHeight is the pixel height of one line of ebitenutil debug text.
const debugLabelHeight = 16

// DebugOptions controls how DrawDebug renders a quadtree.
type DebugOptions struct {
	// Color is the outline color. Zero value uses ColorLime.
	Color Color
	// StrokeWidth is the outline width in pixels. Zero value uses 1.
	StrokeWidth float32
	// ShowCounts prints "Objects: N" in each node's bottom-left corner.
	ShowCounts bool
	// Offset is subtracted from world coordinates, e.g. the camera's top-left.
	Offset Vec2
}

// debugShape is one outline (and optional label) produced by the overlay walk.
type debugShape struct {
	rect   Rect
	label  string
	labelX int
	labelY int
}

// debugShapes flattens the tree into screen-space outlines in pre-order.
func (q *Quadtree[E]) debugShapes(opts DebugOptions) []debugShape {
	var shapes []debugShape
	q.Walk(func(node *Quadtree[E]) bool {
		r := node.bounds
		r.X -= opts.Offset.X
		r.Y -= opts.Offset.Y
		s := debugShape{rect: r}
		if opts.ShowCounts {
			s.label = fmt.Sprintf("Objects: %d", len(node.objects))
			s.labelX = int(r.X)
			s.labelY = int(r.Y+r.Height) - debugLabelHeight
		}
		shapes = append(shapes, s)
		return true
	})
	return shapes
}

// DrawDebug outlines every node's bounds on dst. Intended for development
// overlays; it allocates per call.
func (q *Quadtree[E]) DrawDebug(dst *ebiten.Image, opts DebugOptions) {
	c := opts.Color
	if c == (Color{}) {
		c = ColorLime
	}
	width := opts.StrokeWidth
	if width <= 0 {
		width = 1
	}
	clr := c.toRGBA()

	for _, s := range q.debugShapes(opts) {
		vector.StrokeRect(dst,
			float32(s.rect.X), float32(s.rect.Y),
			float32(s.rect.Width), float32(s.rect.Height),
			width, clr, false)
		if s.label != "" {
			ebitenutil.DebugPrintAt(dst, s.label, s.labelX, s.labelY)
		}
	}
}
