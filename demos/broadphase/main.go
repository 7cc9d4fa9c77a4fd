// broadphase spawns bouncing circles from a pool and resolves their
// collisions through a quadtree rebuilt every frame. Click to spawn a burst,
// press D to toggle the quadtree overlay.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/jdgamebase/gamebase"
)

const (
	screenW     = 1280
	screenH     = 720
	startCount  = 150
	burstCount  = 25
	restitution = 0.6
	maxVel      = 6.0
	minLife     = 8.0
	maxLife     = 20.0
)

type ball struct {
	x, y, vx, vy float64
	radius       float64
	life         float64
	clr          color.RGBA
	idx          int // position in this frame's live list
}

func (b *ball) Bounds() gamebase.Rect {
	return gamebase.Rect{X: b.x - b.radius, Y: b.y - b.radius, Width: b.radius * 2, Height: b.radius * 2}
}

type game struct {
	balls     *gamebase.Pool[ball]
	tree      *gamebase.Quadtree[*ball]
	live      []*ball
	buf       []*ball
	spawner   *gamebase.Timer
	showTree  bool
	checks    int
	allPairs  int
	dropCount int
}

func newGame(cfg *gamebase.Config) (*game, error) {
	balls, err := gamebase.NewPoolFromConfig(cfg.Pool,
		func(b *ball) bool { return b.life > 0 },
		func() *ball { return &ball{} })
	if err != nil {
		return nil, err
	}
	tree, err := gamebase.NewQuadtreeFromConfig[*ball](cfg.Quadtree)
	if err != nil {
		return nil, err
	}

	g := &game{balls: balls, tree: tree, showTree: true}
	balls.OnAcquire = func(b *ball) {
		b.radius = 6 + rand.Float64()*10
		b.life = minLife + rand.Float64()*(maxLife-minLife)
		b.vx = (rand.Float64() - 0.5) * 2 * maxVel
		b.vy = (rand.Float64() - 0.5) * 2 * maxVel
		b.clr = color.RGBA{
			R: uint8(80 + rand.IntN(175)),
			G: uint8(80 + rand.IntN(175)),
			B: uint8(80 + rand.IntN(175)),
			A: 255,
		}
	}

	for i := 0; i < startCount; i++ {
		g.spawn(rand.Float64()*screenW, rand.Float64()*screenH)
	}
	// Keep the population topped up as balls expire.
	g.spawner = gamebase.NewTimer(0.5, true, func() {
		for i := 0; i < 5; i++ {
			g.spawn(rand.Float64()*screenW, rand.Float64()*screenH)
		}
	}, true)
	return g, nil
}

func (g *game) spawn(x, y float64) {
	b, ok := g.balls.New()
	if !ok {
		g.dropCount++
		return
	}
	b.x, b.y = x, y
}

func (g *game) Update() error {
	dt := 1 / float64(ebiten.TPS())

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		for i := 0; i < burstCount; i++ {
			g.spawn(float64(mx), float64(my))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.showTree = !g.showTree
	}
	g.spawner.Tick()

	g.balls.CleanUp()
	g.live = g.live[:0]
	g.balls.Each(func(b *ball) {
		b.life -= dt
		b.x += b.vx
		b.y += b.vy
		bounceWalls(b)
		b.idx = len(g.live)
		g.live = append(g.live, b)
	})

	g.tree.Clear()
	g.tree.InsertAll(g.live)

	g.checks = 0
	for _, a := range g.live {
		g.buf = g.tree.RetrieveInto(g.buf[:0], a)
		for _, b := range g.buf {
			// Index order visits each pair once and skips a itself.
			if b.idx <= a.idx {
				continue
			}
			g.checks++
			collide(a, b)
		}
	}
	n := len(g.live)
	g.allPairs = n * (n - 1) / 2
	return nil
}

func bounceWalls(b *ball) {
	if b.x-b.radius < 0 {
		b.x = b.radius
		b.vx = math.Abs(b.vx)
	} else if b.x+b.radius > screenW {
		b.x = screenW - b.radius
		b.vx = -math.Abs(b.vx)
	}
	if b.y-b.radius < 0 {
		b.y = b.radius
		b.vy = math.Abs(b.vy)
	} else if b.y+b.radius > screenH {
		b.y = screenH - b.radius
		b.vy = -math.Abs(b.vy)
	}
}

// collide separates two overlapping circles and exchanges momentum along the
// contact normal, weighting by area.
func collide(a, b *ball) {
	dx := b.x - a.x
	dy := b.y - a.y
	distSq := dx*dx + dy*dy
	minDist := a.radius + b.radius
	if distSq >= minDist*minDist || distSq < 0.001 {
		return
	}

	dist := math.Sqrt(distSq)
	nx, ny := dx/dist, dy/dist
	ma, mb := a.radius*a.radius, b.radius*b.radius
	total := ma + mb

	overlap := minDist - dist
	a.x -= nx * overlap * (mb / total)
	a.y -= ny * overlap * (mb / total)
	b.x += nx * overlap * (ma / total)
	b.y += ny * overlap * (ma / total)

	dvn := (a.vx-b.vx)*nx + (a.vy-b.vy)*ny
	if dvn <= 0 {
		return
	}
	impulse := (1 + restitution) * dvn / total
	a.vx -= impulse * mb * nx
	a.vy -= impulse * mb * ny
	b.vx += impulse * ma * nx
	b.vy += impulse * ma * ny
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{15, 15, 23, 255})
	for _, b := range g.live {
		vector.DrawFilledCircle(screen, float32(b.x), float32(b.y), float32(b.radius), b.clr, true)
	}
	if g.showTree {
		g.tree.DrawDebug(screen, gamebase.DebugOptions{Color: gamebase.Color{R: 0.2, G: 1, B: 0.2, A: 0.6}})
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
		"balls: %d (pool %d)  checks: %d / %d  dropped: %d  TPS: %.0f",
		len(g.live), g.balls.Cap(), g.checks, g.allPairs, g.dropCount, ebiten.ActualTPS()),
		4, screenH-16)
}

func (g *game) Layout(_, _ int) (int, int) {
	return screenW, screenH
}

func main() {
	configPath := flag.String("config", "", "TOML tuning file")
	debug := flag.Bool("debug", false, "log pool resizes and crowded quadtree nodes")
	flag.Parse()

	if *debug {
		l, err := zap.NewDevelopment()
		if err != nil {
			log.Fatal(err)
		}
		defer func() { _ = l.Sync() }()
		gamebase.SetLogger(l)
	}

	cfg := gamebase.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = gamebase.LoadConfigFile(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	cfg.Quadtree.Bounds = gamebase.Rect{X: 0, Y: 0, Width: screenW, Height: screenH}

	g, err := newGame(cfg)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("gamebase: broad phase")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
