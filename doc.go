// Package gamebase provides the allocation and spatial-query utilities that
// sit underneath a 2D game built on [Ebitengine]: a recycling object [Pool]
// and a broad-phase [Quadtree].
//
// # Pools
//
// A [Pool] hands out instances without allocating in steady state. The
// caller supplies a validate func that says whether an instance is still in
// use; [Pool.CleanUp] reclaims the rest:
//
//	bullets, err := gamebase.NewPool(128, false,
//		func(b *Bullet) bool { return b.Alive },
//		func() *Bullet { return &Bullet{} })
//	bullets.OnAcquire = func(b *Bullet) { b.Alive = true }
//
//	if b, ok := bullets.New(); ok {
//		b.X, b.Y = shipX, shipY
//	}
//	// once per frame
//	bullets.CleanUp()
//
// A pool that cannot resize returns nil, false from New when it is full.
// That is normal back-pressure, not an error.
//
// # Quadtrees
//
// A [Quadtree] is rebuilt every frame and queried once per entity:
//
//	tree.Clear()
//	tree.InsertAll(actors)
//	for _, a := range actors {
//		buf = tree.RetrieveInto(buf[:0], a)
//		for _, other := range buf {
//			if other != a && a.Bounds().Intersects(other.Bounds()) {
//				// narrow phase
//			}
//		}
//	}
//
// Retrieve over-reports: results include the query entity and anything in a
// node it reaches. Two entities whose bounds intersect always appear in each
// other's results.
//
// # Tuning and diagnostics
//
// [LoadConfig] reads pool and quadtree limits from TOML. [SetLogger] routes
// resize and depth-cap warnings to a zap logger. [Quadtree.DrawDebug] draws
// node outlines for development overlays, and [Timer] provides frame-driven
// countdowns.
//
// The ecs submodule runs the rebuild-and-query loop as a [Donburi] system;
// the metrics submodule exports pool and tree gauges to Prometheus.
//
// None of the types in this package are safe for concurrent use.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package gamebase
