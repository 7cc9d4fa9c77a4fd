// Package metrics exports gamebase pool and quadtree gauges to Prometheus.
//
// Pools and quadtrees are not safe to read from a scrape goroutine, so the
// game loop copies their counts into gauges once per frame:
//
//	rec := metrics.NewRecorder(prometheus.DefaultRegisterer)
//	// in Update, after CleanUp and the quadtree rebuild
//	metrics.ObservePool(rec, "bullets", bullets)
//	metrics.ObserveQuadtree(rec, "world", tree)
package metrics

import (
	"github.com/jdgamebase/gamebase"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	poolLabel = "pool"
	treeLabel = "tree"
)

// Recorder holds the gauges. Label values are the names the game passes to
// ObservePool and ObserveQuadtree; keep them to a small fixed set.
type Recorder struct {
	poolLive     *prometheus.GaugeVec
	poolFree     *prometheus.GaugeVec
	poolCapacity *prometheus.GaugeVec

	treeNodes   *prometheus.GaugeVec
	treeObjects *prometheus.GaugeVec
	treeDepth   *prometheus.GaugeVec
}

// NewRecorder registers the gauges with reg. It panics if they are already
// registered there.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		poolLive: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gamebase_pool_live",
			Help: "Instances currently handed out by the pool.",
		}, []string{poolLabel}),
		poolFree: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gamebase_pool_free",
			Help: "Free slots in the pool.",
		}, []string{poolLabel}),
		poolCapacity: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gamebase_pool_capacity",
			Help: "Total slots in the pool.",
		}, []string{poolLabel}),
		treeNodes: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gamebase_quadtree_nodes",
			Help: "Nodes in the quadtree, including the root.",
		}, []string{treeLabel}),
		treeObjects: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gamebase_quadtree_objects",
			Help: "Entries stored in the quadtree.",
		}, []string{treeLabel}),
		treeDepth: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gamebase_quadtree_depth",
			Help: "Deepest level reached below the root.",
		}, []string{treeLabel}),
	}
}

// ObservePool copies p's counts into the pool gauges under name.
func ObservePool[T any](r *Recorder, name string, p *gamebase.Pool[T]) {
	labels := prometheus.Labels{poolLabel: name}
	r.poolLive.With(labels).Set(float64(p.ValidCount()))
	r.poolFree.With(labels).Set(float64(p.InvalidCount()))
	r.poolCapacity.With(labels).Set(float64(p.Cap()))
}

// ObserveQuadtree copies q's shape into the quadtree gauges under name.
func ObserveQuadtree[E gamebase.Bounded](r *Recorder, name string, q *gamebase.Quadtree[E]) {
	s := q.Stats()
	labels := prometheus.Labels{treeLabel: name}
	r.treeNodes.With(labels).Set(float64(s.Nodes))
	r.treeObjects.With(labels).Set(float64(s.Objects))
	r.treeDepth.With(labels).Set(float64(s.MaxDepth))
}
