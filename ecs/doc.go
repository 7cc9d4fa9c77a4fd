// Package ecs runs gamebase's pool and quadtree as a [Donburi] system.
//
// Give entities a [Bounds] component, create a [BroadPhase], and call
// Update once per frame. Every pair of entities that may overlap is
// published as a [CandidatePair] on [CandidateEventType]:
//
//	bp, _ := ecs.NewBroadPhase(gamebase.DefaultConfig())
//	ecs.CandidateEventType.Subscribe(world, func(w donburi.World, p ecs.CandidatePair) {
//		// narrow phase
//	})
//
//	bp.Update(world)
//	ecs.CandidateEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
