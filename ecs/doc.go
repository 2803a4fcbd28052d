// Package ecs provides ECS adapters for flip's lifecycle events.
//
// [NewDonburiStore] bridges lifecycle events (enter, move, exit, commit,
// removal) into a [Donburi] world as typed events. Subscribe to
// [LifecycleEventType] in your ECS systems to receive them.
// [NewMirrorStore] additionally keeps one entity per live key carrying a
// [KeyStatus] component, so systems can query transition state directly.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
