// Package ecs provides ECS adapters for boneview's selection events.
//
// The primary adapter is [NewDonburiSink], which publishes boneview
// selection events (bone selected, view reset) into a [Donburi] world as
// typed events. Subscribe to [SelectionEventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	cfg := boneview.DefaultViewerConfig()
//	cfg.Sink = sink
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
