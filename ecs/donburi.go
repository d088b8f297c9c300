package ecs

import (
	"github.com/phanxgames/boneview"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SelectionEventType is the Donburi event type for boneview selection events.
var SelectionEventType = events.NewEventType[boneview.SelectionEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on SelectionEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) boneview.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitSelection(event boneview.SelectionEvent) {
	SelectionEventType.Publish(s.world, event)
}
