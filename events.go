package boneview

// SelectionKind distinguishes selection events.
type SelectionKind uint8

const (
	SelectionSelected SelectionKind = iota // a bone became the selection
	SelectionReset                         // selection, camera and rotation returned to initial state
)

// String returns the lowercase name of the kind.
func (k SelectionKind) String() string {
	switch k {
	case SelectionSelected:
		return "selected"
	case SelectionReset:
		return "reset"
	default:
		return "unknown"
	}
}

// SelectionEvent describes a change of selection state. Reset events carry
// no mesh.
type SelectionEvent struct {
	Kind     SelectionKind
	MeshID   uint32
	Name     string
	Metadata BoneMetadata
}

// EventSink receives selection events. The ecs package provides a sink that
// publishes into a Donburi world.
type EventSink interface {
	EmitSelection(event SelectionEvent)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(SelectionEvent)

// EmitSelection calls f(event).
func (f SinkFunc) EmitSelection(event SelectionEvent) {
	f(event)
}
