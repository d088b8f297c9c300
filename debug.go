package boneview

import "time"

// debugLog logs draw statistics for the frame. Only called in debug mode.
func (v *Viewer) debugLog(stats RenderStats, elapsed time.Duration) {
	v.log.Debug().
		Dur("draw", elapsed).
		Int("meshes", stats.Meshes).
		Int("triangles", stats.Triangles).
		Int("culled", stats.Culled).
		Int("draw_calls", stats.DrawCalls).
		Msg("frame")
}
