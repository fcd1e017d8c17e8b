package main

import (
	"time"

	pp "github.com/npillmayer/pathpioneer"
	"github.com/npillmayer/pathpioneer/arrows"
	"github.com/npillmayer/pathpioneer/ribbon"
	"github.com/rs/zerolog"
)

// consoleUI stands in for the on-screen panels.
type consoleUI struct {
	log     zerolog.Logger
	visible map[pp.Panel]bool
}

func (u *consoleUI) Show(p pp.Panel) {
	if !u.visible[p] {
		u.log.Info().Str("panel", string(p)).Msg("show")
	}
	u.visible[p] = true
}

func (u *consoleUI) Hide(p pp.Panel) {
	if u.visible[p] {
		u.log.Debug().Str("panel", string(p)).Msg("hide")
	}
	u.visible[p] = false
}

// consoleMesh stands in for the ribbon renderer.
type consoleMesh struct {
	log  zerolog.Logger
	last ribbon.Mesh
}

func (m *consoleMesh) UpdateMesh(mesh ribbon.Mesh) {
	m.last = mesh
	m.log.Debug().Int("vertices", len(mesh.Vertices)).Int("triangles", len(mesh.Indices)/3).Msg("mesh")
}

// consoleArrows stands in for the arrow scene objects.
type consoleArrows struct {
	log   zerolog.Logger
	shown map[int]arrows.ArrowPair
}

func (a *consoleArrows) Show(pair arrows.ArrowPair) {
	a.shown[pair.ID] = pair
	a.log.Debug().Int("id", pair.ID).Float64("arc", pair.Arc).Msg("arrow shown")
}

func (a *consoleArrows) Hide(id int) {
	delete(a.shown, id)
	a.log.Debug().Int("id", id).Msg("arrow hidden")
}

// consoleHUD stands in for the heads-up display and the speed warning.
type consoleHUD struct {
	log      zerolog.Logger
	progress float64
	elapsed  time.Duration
	pace     float64
	warnings int
}

func (h *consoleHUD) SetProgress(fraction float64) { h.progress = fraction }

func (h *consoleHUD) SetTime(elapsed time.Duration) { h.elapsed = elapsed }

func (h *consoleHUD) SetAveragePace(cmPerSecond float64) { h.pace = cmPerSecond }

func (h *consoleHUD) SetWarning(on bool) {
	if on {
		h.warnings++
		h.log.Warn().Float64("pace", h.pace).Msg("too fast")
		return
	}
	h.log.Info().Msg("speed ok")
}
