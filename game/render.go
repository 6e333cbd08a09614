package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/oids/components"
	"github.com/pthm-cable/oids/genetics"
	"github.com/pthm-cable/oids/inspector"
)

const hudHeight = 40

var (
	colorBackground = rl.Color{R: 12, G: 16, B: 24, A: 255}
	colorArena      = rl.Color{R: 60, G: 70, B: 90, A: 255}
	colorResource   = rl.Color{R: 90, G: 200, B: 110, A: 255}
	colorSpore      = rl.Color{R: 230, G: 200, B: 90, A: 255}
	colorGenderA    = rl.Color{R: 110, G: 160, B: 255, A: 255}
	colorGenderB    = rl.Color{R: 255, G: 120, B: 160, A: 255}
	colorDead       = rl.Color{R: 80, G: 80, B: 80, A: 255}
	colorTracker    = rl.Color{R: 255, G: 255, B: 255, A: 200}
	colorFeeder     = rl.Color{R: 90, G: 200, B: 110, A: 60}
)

// Draw renders the arena, agents and HUD.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(colorBackground)

	g.drawArena()
	w := g.sim.World()
	w.Each(components.TypeResource, g.drawAgent)
	w.Each(components.TypeSpore, g.drawAgent)
	w.Each(components.TypeMinion, g.drawAgent)

	g.drawHUD()
	g.drawInspector()
	rl.EndDrawing()
}

func (g *Game) toScreen(p r2.Vec) rl.Vector2 {
	x, y := g.camera.WorldToScreen(p)
	return rl.Vector2{X: float32(x), Y: float32(y)}
}

// drawArena outlines the extent and marks the feeders.
func (g *Game) drawArena() {
	ext := g.sim.World().Extent()
	topLeft := g.toScreen(r2.Vec{X: ext.Min.X, Y: ext.Max.Y})
	bottomRight := g.toScreen(r2.Vec{X: ext.Max.X, Y: ext.Min.Y})
	rl.DrawRectangleLinesEx(rl.Rectangle{
		X:      topLeft.X,
		Y:      topLeft.Y,
		Width:  bottomRight.X - topLeft.X,
		Height: bottomRight.Y - topLeft.Y,
	}, 2, colorArena)

	scale := float32(g.camera.Scale())
	for _, f := range g.sim.World().Feeders() {
		rl.DrawCircleV(g.toScreen(f.Position), float32(f.Spread)*scale, colorFeeder)
	}
}

// drawAgent draws every segment of a as a circle, joined by lines for minions.
func (g *Game) drawAgent(a *components.Agent) {
	color := agentColor(a)
	scale := g.camera.Scale()

	var prev rl.Vector2
	for i, seg := range a.Segments {
		r := seg.GrowingRadius()
		if !g.camera.IsVisible(seg.Transform.Position, r) {
			continue
		}
		pos := g.toScreen(seg.Transform.Position)
		if i > 0 && a.Type == components.TypeMinion {
			rl.DrawLineV(prev, pos, color)
		}
		prev = pos

		rl.DrawCircleV(pos, float32(r*scale), color)
		if seg.Flags.Has(components.FlagMouth) {
			tip := g.toScreen(r2.Add(seg.Transform.Position, r2.Scale(r, seg.Transform.Heading())))
			rl.DrawLineV(pos, tip, colorBackground)
		}
		if seg.Flags.Has(components.FlagTracker) {
			rl.DrawCircleLinesV(pos, float32(r*scale)+4, colorTracker)
		}
	}
}

func agentColor(a *components.Agent) rl.Color {
	if !a.State.IsActive() {
		return colorDead
	}
	switch a.Type {
	case components.TypeResource:
		return colorResource
	case components.TypeSpore:
		return colorSpore
	}
	if a.Gender() == genetics.GenderA {
		return colorGenderA
	}
	return colorGenderB
}

// drawInspector shows the tracked minion's details.
func (g *Game) drawInspector() {
	if !g.showInspector {
		return
	}
	w := g.sim.World()
	a := w.Lookup(components.TypeMinion, w.Tracked())
	if a == nil {
		return
	}
	g.inspector.Draw(inspector.Describe(a, a.State.Lifecycle.Age(w.Timer())))
}

// drawHUD draws the top bar with counts and the pause and speed controls.
func (g *Game) drawHUD() {
	width := float32(g.screenWidth)
	rl.DrawRectangle(0, 0, int32(width), hudHeight, rl.Color{R: 0, G: 0, B: 0, A: 160})

	label := "Pause"
	if g.paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: 10, Y: 8, Width: 80, Height: 24}, label) {
		g.paused = !g.paused
	}

	speed := gui.SliderBar(
		rl.Rectangle{X: 150, Y: 10, Width: 120, Height: 20},
		"speed", fmt.Sprintf("%dx", g.stepsPerUpdate),
		float32(g.stepsPerUpdate), 1, maxStepsPerUpdate,
	)
	g.stepsPerUpdate = int(speed + 0.5)

	w := g.sim.World()
	rl.DrawText(fmt.Sprintf("t=%.1fs  minions %d  spores %d  resources %d  pool %d  fps %d",
		g.sim.SimTime().Get(),
		w.Count(components.TypeMinion),
		w.Count(components.TypeSpore),
		w.Count(components.TypeResource),
		w.MinionPool().Len(),
		rl.GetFPS(),
	), 320, 12, 16, rl.RayWhite)

	if g.showHelp {
		rl.DrawText("SPACE: Pause | < >: Speed | Click: Track | S: Snapshot | I: Inspector | Arrows/Wheel: Camera | Home: Reset",
			10, int32(g.screenHeight)-25, 14, rl.Gray)
	}
}
