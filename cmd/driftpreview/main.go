// Drift field preview tool - interactive visualization of the noise flow
// that carries minions and spores, with sliders for its parameters.
//
// Usage: go run ./cmd/driftpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/oids/clock"
	"github.com/pthm-cable/oids/config"
	"github.com/pthm-cable/oids/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 640
	gridSteps    = 32
	panelX       = previewSize + 30
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	defaults := cfg.Drift
	params := defaults
	seed := int64(1)
	extent := cfg.Derived.Extent

	rl.InitWindow(windowWidth, windowHeight, "Drift Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	drift := systems.NewDriftSystemFrom(seed, params)
	animating := true

	for !rl.WindowShouldClose() {
		if animating {
			drift.Advance(clock.Seconds(rl.GetFrameTime()))
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Arrow grid over the arena
		cell := float32(previewSize) / gridSteps
		for gy := 0; gy < gridSteps; gy++ {
			for gx := 0; gx < gridSteps; gx++ {
				u := (float64(gx) + 0.5) / gridSteps
				v := (float64(gy) + 0.5) / gridSteps
				p := r2.Vec{
					X: extent.Min.X + u*extent.Width(),
					Y: extent.Max.Y - v*extent.Height(),
				}
				angle := drift.FlowAt(p)
				cx := 10 + (float32(gx)+0.5)*cell
				cy := 10 + (float32(gy)+0.5)*cell
				dx := float32(math.Cos(angle)) * cell * 0.45
				dy := -float32(math.Sin(angle)) * cell * 0.45
				rl.DrawLineV(rl.Vector2{X: cx - dx, Y: cy - dy}, rl.Vector2{X: cx + dx, Y: cy + dy}, rl.DarkGray)
				rl.DrawCircleV(rl.Vector2{X: cx + dx, Y: cy + dy}, 1.5, rl.Maroon)
			}
		}
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		y := float32(10)
		rl.DrawText("Drift Parameters", panelX, int32(y), 20, rl.DarkGray)
		y += 35

		params.Scale = float64(slider(&y, "Scale (noise frequency)", float32(params.Scale), 0.005, 0.3, "%.3f"))
		params.TimeSpeed = float64(slider(&y, "Time speed (animation)", float32(params.TimeSpeed), 0, 1, "%.2f"))
		params.Speed = float64(slider(&y, "Speed (units/s)", float32(params.Speed), 0, 20, "%.1f"))
		drift = rebuildIfChanged(drift, seed, params)

		if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: y, Width: 120, Height: 30}, "Random Seed") {
			seed = int64(rl.GetRandomValue(0, 99999))
			drift = systems.NewDriftSystemFrom(seed, params)
		}
		y += 40
		if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 120, Height: 30}, "Reset All") {
			params = defaults
			drift = systems.NewDriftSystemFrom(seed, params)
		}
		y += 55

		out, err := yaml.Marshal(map[string]config.DriftConfig{"drift": params})
		if err != nil {
			out = []byte(err.Error())
		}
		rl.DrawText("YAML Config:", panelX, int32(y), 16, rl.DarkGray)
		rl.DrawText(string(out), panelX, int32(y)+25, 14, rl.Gray)
		rl.DrawText(fmt.Sprintf("seed %d", seed), panelX, windowHeight-50, 12, rl.Gray)
		rl.DrawText("Press C to copy YAML to clipboard", panelX, windowHeight-30, 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(string(out))
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider at *y and advances *y past it.
func slider(y *float32, label string, value, min, max float32, format string) float32 {
	rl.DrawText(label, panelX, int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: panelX, Y: *y, Width: windowWidth - panelX - 80, Height: 20},
		"", "", value, min, max,
	)
	rl.DrawText(fmt.Sprintf(format, v), windowWidth-70, int32(*y)+2, 16, rl.DarkGray)
	*y += 35
	return v
}

// rebuildIfChanged keeps the current field unless a parameter moved.
func rebuildIfChanged(d *systems.DriftSystem, seed int64, p config.DriftConfig) *systems.DriftSystem {
	if d.Params() == p {
		return d
	}
	next := systems.NewDriftSystemFrom(seed, p)
	next.Advance(clock.Seconds(d.Time()))
	return next
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
