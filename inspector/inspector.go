// Package inspector draws a detail panel for the tracked minion.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/oids/clock"
	"github.com/pthm-cable/oids/components"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 26
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 230}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
)

// Row is one line of the panel.
type Row struct {
	Name  string
	Value string
}

// SegmentRow summarises a body segment.
type SegmentRow struct {
	Radius   float64
	Maturity float64
	Charge   float64
	Flags    string
}

// Details is everything the panel shows for an agent.
type Details struct {
	Title     string
	Energy    float64
	MaxEnergy float64
	Rows      []Row
	Segments  []SegmentRow
}

// Describe extracts the panel contents for a. age is the agent's age.
func Describe(a *components.Agent, age clock.Seconds) Details {
	d := Details{
		Title:     fmt.Sprintf("%s #%d", a.Type, a.ID),
		Energy:    a.State.Energy,
		MaxEnergy: a.State.MaxEnergy,
		Rows: []Row{
			{"status", a.State.Status().String()},
			{"gender", a.Gender().String()},
			{"age", fmt.Sprintf("%.1fs", age.Get())},
			{"dna", a.Dna.String()},
		},
	}
	if a.Type == components.TypeSpore {
		d.Rows = append(d.Rows, Row{"fertilised", fmt.Sprint(a.State.IsFertilised())})
	}
	for _, seg := range a.Segments {
		d.Segments = append(d.Segments, SegmentRow{
			Radius:   seg.Radius,
			Maturity: seg.Maturity(),
			Charge:   seg.Charge.Value,
			Flags:    flagString(seg.Flags),
		})
	}
	return d
}

func flagString(f components.Flags) string {
	s := ""
	for _, fl := range []struct {
		flag components.Flags
		name string
	}{
		{components.FlagHead, "H"},
		{components.FlagMouth, "M"},
		{components.FlagTail, "T"},
		{components.FlagTracker, "*"},
	} {
		if f.Has(fl.flag) {
			s += fl.name
		}
	}
	if s == "" {
		return "-"
	}
	return s
}

// Inspector renders the detail panel in the top-right corner.
type Inspector struct {
	panelX, panelY int32
}

// NewInspector creates an inspector for the given screen width.
func NewInspector(screenWidth int32) *Inspector {
	ins := &Inspector{panelY: 50}
	ins.Resize(screenWidth)
	return ins
}

// Resize repositions the panel after a window resize.
func (ins *Inspector) Resize(screenWidth int32) {
	ins.panelX = screenWidth - PanelWidth - 10
}

// Draw renders d.
func (ins *Inspector) Draw(d Details) {
	height := int32(HeaderHeight + PanelPadding*2 + 18*(len(d.Rows)+1) + 16*(len(d.Segments)+1))
	x, y := ins.panelX, ins.panelY

	rl.DrawRectangle(x, y, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangle(x, y, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawRectangleLines(x, y, PanelWidth, height, ColorPanelBorder)
	rl.DrawText(d.Title, x+PanelPadding, y+6, 16, rl.White)

	x += PanelPadding
	y += HeaderHeight + PanelPadding
	y += DrawBar(x, y, "energy", d.Energy, d.MaxEnergy)
	for _, r := range d.Rows {
		y += DrawLabel(x, y, r.Name, r.Value)
	}

	rl.DrawText("seg  radius  mat   charge flags", x, y, 12, ColorTextDim)
	y += 16
	for i, s := range d.Segments {
		rl.DrawText(fmt.Sprintf("%-4d %-7.2f %-5.2f %-6.2f %s", i, s.Radius, s.Maturity, s.Charge, s.Flags), x, y, 12, ColorText)
		y += 16
	}
}
