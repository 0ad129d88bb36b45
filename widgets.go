package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const (
	charW = 7 // basicfont.Face7x13 advance
	pad   = 6
)

// toolbar buttons, right-aligned along the top edge
var (
	pauseBtn = toolbarRect(0)
	stepBtn  = toolbarRect(1)
	resetBtn = toolbarRect(2)
	quitBtn  = toolbarRect(3)
)

func toolbarRect(slot int) image.Rectangle {
	x := screenWidth - (slot+1)*(uiBtnPad+uiBtnW)
	return image.Rect(x, uiBtnPad, x+uiBtnW, uiBtnPad+uiBtnH)
}

type buttonState int

const (
	buttonIdle buttonState = iota
	buttonActive
	buttonDisabled
)

// border colors per state: normal, hovered
var buttonBorder = map[buttonState][2]color.RGBA{
	buttonIdle:     {{20, 20, 20, 200}, {90, 90, 90, 230}},
	buttonActive:   {{60, 120, 60, 220}, {100, 190, 100, 240}},
	buttonDisabled: {{60, 60, 60, 160}, {60, 60, 60, 160}},
}

var (
	buttonFace     = color.RGBA{40, 40, 40, 120}
	buttonText     = color.RGBA{240, 240, 240, 255}
	buttonTextGrey = color.RGBA{160, 160, 160, 200}
	panelBorder    = color.RGBA{10, 10, 20, 200}
	panelFace      = color.RGBA{30, 30, 40, 80}
	panelText      = color.RGBA{220, 220, 220, 255}
)

// drawBox fills r with a one pixel border straight onto dst.
func drawBox(dst *ebiten.Image, r image.Rectangle, border, face color.Color) {
	x, y := float32(r.Min.X), float32(r.Min.Y)
	w, h := float32(r.Dx()), float32(r.Dy())
	vector.DrawFilledRect(dst, x, y, w, h, border, false)
	vector.DrawFilledRect(dst, x+1, y+1, w-2, h-2, face, false)
}

func drawButton(dst *ebiten.Image, r image.Rectangle, label string, state buttonState, mouse image.Point) {
	hover := 0
	if state != buttonDisabled && mouse.In(r) {
		hover = 1
	}
	drawBox(dst, r, buttonBorder[state][hover], buttonFace)
	clr := buttonText
	if state == buttonDisabled {
		clr = buttonTextGrey
	}
	tx := r.Min.X + (r.Dx()-len(label)*charW)/2
	ty := r.Min.Y + (r.Dy()+8)/2
	text.Draw(dst, label, basicfont.Face7x13, tx, ty, clr)
}

// drawPanel renders text lines on a translucent box kept inside the window.
func drawPanel(dst *ebiten.Image, lines []string, at image.Point, lineH int) {
	longest := 0
	for _, l := range lines {
		longest = max(longest, len(l))
	}
	r := image.Rect(0, 0, longest*charW+pad*2, len(lines)*lineH+pad*2).Add(at)
	if r.Max.X > screenWidth {
		r = r.Sub(image.Pt(r.Max.X-screenWidth+8, 0))
	}
	if r.Max.Y > screenHeight {
		r = r.Sub(image.Pt(0, r.Max.Y-screenHeight+8))
	}
	drawBox(dst, r, panelBorder, panelFace)
	for i, l := range lines {
		text.Draw(dst, l, basicfont.Face7x13, r.Min.X+pad, r.Min.Y+pad+(i+1)*lineH-2, panelText)
	}
}
