// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package illustrate

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/pdiddy/deepdive/pkg/types"
)

const (
	canvasWidth  = 800
	canvasHeight = 600
)

var (
	ink   = color.Gray{Y: 0}
	paper = color.Gray{Y: 255}
	faint = color.Gray{Y: 200}
)

// HeuristicRenderer draws a stick figure with a thought bubble locally.
// The bubble contents vary with a hash of the concept so different
// concepts yield different images, and the same concept always yields the
// same bytes.
type HeuristicRenderer struct{}

func (HeuristicRenderer) Render(_ context.Context, concept string) (types.Illustration, error) {
	payload, err := encode(drawCartoon(concept))
	if err != nil {
		return types.Illustration{}, err
	}
	return types.Illustration{
		Concept:     concept,
		Payload:     payload,
		Description: Description(concept),
		Method:      types.MethodHeuristicRender,
	}, nil
}

// Placeholder returns a framed blank-faced figure used when rendering fails.
func Placeholder(concept string, cause error) types.Illustration {
	img := newCanvas()
	rect(img, 20, 20, canvasWidth-20, canvasHeight-20, faint, 3)
	stickFigure(img, canvasWidth/2, canvasHeight/2+60, 1.2, false)

	ill := types.Illustration{
		Concept:     concept,
		Description: "Placeholder cartoon for: " + concept,
		Method:      types.MethodPlaceholder,
	}
	if cause != nil {
		ill.Error = cause.Error()
	}
	// png.Encode into a bytes.Buffer does not fail for a valid canvas.
	ill.Payload, _ = encode(img)
	return ill
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

func newCanvas() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, canvasWidth, canvasHeight))
	for i := range img.Pix {
		img.Pix[i] = paper.Y
	}
	return img
}

func drawCartoon(concept string) *image.Gray {
	img := newCanvas()
	stickFigure(img, 240, 420, 1.0, true)

	// Thought bubble trail leading from the figure's head.
	circle(img, 320, 300, 10, ink, 2)
	circle(img, 350, 260, 16, ink, 2)

	// Main bubble.
	bx0, by0, bx1, by1 := 380, 80, 740, 260
	roundedRect(img, bx0, by0, bx1, by1, 30, ink, 3)

	// Bubble contents: a row of bars whose heights come from the concept hash.
	h := fnv.New64a()
	h.Write([]byte(concept))
	seed := h.Sum64()
	bars := 4 + int(seed%4)
	width := (bx1 - bx0 - 80) / bars
	for i := 0; i < bars; i++ {
		height := 30 + int((seed>>(uint(i)*6))%100)
		x := bx0 + 40 + i*width
		rect(img, x, by1-30-height, x+width-12, by1-30, ink, 2)
	}
	return img
}

// stickFigure draws a figure whose feet rest at (x, y).
func stickFigure(img *image.Gray, x, y int, scale float64, smile bool) {
	s := func(v float64) int { return int(math.Round(v * scale)) }

	headY := y - s(230)
	circle(img, x, headY, s(40), ink, 3)
	line(img, x, headY+s(40), x, y-s(80), ink, 3)           // body
	line(img, x-s(70), y-s(140), x+s(70), y-s(140), ink, 3) // arms
	line(img, x, y-s(80), x-s(45), y, ink, 3)               // left leg
	line(img, x, y-s(80), x+s(45), y, ink, 3)               // right leg

	line(img, x-s(14), headY-s(14), x-s(14), headY, ink, 2)
	line(img, x+s(14), headY-s(14), x+s(14), headY, ink, 2)
	if smile {
		arc(img, x, headY+s(4), s(20), 0.2*math.Pi, 0.8*math.Pi, ink, 2)
	} else {
		line(img, x-s(14), headY+s(18), x+s(14), headY+s(18), ink, 2)
	}
}

func dot(img *image.Gray, x, y, thickness int, c color.Gray) {
	r := thickness / 2
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			img.SetGray(x+dx, y+dy, c)
		}
	}
}

// line draws a segment with Bresenham's algorithm.
func line(img *image.Gray, x0, y0, x1, y1 int, c color.Gray, thickness int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		dot(img, x0, y0, thickness, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func arc(img *image.Gray, cx, cy, r int, from, to float64, c color.Gray, thickness int) {
	steps := max(8, r*4)
	for i := 0; i <= steps; i++ {
		t := from + (to-from)*float64(i)/float64(steps)
		x := cx + int(math.Round(float64(r)*math.Cos(t)))
		y := cy + int(math.Round(float64(r)*math.Sin(t)))
		dot(img, x, y, thickness, c)
	}
}

func circle(img *image.Gray, cx, cy, r int, c color.Gray, thickness int) {
	arc(img, cx, cy, r, 0, 2*math.Pi, c, thickness)
}

func rect(img *image.Gray, x0, y0, x1, y1 int, c color.Gray, thickness int) {
	line(img, x0, y0, x1, y0, c, thickness)
	line(img, x1, y0, x1, y1, c, thickness)
	line(img, x1, y1, x0, y1, c, thickness)
	line(img, x0, y1, x0, y0, c, thickness)
}

func roundedRect(img *image.Gray, x0, y0, x1, y1, r int, c color.Gray, thickness int) {
	line(img, x0+r, y0, x1-r, y0, c, thickness)
	line(img, x0+r, y1, x1-r, y1, c, thickness)
	line(img, x0, y0+r, x0, y1-r, c, thickness)
	line(img, x1, y0+r, x1, y1-r, c, thickness)
	arc(img, x0+r, y0+r, r, math.Pi, 1.5*math.Pi, c, thickness)
	arc(img, x1-r, y0+r, r, 1.5*math.Pi, 2*math.Pi, c, thickness)
	arc(img, x1-r, y1-r, r, 0, 0.5*math.Pi, c, thickness)
	arc(img, x0+r, y1-r, r, 0.5*math.Pi, math.Pi, c, thickness)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
