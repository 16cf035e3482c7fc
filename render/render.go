// Package render draws the departures list into a fixed-size monochrome
// frame for the display sink. Layout only; it never reorders or re-caps the
// records it is given.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/theoremus-urban-solutions/departures-board/departures"
)

// Board renders departure frames of a fixed size.
type Board struct {
	Width       int
	Height      int
	Title       string
	UpdateEvery time.Duration
}

const (
	margin     = 20
	headerY    = 34
	ruleY      = 48
	rowHeight  = 30
	circleR    = 10
	footerGap  = 40
	timeColumn = 110 // distance of the minutes column from the right edge
)

// Render draws one frame. haveData distinguishes "no imminent departures"
// (a valid empty board) from "no usable schedule data" after a failed load.
func (b Board) Render(recs []departures.Record, now time.Time, haveData bool) image.Image {
	w, h := b.Width, b.Height
	if w <= 0 {
		w = 800
	}
	if h <= 0 {
		h = 480
	}
	img := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	drawText(img, margin, headerY, b.Title)
	drawText(img, w-margin-textWidth(now.Format("15:04")), headerY, now.Format("15:04"))
	drawHLine(img, margin, w-margin, ruleY)

	switch {
	case !haveData:
		drawText(img, margin, ruleY+rowHeight, "schedule data unavailable")
	case len(recs) == 0:
		drawText(img, margin, ruleY+rowHeight, "no departures expected")
	default:
		b.drawRows(img, recs, w, h)
	}

	drawHLine(img, margin, w-margin, h-footerGap)
	if b.UpdateEvery > 0 {
		drawText(img, margin, h-footerGap+20, fmt.Sprintf("updated every %s", b.UpdateEvery))
	}
	return img
}

func (b Board) drawRows(img *image.Gray, recs []departures.Record, w, h int) {
	y := ruleY + rowHeight
	lastDirection := ""
	for _, r := range recs {
		if y > h-footerGap-rowHeight {
			break
		}
		if r.Direction != "" && r.Direction != lastDirection {
			drawText(img, margin, y, r.Direction)
			lastDirection = r.Direction
			y += rowHeight
			if y > h-footerGap-rowHeight {
				break
			}
		}
		cx := margin + circleR
		cy := y - 4
		drawCircle(img, cx, cy, circleR)
		drawText(img, cx-textWidth(r.Line)/2, cy+4, r.Line)
		drawText(img, margin+3*circleR+10, y, r.Destination)
		drawText(img, w-timeColumn, y, minutesText(r.Minutes))
		y += rowHeight
	}
}

func minutesText(minutes int) string {
	switch minutes {
	case 0:
		return "due"
	case 1:
		return "1 min"
	default:
		return fmt.Sprintf("%d min", minutes)
	}
}

func drawText(img draw.Image, x, y int, s string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func textWidth(s string) int {
	d := font.Drawer{Face: basicfont.Face7x13}
	return d.MeasureString(s).Ceil()
}

func drawHLine(img *image.Gray, x0, x1, y int) {
	for x := x0; x <= x1; x++ {
		img.SetGray(x, y, color.Gray{})
	}
}

// drawCircle draws an outline circle with a one pixel pen.
func drawCircle(img *image.Gray, cx, cy, r int) {
	for x := cx - r - 1; x <= cx+r+1; x++ {
		for y := cy - r - 1; y <= cy+r+1; y++ {
			dx, dy := x-cx, y-cy
			d2 := dx*dx + dy*dy
			if d2 >= (r-1)*(r-1) && d2 <= (r+1)*(r+1) {
				img.SetGray(x, y, color.Gray{})
			}
		}
	}
}
