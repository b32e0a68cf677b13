// Package ui draws the diagnostic overlay: reconstructed route, start
// anchor, detected marker and current lap percentage on the displayed
// minimap crop.
package ui

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"gocv.io/x/gocv"

	"lapmeter/track"
)

var (
	Blue   = color.RGBA{B: 255}
	Red    = color.RGBA{R: 255}
	Green  = color.RGBA{G: 255}
	Yellow = color.RGBA{R: 255, G: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255}
)

// DrawRoute draws the reconstructed path polyline and its start anchor.
func DrawRoute(frame *gocv.Mat, p *track.Path) {
	if p == nil || p.Len() < 2 {
		return
	}

	n := p.Len()
	for i := 0; i < n; i++ {
		_ = gocv.Line(frame, p.Points[i], p.Points[(i+1)%n], Green, 1)
	}

	anchor := p.Points[p.StartIndex]
	_ = gocv.Circle(frame, anchor, 4, Yellow, 2)
}

// DrawMarker marks the detected car position.
func DrawMarker(frame *gocv.Mat, pt image.Point) {
	_ = gocv.Circle(frame, pt, 5, Blue, 2)
}

// DrawPosition writes the current lap percentage in the top-left corner.
func DrawPosition(frame *gocv.Mat, pos float64, ready bool) {
	text := fmt.Sprintf("lap %5.1f%%", pos)
	textColor := Green
	if !ready {
		text = "building path..."
		textColor = Red
	}

	if err := gocv.PutText(frame, text, image.Pt(6, 16), gocv.FontHersheyPlain, 1.0, textColor, 1); err != nil {
		log.Printf("Error adding position text: %v", err)
	}
}

// RenderFrame draws the full overlay for one frame.
func RenderFrame(frame *gocv.Mat, p *track.Path, marker image.Point, markerOK bool, pos float64, ready bool) {
	DrawRoute(frame, p)
	if markerOK {
		DrawMarker(frame, marker)
	}
	DrawPosition(frame, pos, ready)
}
