// Package input supplies minimap crops from a video file or capture
// device. It is the frame-source collaborator in front of the tracking
// engine; the engine itself never touches video I/O.
package input

import (
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"
)

// Source reads frames from a capture device and crops the minimap region
// out of each one. The crop rectangle must stay pixel-stable across the
// session; the engine assumes a fixed minimap layout.
type Source struct {
	capture *gocv.VideoCapture
	roi     image.Rectangle
	full    gocv.Mat
}

// Open opens a video file when device names an existing file, otherwise a
// camera by numeric ID. roi is the minimap rectangle inside the full
// frame; a zero rectangle means the whole frame is the minimap.
func Open(device string, roi image.Rectangle) (*Source, error) {
	var capture *gocv.VideoCapture
	var err error
	if _, statErr := os.Stat(device); statErr == nil {
		capture, err = gocv.VideoCaptureFile(device)
	} else {
		capture, err = gocv.VideoCaptureDevice(parseCameraID(device))
	}
	if err != nil {
		return nil, fmt.Errorf("input: opening %q: %w", device, err)
	}

	return &Source{
		capture: capture,
		roi:     roi,
		full:    gocv.NewMat(),
	}, nil
}

func parseCameraID(arg string) int {
	var id int
	fmt.Sscanf(arg, "%d", &id)
	return id
}

// FPS returns the capture frame rate, or 0 when unknown.
func (s *Source) FPS() float64 {
	return s.capture.Get(gocv.VideoCaptureFPS)
}

// Next reads one frame and writes the minimap crop into dst. It returns
// false at end of stream.
func (s *Source) Next(dst *gocv.Mat) bool {
	if ok := s.capture.Read(&s.full); !ok || s.full.Empty() {
		return false
	}
	s.cropInto(dst)
	return true
}

func (s *Source) cropInto(dst *gocv.Mat) {
	if s.roi.Empty() {
		s.full.CopyTo(dst)
		return
	}
	bounds := image.Rect(0, 0, s.full.Cols(), s.full.Rows())
	region := s.full.Region(s.roi.Intersect(bounds))
	region.CopyTo(dst)
	region.Close()
}

// Sample reads up to n frames and returns their minimap crops, for the
// path-build batch. The caller owns the Mats; close them with CloseFrames.
func (s *Source) Sample(n int) ([]gocv.Mat, error) {
	frames := make([]gocv.Mat, 0, n)
	for len(frames) < n {
		crop := gocv.NewMat()
		if !s.Next(&crop) {
			crop.Close()
			break
		}
		frames = append(frames, crop)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("input: no frames readable from source")
	}
	return frames, nil
}

// CloseFrames releases a batch returned by Sample.
func CloseFrames(frames []gocv.Mat) {
	for i := range frames {
		frames[i].Close()
	}
}

// Close releases the capture device.
func (s *Source) Close() error {
	s.full.Close()
	return s.capture.Close()
}
