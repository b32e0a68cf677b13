package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"lapmeter/input"
	"lapmeter/recording"
	"lapmeter/tracking"
	"lapmeter/types"
	"lapmeter/ui"
	"lapmeter/vision"
)

func main() {
	roiArg := flag.String("roi", "", "minimap rectangle as x,y,w,h (empty: whole frame)")
	samples := flag.Int("samples", 60, "frames sampled for path reconstruction")
	theta := flag.Float64("theta", 0.45, "frequency-voting threshold (0,1)")
	mode := flag.String("mode", "smoothed", "validation mode: smoothed or raw")
	csvPath := flag.String("csv", "positions.csv", "output CSV path (empty: no CSV)")
	lapFrames := flag.String("lap-frames", "", "comma-separated frame indices with a lap transition")
	show := flag.Bool("show", false, "display the minimap with overlay")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: lapmeter [flags] <video file or camera ID>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()

	roi, err := parseROI(*roiArg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -roi")
	}
	resets, err := parseLapFrames(*lapFrames)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid -lap-frames")
	}

	cfg := types.DefaultConfig()
	cfg.Path.FreqThreshold = *theta
	cfg.Validation.Mode = types.ValidationMode(*mode)

	source, err := input.Open(flag.Arg(0), roi)
	if err != nil {
		log.Fatal().Err(err).Msg("opening video source")
	}
	defer source.Close()

	fps := source.FPS()
	if fps <= 0 {
		fps = 30
	}

	session := tracking.NewSession(cfg)
	session.SetLogger(log)

	batch, err := source.Sample(*samples)
	if err != nil {
		log.Fatal().Err(err).Msg("sampling build frames")
	}
	if err := session.Build(batch); err != nil {
		input.CloseFrames(batch)
		log.Fatal().Err(err).Msg("path reconstruction failed")
	}
	input.CloseFrames(batch)

	var recorder *recording.Recorder
	if *csvPath != "" {
		recorder, err = recording.New(*csvPath)
		if err != nil {
			log.Fatal().Err(err).Msg("opening CSV output")
		}
		defer recorder.Close()
	}

	var window *gocv.Window
	if *show {
		window = gocv.NewWindow("lapmeter")
		defer window.Close()
	}

	frame := gocv.NewMat()
	defer frame.Close()

	frameIndex := *samples
	for source.Next(&frame) {
		if resets[frameIndex] {
			session.ResetForNewLap()
		}

		m := session.Process(frame, frameIndex, float64(frameIndex)/fps)
		if recorder != nil {
			if err := recorder.Write(m); err != nil {
				log.Error().Err(err).Int("frame", m.Frame).Msg("CSV write failed")
			}
		}

		if window != nil {
			marker, ok := vision.DetectMarker(frame, cfg.Marker)
			ui.RenderFrame(&frame, session.Path(), marker, ok, m.Position, session.Ready())
			window.IMShow(frame)
			if window.WaitKey(1) == 27 { // ESC
				break
			}
		}

		frameIndex++
	}

	log.Info().Int("frames", frameIndex-*samples).Float64("last_position", session.LastPosition()).Msg("done")
}

func parseROI(arg string) (image.Rectangle, error) {
	if arg == "" {
		return image.Rectangle{}, nil
	}
	parts := strings.Split(arg, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("want x,y,w,h, got %q", arg)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("bad value %q: %w", p, err)
		}
		vals[i] = v
	}
	return image.Rect(vals[0], vals[1], vals[0]+vals[2], vals[1]+vals[3]), nil
}

func parseLapFrames(arg string) (map[int]bool, error) {
	resets := make(map[int]bool)
	if arg == "" {
		return resets, nil
	}
	for _, p := range strings.Split(arg, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad frame index %q: %w", p, err)
		}
		resets[v] = true
	}
	return resets, nil
}
