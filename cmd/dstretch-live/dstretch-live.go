package main

import(
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"dstretch-live/pkg/camera"
	"dstretch-live/pkg/dstretch"
	"dstretch-live/pkg/render"
)

var(
	fVerbosity int
	fConfigFile string
	fDecor float64
	fPost string
	fZoom float64
	fSource string
	fOutputWidth int
	fOutputHeight int
	fRefreshHz int
	fSampleBudget int
	fCaptureAfter time.Duration
	fCaptureFile string
	fOutputDir string
)

func init() {
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.StringVar(&fConfigFile, "config", "", "yaml config file (flags override it)")

	flag.Float64Var(&fDecor, "decor", 0.15, "decorrelation stretch strength (target stddev, 0.0->1.0); 0 disables")
	flag.StringVar(&fPost, "post", "", "post transform: none, saturate:<s>, tint:<#rrggbb>")
	flag.Float64Var(&fZoom, "zoom", 0, "center-crop fraction (0.0->1.0); 0 means fit whole frame")

	flag.StringVar(&fSource, "src", "", "camera source: device index, /dev/video path, URL, or a directory of stills")
	flag.IntVar(&fOutputWidth, "width", 0, "output width in pixels")
	flag.IntVar(&fOutputHeight, "height", 0, "output height in pixels")
	flag.IntVar(&fRefreshHz, "hz", 0, "render tick rate")
	flag.IntVar(&fSampleBudget, "samples", 0, "pixels sampled per frame for the statistics")

	flag.DurationVar(&fCaptureAfter, "captureafter", 0, "grab a still this long after startup (e.g. 5s)")
	flag.StringVar(&fCaptureFile, "capturefile", "dstretch.png", "filename for the captured still")
	flag.StringVar(&fOutputDir, "outdir", ".", "where captured stills land")
	flag.Parse()
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	if fVerbosity == 0 {
		log = log.Level(zerolog.InfoLevel)
	} else {
		log = log.Level(zerolog.DebugLevel)
	}

	cfg := loadConfig(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	surface := render.NewSoftware(cfg.OutputWidth, cfg.OutputHeight, log)
	exporter := render.FileExporter{Dir: fOutputDir, Log: log}

	pipe, err := dstretch.New(surface, exporter, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline setup failed")
	}

	dev, err := camera.Open(cfg.Camera, log)
	if err != nil {
		log.Fatal().Err(err).Msg("camera setup failed")
	}
	defer dev.Close()

	go func() {
		if err := dev.Start(ctx, pipe.Deliver); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("camera stopped")
			stop()
		}
	}()

	if fCaptureAfter > 0 {
		time.AfterFunc(fCaptureAfter, func() {
			pipe.Capture(fCaptureFile, mimeFor(fCaptureFile))
		})
	}

	if cfg.Verbosity > 0 {
		log.Info().Msgf("Final configuration:-\n\n%s", cfg.AsYaml())
	}

	pipe.Run(ctx)

	if cfg.Verbosity > 1 {
		render.DumpAnnotated(surface.Image(), "final frame", "dstretch-debug.png")
	}
}

func loadConfig(log zerolog.Logger) dstretch.Config {
	cfg := dstretch.NewConfig()
	if fConfigFile != "" {
		var err error
		if cfg, err = dstretch.NewConfigFromYamlFile(fConfigFile); err != nil {
			log.Fatal().Err(err).Msg("config load failed")
		}
	}

	// Flags only override when explicitly set, so yaml values survive.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "decor": cfg.Decor = fDecor
		case "post": cfg.Post = fPost
		case "zoom": cfg.Zoom = fZoom
		case "src": cfg.Camera.Source = fSource
		case "width": cfg.OutputWidth = fOutputWidth
		case "height": cfg.OutputHeight = fOutputHeight
		case "hz": cfg.RefreshHz = fRefreshHz
		case "samples": cfg.SampleBudget = fSampleBudget
		case "v": cfg.Verbosity = fVerbosity
		}
	})

	return cfg
}

func mimeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".tif", ".tiff":
		return "image/tiff"
	case ".hdr":
		return "image/vnd.radiance"
	}
	return "image/png"
}
