package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gioui.org/app"
	"github.com/esimov/impasto"
	"github.com/esimov/impasto/preview"
	"github.com/esimov/impasto/utils"
	"go.uber.org/zap"
)

const HelpBanner = `
┬┌┬┐┌─┐┌─┐┌─┐┌┬┐┌─┐
││││├─┘├─┤└─┐ │ │ │
┴┴ ┴┴  ┴ ┴└─┘ ┴ └─┘

Layered raster painting engine.
    Version: %s

`

// pipeName is the file name that indicates stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	configFile  = flag.String("config", "", "YAML configuration file")
	script      = flag.String("script", "", "YAML session script to replay")
	destination = flag.String("out", pipeName, "Destination of the composite image")
	thumbDir    = flag.String("thumbs", "", "Directory receiving the gallery thumbnails")
	width       = flag.Int("width", 0, "Canvas width (overrides the config file)")
	height      = flag.Int("height", 0, "Canvas height (overrides the config file)")
	brush       = flag.String("brush", "", "Brush kind: round, square, dashed or gradient")
	brushSize   = flag.Int("size", 0, "Brush size in pixels (1-20)")
	brushColor  = flag.String("color", "", "Brush color as hex value")
	insert      = flag.String("insert", "", "Image file or URL to place on the canvas (preview mode)")
	showPreview = flag.Bool("preview", false, "Open an interactive window")
	workers     = flag.Int("conc", 4, "Number of thumbnails written concurrently")
	verbose     = flag.Bool("v", false, "Verbose logging")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	var (
		l   *zap.Logger
		err error
	)
	if *verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer l.Sync() //nolint:errcheck

	cfg := impasto.DefaultConfig()
	if *configFile != "" {
		cfg, err = impasto.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf(utils.DecorateText("Failed to load the configuration: %v", utils.ErrorMessage), err)
		}
	}
	overrideConfig(&cfg)

	editor, err := impasto.NewEditorFromConfig(cfg, impasto.WithLogger(l))
	if err != nil {
		log.Fatalf(utils.DecorateText("Invalid configuration: %v", utils.ErrorMessage), err)
	}

	if *showPreview {
		if *script != "" {
			sc, err := impasto.LoadScript(*script)
			if err != nil {
				log.Fatalf(utils.DecorateText("Failed to load the script: %v", utils.ErrorMessage), err)
			}
			if err := impasto.Replay(editor, sc); err != nil {
				log.Fatalf(utils.DecorateText("Failed to replay the script: %v", utils.ErrorMessage), err)
			}
		}
		gui := preview.NewGUI(editor, l)
		if *insert != "" {
			gui.Insert(*insert)
		}
		go func() {
			if err := gui.Run(); err != nil {
				log.Fatalf(utils.DecorateText("Preview window error: %v", utils.ErrorMessage), err)
			}
			if *destination != pipeName {
				exec(editor, "")
			}
			os.Exit(0)
		}()
		app.Main()
		return
	}

	if *script == "" {
		flag.Usage()
		log.Fatal(utils.DecorateText("\nPlease provide a session script with -script or use -preview.", utils.ErrorMessage))
	}
	exec(editor, *script)
}

// exec replays the script, if any, and exports the result.
func exec(editor *impasto.Editor, script string) {
	op := &impasto.Ops{
		Script:   script,
		Dst:      *destination,
		PipeName: pipeName,
		ThumbDir: *thumbDir,
		Workers:  *workers,
	}
	if err := editor.Execute(op); err != nil {
		log.Fatalf(
			utils.DecorateText("\nError running the session: %s", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}
}

// overrideConfig applies the flags given on the command line over the configuration file values.
func overrideConfig(cfg *impasto.Config) {
	if *width > 0 {
		cfg.Width = *width
	}
	if *height > 0 {
		cfg.Height = *height
	}
	if *brush != "" {
		cfg.Brush.Kind = *brush
	}
	if *brushSize > 0 {
		cfg.Brush.Size = *brushSize
	}
	if *brushColor != "" {
		cfg.Brush.Color = *brushColor
	}
}
