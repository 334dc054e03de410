package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"

	"LocalFlipbook/internal/config"
	"LocalFlipbook/internal/export"
	"LocalFlipbook/internal/logging"
	"LocalFlipbook/internal/mirror"
	"LocalFlipbook/internal/state"
	"LocalFlipbook/internal/ui"
)

func main() {
	configPath := flag.String("config", "flipbook.yaml", "path to the YAML configuration")
	mirrorFlag := flag.Bool("mirror", false, "share the current page read-only on the LAN")
	find := flag.Bool("find", false, "list flipbook mirrors on the LAN and exit")
	flag.Parse()

	if *find {
		err := mirror.Browse(func(addr string) { fmt.Println(addr) })
		if err != nil {
			log.Fatalf("Browse failed: %v", err)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *mirrorFlag {
		cfg.Mirror.Enabled = true
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	logging.SetLogger(logger)

	book, err := state.NewBook(cfg.Canvas)
	if err != nil {
		log.Fatalf("Failed to create flipbook: %v", err)
	}

	title := "LocalFlipbook"
	var onChange func(*state.Page, state.Change)
	if cfg.Mirror.Enabled {
		m, err := mirror.Start(cfg.Mirror)
		if err != nil {
			log.Fatalf("Failed to start mirror: %v", err)
		}
		defer m.Close()
		title = fmt.Sprintf("LocalFlipbook (mirror: %s)", m.URL)
		onChange = publisher(m.Hub)
		onChange(book.Current(), state.ChangeCommit)
	}

	ui.RunApp(book, title, onChange)
}

// publisher sends a PNG of the current page to viewers after every
// committed change. Encoding runs on its own goroutine; when it falls behind
// only the newest frame is kept.
func publisher(hub *mirror.Hub) func(*state.Page, state.Change) {
	frames := make(chan *image.RGBA, 1)
	go func() {
		for frame := range frames {
			var buf bytes.Buffer
			if err := export.EncodePNG(&buf, frame); err != nil {
				logging.Logger().Warn("mirror frame encoding failed", "error", err)
				continue
			}
			hub.Publish(buf.Bytes())
		}
	}()

	return func(p *state.Page, c state.Change) {
		if c != state.ChangeCommit {
			return
		}
		frame := p.ExportCurrentImage()
		select {
		case frames <- frame:
		default:
			select {
			case <-frames:
			default:
			}
			frames <- frame
		}
	}
}
