package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-dotstar/internal/config"
	diag "github.com/coreman2200/funtimes-dotstar/internal/diagnostics"
	"github.com/coreman2200/funtimes-dotstar/internal/ws"
	"github.com/coreman2200/funtimes-dotstar/model"
	"github.com/coreman2200/funtimes-dotstar/spi"
)

func main() {
	def := config.Default()

	// ---- Flags (config.yaml overrides non-zero fields) ----
	var (
		pixels     = flag.Int("pixels", def.Pixels, "LEDs on the strip")
		brightness = flag.Int("brightness", def.Brightness, "global brightness 0..31")
		colorOrder = flag.String("color", def.ColorOrder, "LED color order (e.g. RGB, BGR)")
		fps        = flag.Int("fps", def.FPS, "target frames per second")
		effect     = flag.String("effect", def.Effect, "effect started at boot (empty for none)")
		driver     = flag.String("driver", def.Driver, "driver: spi | sim | none")
		spiDev     = flag.String("spi-dev", def.SPI.Dev, "SPI device")
		speedHz    = flag.Int64("spi-speed", def.SPI.SpeedHz, "SPI clock in Hz")
		addr       = flag.String("addr", def.Addr, "HTTP listen address")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		logLevel   = flag.String("log-level", "info", "debug | info | warn | error")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	if lvl, err := zerolog.ParseLevel(*logLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", *logLevel).Msg("unknown log level; using info")
	}

	cfg := config.Config{
		Driver:     *driver,
		Pixels:     *pixels,
		Brightness: *brightness,
		ColorOrder: *colorOrder,
		FPS:        *fps,
		Effect:     *effect,
		Addr:       *addr,
		SPI:        config.SPI{Dev: *spiDev, SpeedHz: *speedHz},
	}
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	} else {
		cfg.Merge(c)
	}
	if cfg.Pixels < 0 {
		log.Warn().Int("pixels", cfg.Pixels).Msg("negative pixel count; using 0")
		cfg.Pixels = 0
	}
	if _, ok := model.ParseOrder(cfg.ColorOrder); !ok {
		log.Warn().Str("color", cfg.ColorOrder).Str("using", model.DefaultOrder.String()).Msg("invalid color order")
	}

	// ---- Driver selection ----
	drv, active, fallbackErr := openDriver(&cfg)

	state := ws.NewState(cfg, drv, active)
	state.ConfigPath = *configPath
	if fallbackErr != nil {
		state.Diagnose(diag.DriverFallback(cfg.Driver, active, fallbackErr))
	}

	// ---- HTTP routes ----
	mux := http.NewServeMux()
	state.Routes(mux)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      withCORS(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- Run render loop & server ----
	loop := &spi.Looper{FPS: cfg.FPS, Tick: state.Tick}
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("driver", active).Int("pixels", cfg.Pixels).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	// ---- Graceful shutdown ----
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	<-done

	// Leave the strip dark.
	state.Strip(func(s *model.PixelStrip) {
		s.ClearStrip()
		if err := s.Show(); err != nil {
			log.Warn().Err(err).Msg("final clear failed")
		}
	})
	if err := drv.Close(); err != nil {
		log.Warn().Err(err).Msg("driver close")
	}
	log.Info().Uint64("frames", loop.Frames()).Uint64("errors", loop.Errors()).Msg("bye")
}

// openDriver returns the driver for cfg.Driver, the name of the driver
// actually opened, and the error that forced a fallback, if any.
func openDriver(cfg *config.Config) (spi.Driver, string, error) {
	switch cfg.Driver {
	case "sim":
		return spi.NewConsole(cfg.Pixels, orderOf(cfg)), "sim", nil

	case "none":
		return spi.Discard{}, "none", nil

	case "spi":
		drv, err := spi.Open(cfg.SPI.Dev, cfg.SPI.SpeedHz)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "spi").
				Str("dev", cfg.SPI.Dev).
				Int64("speed_hz", cfg.SPI.SpeedHz).
				Msg("SPI init failed; falling back to SIM")
			return spi.NewConsole(cfg.Pixels, orderOf(cfg)), "sim", err
		}
		log.Info().Str("port", drv.String()).Msg("SPI open")
		return drv, "spi", nil

	default:
		log.Warn().Str("driver", cfg.Driver).Msg("unknown driver; using SIM")
		return spi.NewConsole(cfg.Pixels, orderOf(cfg)), "sim", nil
	}
}

func orderOf(cfg *config.Config) model.Order {
	o, _ := model.ParseOrder(cfg.ColorOrder)
	return o
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
