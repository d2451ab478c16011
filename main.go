// main.go
//
// Entry point for the Hangman game server.
// Responsibilities:
//   - Load .env and parse configuration.
//   - Configure the global zerolog logger.
//   - Load the word catalog, build the game and run its frame loop.
//   - Serve the presenter bridge and shut everything down on SIGINT/SIGTERM.

package main

import (
	"context"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/audio"
	"github.com/robalobadob/hangman/internal/config"
	"github.com/robalobadob/hangman/internal/engine"
	"github.com/robalobadob/hangman/internal/fx"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/httpserver"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word catalog")
	}
	categories, tiers, total := cat.Stats()
	log.Info().Int("categories", categories).Int("tiers", tiers).Int("words", total).Msg("word catalog loaded")

	seed1, seed2 := cfg.Seed(time.Now())
	rng := rand.New(rand.NewPCG(seed1, seed2))

	g, err := engine.New(cat, rng, engine.Options{
		Rules: game.Rules{
			MaxPenalties:    cfg.MaxPenalties,
			WrongLetterCost: cfg.WrongLetterCost,
			HintCost:        cfg.HintCost,
		},
		Bounds:       fx.Bounds{Width: cfg.ScreenWidth, Height: cfg.ScreenHeight},
		PoolSize:     cfg.PoolSize,
		Player:       audio.LogPlayer{},
		SoundEnabled: cfg.SoundEnabled,
		Volume:       cfg.MusicVolume,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start game")
	}

	loop := engine.NewLoop(g, cfg.TickInterval())
	loopCtx, stopLoop := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = loop.Run(loopCtx)
	}()

	srv := httpserver.New(loop, httpserver.Options{
		ClientOrigin: cfg.ClientOrigin,
		Secret:       cfg.PresenterSecret,
		TokenTTL:     cfg.PresenterTTL(),
		Catalog:      cat,
	})
	go func() {
		log.Info().Str("addr", cfg.Addr()).Int("fps", cfg.FPS).Msg("starting hangman server")
		if err := srv.Start(cfg.Addr()); err != nil {
			log.Error().Err(err).Msg("server exited")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	// stopping the loop closes every open stream
	stopLoop()
	<-loopDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server stopped")
}

// setupLogging applies LOG_LEVEL and LOG_FORMAT to the global logger.
func setupLogging(cfg *config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
