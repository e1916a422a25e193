package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/herding/assets"
	"github.com/robalobadob/herding/internal/auth"
	"github.com/robalobadob/herding/internal/config"
	"github.com/robalobadob/herding/internal/daily"
	"github.com/robalobadob/herding/internal/httpserver"
	"github.com/robalobadob/herding/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer db.Close()
	if err := migrate(db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	srv := httpserver.New(cfg, store.NewMemoryStore(), auth.NewUsers(db), daily.NewStore(db))
	srv.StartJanitor(context.Background(), time.Minute, cfg.SessionIdle)
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting herding server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
