package main

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/phrasehunt/go-server/internal/clue"
	"github.com/phrasehunt/go-server/internal/httpserver"
	"github.com/phrasehunt/go-server/internal/phrases"
	"github.com/phrasehunt/go-server/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := openDB(getEnv("DB_PATH", "./data/phrasehunt.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	lines, err := phrases.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load phrase corpus")
	}
	supplier, err := phrases.NewSupplier(lines, httpserver.PlayedLookup(db))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build phrase supplier")
	}
	log.Info().Int("phrases", supplier.Count()).Msg("phrase corpus loaded")

	mem := store.NewMemoryStore()
	mem.StartSweeper(10*time.Minute, getEnvDuration("SESSION_TTL", 3*time.Hour))

	providerTimeout := getEnvDuration("PROVIDER_TIMEOUT", 8*time.Second)
	selector := clue.NewSelector(
		clue.NewDatamuse(providerTimeout),
		clue.NewDuckDuckGo(providerTimeout),
	)

	srv := httpserver.New(mem, db, supplier, selector)
	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting phrasehunt server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Warn().Str("key", k).Str("value", v).Msg("invalid duration, using default")
	return def
}
