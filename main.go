// main.go
//
// Entry point: loads env, opens the history database, wires the judge
// client, asset pipeline, and game engine, then serves HTTP.

package main

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bribethescale/go-server/internal/assets"
	"github.com/bribethescale/go-server/internal/game"
	"github.com/bribethescale/go-server/internal/history"
	"github.com/bribethescale/go-server/internal/httpserver"
	"github.com/bribethescale/go-server/internal/judge"
)

// serverConfig covers everything outside the game rules.
type serverConfig struct {
	Port       string `env:"PORT" envDefault:"5175"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	DBPath     string `env:"DB_PATH" envDefault:"./data/app.db"`
	OpenAIKey  string `env:"OPENAI_API_KEY"`
	ImageModel string `env:"IMAGE_MODEL" envDefault:"gpt-image-1.5"`
}

func main() {
	_ = godotenv.Load()

	var srvCfg serverConfig
	if err := env.Parse(&srvCfg); err != nil {
		log.Fatal().Err(err).Msg("parse server config")
	}
	if lvl, err := zerolog.ParseLevel(srvCfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	var gameCfg game.Config
	if err := env.Parse(&gameCfg); err != nil {
		log.Fatal().Err(err).Msg("parse game config")
	}

	if srvCfg.OpenAIKey == "" {
		// Older deployments exported OPENAI_KEY.
		srvCfg.OpenAIKey = os.Getenv("OPENAI_KEY")
	}
	if srvCfg.OpenAIKey == "" {
		log.Fatal().Msg("OPENAI_API_KEY is required")
	}

	db, err := openDB(srvCfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	judgeClient, err := judge.NewOpenAI(judge.OpenAIConfig{
		APIKey: srvCfg.OpenAIKey,
		Model:  gameCfg.JudgeModel,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build judge client")
	}

	imageGen, err := assets.NewOpenAIImageGenerator(assets.OpenAIImageConfig{
		APIKey: srvCfg.OpenAIKey,
		Model:  srvCfg.ImageModel,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build image generator")
	}
	pipeline, err := assets.NewPipeline(".", imageGen)
	if err != nil {
		log.Fatal().Err(err).Msg("build asset pipeline")
	}

	engine, err := game.New(gameCfg, judgeClient, pipeline)
	if err != nil {
		log.Fatal().Err(err).Msg("build engine")
	}

	srv := httpserver.New(engine, history.NewStore(db), ".")
	log.Info().Str("port", srvCfg.Port).Msg("starting go-server")
	if err := srv.Start(":" + srvCfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
