package main

import (
	"flag"

	"github.com/proterg/RogueHeroes-sub000/internal/game"
	"github.com/proterg/RogueHeroes-sub000/internal/server"
	"github.com/proterg/RogueHeroes-sub000/pkg/logger"
)

func main() {
	var addr string
	var configPath string
	flag.StringVar(&addr, "addr", ":8080", "listen address")
	flag.StringVar(&configPath, "config", "", "battle config YAML (default: builtin setup)")
	flag.Parse()

	logger.Init()

	cfg := game.DefaultConfig()
	if configPath != "" {
		loaded, err := game.LoadConfig(configPath)
		if err != nil {
			logger.Log.WithError(err).Fatal("load config")
		}
		cfg = loaded
		logger.Log.WithField("path", configPath).Info("config loaded")
	}

	if err := server.New(cfg, addr).Run(); err != nil {
		logger.Log.WithError(err).Fatal("server stopped")
	}
}
