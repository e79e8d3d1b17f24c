package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/proterg/RogueHeroes-sub000/internal/game"
	"github.com/proterg/RogueHeroes-sub000/internal/viewer"
)

func main() {
	var configPath string
	var seed int64
	flag.StringVar(&configPath, "config", "", "battle config YAML (default: builtin setup)")
	flag.Int64Var(&seed, "seed", 0, "RNG seed (default: time-based)")
	flag.Parse()

	cfg := game.DefaultConfig()
	if configPath != "" {
		loaded, err := game.LoadConfig(configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	v, err := viewer.New(cfg, seed)
	if err != nil {
		log.Fatal(err)
	}
	ebiten.SetWindowTitle("Rogue Heroes")
	ebiten.SetWindowSize(v.WindowSize())
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
