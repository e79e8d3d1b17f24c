package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/proterg/RogueHeroes-sub000/internal/game"
)

type runStats struct {
	runIndex int
	seed     int64

	winner game.Side
	ticks  int

	attacks      int
	crits        int
	blockedShots int
	totalDamage  int
	deaths       int

	firstBloodTick  int
	playerSurvivors int
	enemySurvivors  int
}

func main() {
	var runs int
	var seedBase int64
	var seedStep int64
	var configPath string
	var exhibition bool

	flag.IntVar(&runs, "runs", 5, "number of headless battle runs")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&configPath, "config", "", "battle config YAML (default: builtin setup)")
	flag.BoolVar(&exhibition, "exhibition", false, "skip deployment, field one of everything per side")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	cfg := game.DefaultConfig()
	if configPath != "" {
		loaded, err := game.LoadConfig(configPath)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	fmt.Printf("=== Headless Battle Report ===\n")
	fmt.Printf("runs=%d seed_base=%d seed_step=%d exhibition=%v\n\n", runs, seedBase, seedStep, exhibition)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, err := runBattle(i+1, seed, cfg, exhibition)
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			os.Exit(1)
		}
		all = append(all, stats)
		printRun(stats)
	}
	printAggregate(all)
}

func runBattle(index int, seed int64, cfg *game.Config, exhibition bool) (runStats, error) {
	var b *game.Battle
	var err error
	if exhibition {
		b, err = game.NewExhibition(cfg, seed)
	} else {
		b, err = game.NewBattle(cfg, seed)
	}
	if err != nil {
		return runStats{}, err
	}

	for b.Status != game.StatusEnded {
		if b.Status == game.StatusDeploying {
			if err := b.AutoDeploy(); err != nil {
				return runStats{}, err
			}
			continue
		}
		b.Step()
	}

	stats := runStats{runIndex: index, seed: seed, winner: b.Winner, ticks: b.Tick, firstBloodTick: -1}
	for _, a := range b.Events.Attacks() {
		stats.attacks++
		stats.totalDamage += a.Damage
		if a.Crit {
			stats.crits++
		}
		if a.Damage == 0 {
			stats.blockedShots++
		}
	}
	for _, d := range b.Events.Deaths() {
		stats.deaths++
		if stats.firstBloodTick < 0 {
			stats.firstBloodTick = d.Tick
		}
	}
	for _, u := range b.Units {
		if !u.Alive() {
			continue
		}
		if u.Side == game.SidePlayer {
			stats.playerSurvivors++
		} else {
			stats.enemySurvivors++
		}
	}
	return stats, nil
}

func printRun(s runStats) {
	fmt.Printf("--- run %d (seed %d) ---\n", s.runIndex, s.seed)
	fmt.Printf("  winner=%s ticks=%d survivors=%d/%d\n", s.winner, s.ticks, s.playerSurvivors, s.enemySurvivors)
	fmt.Printf("  attacks=%d crits=%d blocked=%d damage=%d deaths=%d", s.attacks, s.crits, s.blockedShots, s.totalDamage, s.deaths)
	if s.firstBloodTick >= 0 {
		fmt.Printf(" first_blood=t%d", s.firstBloodTick)
	}
	fmt.Printf("\n\n")
}

func printAggregate(all []runStats) {
	var playerWins, enemyWins, draws int
	var ticks, damage, attacks int
	for _, s := range all {
		switch s.winner {
		case game.SidePlayer:
			playerWins++
		case game.SideEnemy:
			enemyWins++
		default:
			draws++
		}
		ticks += s.ticks
		damage += s.totalDamage
		attacks += s.attacks
	}
	n := len(all)
	fmt.Printf("=== Aggregate (%d runs) ===\n", n)
	fmt.Printf("player_wins=%d enemy_wins=%d draws=%d\n", playerWins, enemyWins, draws)
	fmt.Printf("avg_ticks=%.1f avg_attacks=%.1f avg_damage=%.1f\n",
		float64(ticks)/float64(n), float64(attacks)/float64(n), float64(damage)/float64(n))
}
