package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/tinybot-ca/cosy-restaurant/internal/config"
	"github.com/tinybot-ca/cosy-restaurant/internal/engine"
	"github.com/tinybot-ca/cosy-restaurant/internal/logger"
	"github.com/tinybot-ca/cosy-restaurant/internal/models"
	"github.com/tinybot-ca/cosy-restaurant/internal/sim"
)

const sessions = 5

// Plays several scripted sessions back to back on one engine, with players
// of varying skill, and prints the star ratings they earned.
func main() {
	cfg, err := config.Load(os.Getenv("CAFE_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	settings, err := cfg.Settings()
	if err != nil {
		log.Fatalf("Failed to build settings: %v", err)
	}
	catalog, err := models.DefaultCatalog()
	if cfg.Catalog != "" {
		catalog, err = models.LoadCatalog(cfg.Catalog)
	}
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	seed, err := cfg.ResolveSeed()
	if err != nil {
		log.Fatalf("Failed to pick a seed: %v", err)
	}

	clock := sim.NewClock(time.Now())
	eng, err := engine.NewEngine(settings, catalog,
		engine.WithRand(rand.New(rand.NewSource(seed))),
		engine.WithClock(clock.Now),
		engine.WithLogger(logger.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)),
	)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	fmt.Printf("Seed: %d\n\n", seed)
	for i := 1; i <= sessions; i++ {
		fmt.Printf("=== Session %d ===\n", i)

		sc := sim.DefaultScript()
		sc.WrongPlates = i % 3
		sc.Misses = []int{i % 2, (i + 1) % 4, 0}
		sc.Think = time.Duration(i) * time.Second

		sum, err := sim.Run(eng, clock, sc, os.Stdout)
		if err != nil {
			fmt.Printf("Error running session: %v\n", err)
			break
		}
		fmt.Printf("Session %s: %d stars\n\n", sum.SessionID, sum.Stars)
		eng.Reset()
	}
}
