package main

import (
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"

	"github.com/DevelopmentCats/meowventure/internal/ai"
	"github.com/DevelopmentCats/meowventure/internal/api"
	"github.com/DevelopmentCats/meowventure/internal/arena"
	"github.com/DevelopmentCats/meowventure/internal/constants"
	"github.com/DevelopmentCats/meowventure/internal/gacha"
	"github.com/DevelopmentCats/meowventure/internal/logging"
	"github.com/DevelopmentCats/meowventure/internal/roster"
)

const staleBattleAge = 30 * time.Minute

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	catalogPath := os.Getenv(constants.EnvCatalogPath)
	if catalogPath == "" {
		catalogPath = "./data/catalog.json"
	}
	cat := loadCatalogOrExit(catalogPath)

	dbPath := os.Getenv(constants.EnvDatabasePath)
	if dbPath == "" {
		dbPath = "./data/meowventure.db"
	}
	repo := openRepositoryOrExit(dbPath)

	learning := ai.NewLearningStore()
	if stats, err := repo.AbilityStats(); err != nil {
		logging.Error("Failed to load ability statistics", err, nil)
	} else {
		learning.Seed(stats)
	}

	arenaSvc := arena.NewService(cat, arena.NewRegistry(), learning)
	gachaEngine := gacha.NewEngine(cat, rand.New(rand.NewSource(time.Now().UnixNano())))
	rosterSvc := roster.NewService(repo, cat, gachaEngine)

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		logging.Fatal("Failed to create scheduler", err, nil)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(time.Minute),
		gocron.NewTask(func() {
			if reaped := arenaSvc.SweepStale(staleBattleAge); reaped > 0 {
				logging.Info("Stale battle sweep", logging.Fields{"reaped": reaped})
			}
		}),
	)
	if err != nil {
		logging.Fatal("Failed to schedule stale battle sweep", err, nil)
	}
	scheduler.Start()

	router := gin.Default()
	api.NewHandler(arenaSvc, rosterSvc, cat).Register(router)

	addr := os.Getenv(constants.EnvServerAddress)
	if addr == "" {
		addr = cat.ServerAddress
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
		errCh <- router.Run(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logging.Fatal("Failed to start server", err, nil)
	case sig := <-sigCh:
		logging.Info("Shutting down", logging.Fields{"signal": sig.String()})
	}

	_ = scheduler.Shutdown()
	if err := repo.SaveAbilityStats(learning.Snapshot()); err != nil {
		logging.Error("Failed to persist ability statistics", err, nil)
	}
}
