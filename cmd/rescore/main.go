package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ajharbinger/poolvest-insights/internal/database"
	"github.com/ajharbinger/poolvest-insights/internal/logger"
	"github.com/ajharbinger/poolvest-insights/internal/repository"
	"github.com/ajharbinger/poolvest-insights/internal/services"
	"github.com/ajharbinger/poolvest-insights/pkg/config"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	reliability := flag.Bool("reliability", false, "recompute reliability scores for every entrepreneur")
	risk := flag.Bool("risk", false, "reassess risk for every opportunity")
	batchSize := flag.Int("batch", 0, "ids per batch (defaults to MAX_BATCH_SIZE)")
	flag.Parse()

	if !*reliability && !*risk {
		fmt.Fprintln(os.Stderr, "usage: rescore [-reliability] [-risk] [-batch N]")
		os.Exit(2)
	}

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}
	if *batchSize <= 0 {
		*batchSize = cfg.MaxBatchSize
	}

	appLogger, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer appLogger.Sync()

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	insights := services.NewInsightsService(services.Dependencies{
		Repos:  repository.NewRepositories(db.DB),
		Logger: appLogger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	failed := 0
	if *reliability {
		ids, err := insights.ListEntrepreneurIDs(ctx)
		if err != nil {
			appLogger.Fatal("Failed to list entrepreneurs", err)
		}
		summary := runChunks(ids, *batchSize, func(chunk []uuid.UUID) (services.BatchSummary, []services.BatchItemError) {
			r := insights.BatchReliabilityScores(ctx, chunk)
			return r.Summary, r.Errors
		})
		report("Reliability", summary)
		failed += summary.Failed
	}

	if *risk {
		ids, err := insights.ListOpportunityIDs(ctx)
		if err != nil {
			appLogger.Fatal("Failed to list opportunities", err)
		}
		summary := runChunks(ids, *batchSize, func(chunk []uuid.UUID) (services.BatchSummary, []services.BatchItemError) {
			r := insights.BatchRiskAssessments(ctx, chunk)
			return r.Summary, r.Errors
		})
		report("Risk", summary)
		failed += summary.Failed
	}

	if failed > 0 {
		appLogger.Sync()
		os.Exit(1)
	}
}

// runChunks feeds ids to run batchSize at a time and sums the summaries
func runChunks(ids []uuid.UUID, batchSize int, run func([]uuid.UUID) (services.BatchSummary, []services.BatchItemError)) services.BatchSummary {
	var total services.BatchSummary
	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}

		summary, errs := run(ids[start:end])
		total.TotalProcessed += summary.TotalProcessed
		total.Successful += summary.Successful
		total.Failed += summary.Failed
		for _, e := range errs {
			fmt.Printf("   ✗ %s: %s\n", e.ID, e.Error)
		}
	}
	return total
}

func report(kind string, s services.BatchSummary) {
	fmt.Printf("%s rescoring completed\n", kind)
	fmt.Printf("   • Processed: %d\n", s.TotalProcessed)
	fmt.Printf("   • Succeeded: %d\n", s.Successful)
	fmt.Printf("   • Failed: %d\n", s.Failed)
}
