package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/wicaksana/fee-engine/internal/config"
	"github.com/wicaksana/fee-engine/internal/domain"
	"github.com/wicaksana/fee-engine/internal/repository"
	"github.com/wicaksana/fee-engine/internal/service"

	"github.com/robfig/cron/v3"
)

func main() {
	log.Println("Starting fee ledger scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	ledgerService := service.NewLedgerService(
		repository.NewFeeRepository(db),
		repository.NewStudentRepository(db),
		repository.NewAttendanceRepository(db),
		redisClient,
		cfg,
	)

	c := cron.New(cron.WithSeconds())
	setupCronJobs(c, ledgerService)

	c.Start()
	log.Println("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	ctx := c.Stop()
	<-ctx.Done()
	log.Println("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, ledger *service.LedgerService) {
	// Monthly fee generation on the 1st at 02:00
	_, err := c.AddFunc("0 0 2 1 * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		now := time.Now()
		result, err := ledger.GenerateMonthly(ctx, &domain.GenerateMonthlyRequest{
			Month: int(now.Month()),
			Year:  now.Year(),
		})
		if err != nil {
			log.Printf("Monthly fee generation failed: %v", err)
			return
		}
		log.Printf("Monthly fee generation: created=%d updated=%d skipped=%d",
			result.Created, result.Updated, result.Skipped)
	})
	if err != nil {
		log.Printf("Error scheduling monthly generation job: %v", err)
	}

	// Nightly sweep at midnight flips stale unpaid records to overdue
	_, err = c.AddFunc("0 0 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		updated, err := ledger.SweepOverdue(ctx)
		if err != nil {
			log.Printf("Overdue sweep failed: %v", err)
			return
		}
		log.Printf("Overdue sweep: %d records flipped", updated)
	})
	if err != nil {
		log.Printf("Error scheduling overdue sweep job: %v", err)
	}

	// Weekly due-date normalization on Sundays at 03:00
	_, err = c.AddFunc("0 0 3 * * SUN", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		result, err := ledger.NormalizeDueDates(ctx)
		if err != nil {
			log.Printf("Due-date normalization failed: %v", err)
			return
		}
		log.Printf("Due-date normalization: updated=%d skipped=%d",
			result.UpdatedCount, result.SkippedCount)
	})
	if err != nil {
		log.Printf("Error scheduling due-date normalization job: %v", err)
	}

	log.Println("Cron jobs scheduled successfully")
}
