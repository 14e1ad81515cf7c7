package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"retreatly/config"
	eventRepo "retreatly/database/repository/event"
	"retreatly/models"

	"github.com/hibiken/asynq"
)

const TypeEventCache = "events:cache"

// CacheEnqueuer hands freshly scraped events to the background worker so
// catalog writes stay off the request path.
type CacheEnqueuer struct {
	client *asynq.Client
}

func NewCacheEnqueuer() *CacheEnqueuer {
	return &CacheEnqueuer{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		}),
	}
}

// EnqueueCache queues a batch of scraped events for persistence.
func (e *CacheEnqueuer) EnqueueCache(events []models.CanonicalEvent) error {
	payload, err := json.Marshal(events)
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeEventCache, payload)
	_, err = e.client.Enqueue(task, asynq.MaxRetry(3), asynq.Timeout(30*time.Second))
	return err
}

// InitCacheWorker runs the async worker in background.
func InitCacheWorker(repo eventRepo.EventRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEventCache, handleCacheTask(repo))

	// Start async worker with retry logic
	go func() {
		log.Println("[EventCacheWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[EventCacheWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[EventCacheWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleCacheTask(repo eventRepo.EventRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var events []models.CanonicalEvent
		if err := json.Unmarshal(task.Payload(), &events); err != nil {
			log.Printf("[EventCacheWorker] Invalid payload: %v", err)
			return err
		}

		if err := repo.UpsertScraped(ctx, events); err != nil {
			log.Printf("[EventCacheWorker] Failed to cache %d scraped events: %v", len(events), err)
			return err
		}

		log.Printf("[EventCacheWorker] Cached %d scraped events", len(events))
		return nil
	}
}
