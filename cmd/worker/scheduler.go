package main

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"foodgram-backend/internal/config"
	"foodgram-backend/internal/infrastructure/queue"
)

// asynqScheduler wraps queue.Scheduler with additional functionality
type asynqScheduler struct {
	*queue.Scheduler
}

func setupScheduler(redis asynq.RedisClientOpt, cfg config.WorkerConfig) *asynqScheduler {
	scheduler := queue.NewScheduler(redis, cfg)

	if err := scheduler.RegisterJobs(); err != nil {
		log.Fatal().Err(err).Msg("Failed to register scheduled jobs")
	}

	go func() {
		log.Info().Msg("Scheduler starting")
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("Scheduler failed")
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	log.Info().Msg("Scheduler shutting down...")
	s.Scheduler.Shutdown()
	log.Info().Msg("Scheduler stopped")
}
