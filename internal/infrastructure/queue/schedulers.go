package queue

import (
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"foodgram-backend/internal/config"
	"foodgram-backend/internal/shared"
)

// Scheduler đăng ký các periodic task lên asynq
type Scheduler struct {
	scheduler *asynq.Scheduler
	cfg       config.WorkerConfig
}

func NewScheduler(redis asynq.RedisClientOpt, cfg config.WorkerConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redis,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		cfg:       cfg,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerSweepOrphanImagesJob()
}

// ================================================
// Sweep Orphan Recipe Images (mặc định 3h sáng UTC)
// ================================================
func (s *Scheduler) registerSweepOrphanImagesJob() error {
	task := asynq.NewTask(shared.TypeSweepOrphanImages, nil)

	_, err := s.scheduler.Register(
		s.cfg.SweepCron,
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(15*time.Minute),
		asynq.Unique(time.Hour),
	)
	if err != nil {
		log.Error().Err(err).Str("cron", s.cfg.SweepCron).Msg("Failed to register SweepOrphanImages job")
		return err
	}

	log.Info().Str("cron", s.cfg.SweepCron).Msg("Registered SweepOrphanImages")
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
