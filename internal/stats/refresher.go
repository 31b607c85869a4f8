package stats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Refresher периодически пересчитывает снимок статистики по cron-расписанию
type Refresher struct {
	cron    *cron.Cron
	service *Service
	logger  *slog.Logger
	spec    string
}

// NewRefresher создает Refresher. spec в формате robfig/cron, например "@every 5m".
func NewRefresher(service *Service, spec string, logger *slog.Logger) *Refresher {
	return &Refresher{
		cron:    cron.New(),
		service: service,
		logger:  logger,
		spec:    spec,
	}
}

// Start регистрирует задачу и запускает планировщик
func (r *Refresher) Start(ctx context.Context) error {
	if _, err := r.cron.AddFunc(r.spec, func() { r.refresh(ctx) }); err != nil {
		return fmt.Errorf("invalid stats refresh spec %q: %w", r.spec, err)
	}

	r.cron.Start()
	r.logger.Info("stats refresher started", slog.String("spec", r.spec))

	return nil
}

// Stop останавливает планировщик и ждет завершения текущего пересчета
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("stats refresher stopped")
}

func (r *Refresher) refresh(ctx context.Context) {
	snapshot, err := r.service.Refresh(ctx)
	if err != nil {
		r.logger.Error("stats refresh failed", slog.Any("error", err))
		return
	}
	r.logger.Debug("stats refreshed", slog.Int("total_jobs", snapshot.TotalJobs))
}
