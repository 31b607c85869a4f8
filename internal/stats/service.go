package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/iudanet/jobboard/internal/api"
)

// Service отдает статистику, используя кэш, если он настроен
type Service struct {
	aggregator *Aggregator
	cache      Cache
	logger     *slog.Logger
	now        func() time.Time
}

// NewService создает Service. cache может быть nil: тогда статистика считается на каждый запрос.
func NewService(aggregator *Aggregator, cache Cache, logger *slog.Logger) *Service {
	return &Service{
		aggregator: aggregator,
		cache:      cache,
		logger:     logger,
		now:        time.Now,
	}
}

// Snapshot возвращает статистику из кэша или считает ее заново.
// Ошибки кэша не прерывают запрос: они логируются, и статистика считается напрямую.
func (s *Service) Snapshot(ctx context.Context) (*api.StatsResponse, error) {
	if s.cache != nil {
		snapshot, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "stats cache read failed", slog.Any("error", err))
		}
		if ok {
			return snapshot, nil
		}
	}

	return s.Refresh(ctx)
}

// Refresh пересчитывает статистику и обновляет кэш
func (s *Service) Refresh(ctx context.Context) (*api.StatsResponse, error) {
	snapshot, err := s.aggregator.Compute(ctx, s.now())
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, snapshot); err != nil {
			s.logger.WarnContext(ctx, "stats cache write failed", slog.Any("error", err))
		}
	}

	return snapshot, nil
}
