package matching

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"quoteme/internal/domain"
	"quoteme/internal/pkg/geo"
)

type Config struct {
	// RadiusKm bounds how far away a provider may be and still get matched.
	RadiusKm float64
	// Workers caps concurrent notification dispatch.
	Workers int
}

type Service struct {
	cfg       Config
	providers ProviderStore
	notifier  Notifier
	log       *zap.Logger
}

func NewService(cfg Config, providers ProviderStore, notifier Notifier, log *zap.Logger) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Service{cfg: cfg, providers: providers, notifier: notifier, log: log}
}

// FindCandidates returns the ACTIVE providers that share at least one of
// the project's required trades and sit within the matching radius.
// Missing location data on either side fails closed: no match, no error.
func (s *Service) FindCandidates(ctx context.Context, project *domain.Project) ([]domain.Provider, error) {
	active, err := s.providers.ListByStatus(ctx, domain.ProviderActive)
	if err != nil {
		return nil, fmt.Errorf("list active providers: %w", err)
	}

	var candidates []domain.Provider
	for _, p := range active {
		if !domain.TradesIntersect(p.Trades, project.RequiredTrades) {
			continue
		}
		if !geo.WithinRadius(p.Location, project.Location, s.cfg.RadiusKm) {
			continue
		}
		candidates = append(candidates, p)
	}
	return candidates, nil
}

// NotifyCandidates fans notification dispatch out across the worker pool.
// One candidate failing is logged and skipped; the rest still get told.
func (s *Service) NotifyCandidates(ctx context.Context, project *domain.Project, candidates []domain.Provider) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for _, p := range candidates {
		g.Go(func() error {
			if err := s.notifier.NotifyNewProject(ctx, p.ID, project); err != nil {
				s.log.Warn("candidate notification failed",
					zap.Int64("provider_id", p.ID),
					zap.Int64("project_id", project.ID),
					zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	s.log.Info("candidates notified",
		zap.Int64("project_id", project.ID),
		zap.Int("candidates", len(candidates)))
}
