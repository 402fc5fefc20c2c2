package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"quoteme/internal/domain"
)

const sweepTimeout = 2 * time.Minute

// Sweeper periodically reminds matched providers who have not yet quoted
// that a project's bid window is about to close. It runs as a cron job
// and creates durable CLOSING_SOON notifications; the unique index on
// (provider, type, project) makes concurrent sweeps harmless.
type Sweeper struct {
	projects  ProjectStore
	quotes    QuoteStore
	finder    CandidateFinder
	notifier  *Service
	bidWindow time.Duration
	lead      time.Duration
	cron      *cron.Cron
	now       func() time.Time
	log       *zap.Logger
}

func NewSweeper(projects ProjectStore, quotes QuoteStore, finder CandidateFinder, notifier *Service,
	bidWindow, lead time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{
		projects:  projects,
		quotes:    quotes,
		finder:    finder,
		notifier:  notifier,
		bidWindow: bidWindow,
		lead:      lead,
		cron:      cron.New(),
		now:       time.Now,
		log:       log,
	}
}

// Start schedules the sweep. The schedule is coarse on purpose: the
// window spans many hours, so an hourly pass catches every project.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.runOnce); err != nil {
		return fmt.Errorf("schedule closing-soon sweep: %w", err)
	}
	s.cron.Start()
	return nil
}

func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if err := s.Sweep(ctx); err != nil {
		s.log.Error("closing-soon sweep failed", zap.Error(err))
	}
}

// Sweep finds pending projects inside the closing-soon window, between
// lead time before expiry and expiry itself, and notifies every matched
// candidate who has not submitted a quote.
func (s *Sweeper) Sweep(ctx context.Context) error {
	now := s.now()
	from := now.Add(-s.bidWindow)
	to := now.Add(-s.bidWindow + s.lead)

	projects, err := s.projects.ListPendingCreatedBetween(ctx, from, to)
	if err != nil {
		return fmt.Errorf("list closing projects: %w", err)
	}

	var created int
	for i := range projects {
		n, err := s.sweepProject(ctx, &projects[i])
		if err != nil {
			s.log.Warn("closing-soon sweep skipped project",
				zap.Int64("project_id", projects[i].ID),
				zap.Error(err))
			continue
		}
		created += n
	}

	if created > 0 {
		s.log.Info("closing-soon sweep done",
			zap.Int("projects", len(projects)),
			zap.Int("notifications", created))
	}
	return nil
}

func (s *Sweeper) sweepProject(ctx context.Context, project *domain.Project) (int, error) {
	candidates, err := s.finder.FindCandidates(ctx, project)
	if err != nil {
		return 0, fmt.Errorf("find candidates: %w", err)
	}

	var created int
	for _, p := range candidates {
		quoted, err := s.quotes.HasQuoted(ctx, project.ID, p.ID)
		if err != nil {
			return created, fmt.Errorf("check existing quote: %w", err)
		}
		if quoted {
			continue
		}

		n := &domain.Notification{
			ProviderID: p.ID,
			Type:       domain.NotifClosingSoon,
			Message:    fmt.Sprintf("Bidding on a project matching your trades closes soon. Quote now or miss out on project #%d.", project.ID),
			ProjectID:  project.ID,
		}
		if err := s.notifier.deliver(ctx, n); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
