package projects

import (
	"context"

	"quoteme/internal/domain"
)

type ProjectStore interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
}

// Matcher finds and notifies the candidate providers for a new project.
type Matcher interface {
	FindCandidates(ctx context.Context, project *domain.Project) ([]domain.Provider, error)
	NotifyCandidates(ctx context.Context, project *domain.Project, candidates []domain.Provider)
}
