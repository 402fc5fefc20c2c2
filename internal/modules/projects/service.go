package projects

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"quoteme/internal/domain"
	"quoteme/internal/pkg/ai"
	"quoteme/internal/pkg/validator"
)

const dispatchTimeout = 30 * time.Second

type Service struct {
	store      ProjectStore
	classifier ai.TradeClassifier
	matcher    Matcher
	log        *zap.Logger
}

func NewService(store ProjectStore, classifier ai.TradeClassifier, matcher Matcher, log *zap.Logger) *Service {
	return &Service{store: store, classifier: classifier, matcher: matcher, log: log}
}

// SubmitProject classifies the description into required trades, persists
// the project, and kicks off candidate notification in the background.
// Classification failure degrades to the default trade instead of failing
// the submission.
func (s *Service) SubmitProject(ctx context.Context, req SubmitProjectRequest) (*ProjectResponse, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProject, fields)
	}

	trades := s.classifyTrades(ctx, req.Description)

	var loc *domain.Coordinate
	if req.Lat != nil && req.Lon != nil {
		loc = &domain.Coordinate{Lat: *req.Lat, Lon: *req.Lon}
	}

	project := &domain.Project{
		UserName:       req.UserName,
		UserEmail:      req.UserEmail,
		UserPhone:      req.UserPhone,
		Description:    req.Description,
		RequiredTrades: trades,
		Location:       loc,
	}
	if err := s.store.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.log.Info("project submitted",
		zap.Int64("project_id", project.ID),
		zap.Strings("required_trades", tradeStrings(trades)))

	// Fire and forget: candidate dispatch outlives the request and must
	// never delay the response.
	go s.dispatch(project)

	resp := toProjectResponse(project)
	return &resp, nil
}

func (s *Service) GetProject(ctx context.Context, id int64) (*ProjectResponse, error) {
	project, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load project: %w", err)
	}
	resp := toProjectResponse(project)
	return &resp, nil
}

func (s *Service) classifyTrades(ctx context.Context, description string) []domain.Trade {
	trades, err := s.classifier.Classify(ctx, description)
	if err != nil || len(trades) == 0 {
		if err != nil {
			s.log.Warn("trade classification failed, using default", zap.Error(err))
		}
		return []domain.Trade{domain.DefaultTrade}
	}
	return trades
}

func (s *Service) dispatch(project *domain.Project) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	candidates, err := s.matcher.FindCandidates(ctx, project)
	if err != nil {
		s.log.Warn("candidate matching failed",
			zap.Int64("project_id", project.ID),
			zap.Error(err))
		return
	}
	if len(candidates) == 0 {
		return
	}
	s.matcher.NotifyCandidates(ctx, project, candidates)
}

func tradeStrings(ts []domain.Trade) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}
