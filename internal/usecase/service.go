package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"svw.info/tacticsfeed/internal/domain"
	"svw.info/tacticsfeed/internal/feed"
	"svw.info/tacticsfeed/internal/hint"
	"svw.info/tacticsfeed/internal/onboarding"
)

// Service is the application facade the HTTP adapter talks to.
type Service struct {
	Feed *feed.Controller
	Gate *onboarding.Gate
	Log  *zap.SugaredLogger
}

func NewService(fc *feed.Controller, gate *onboarding.Gate, log *zap.SugaredLogger) *Service {
	return &Service{Feed: fc, Gate: gate, Log: log}
}

var (
	errNotConfigured  = errors.New("usecase dependency not configured")
	ErrSessionUnknown = errors.New("usecase: unknown session")
)

// NewSession opens a feed session with its initial pages materialized.
func (u *Service) NewSession() (*feed.Session, error) {
	if u.Feed == nil {
		return nil, errNotConfigured
	}
	return u.Feed.NewSession(), nil
}

func (u *Service) session(id string) (*feed.Session, error) {
	if u.Feed == nil {
		return nil, errNotConfigured
	}
	s, ok := u.Feed.Session(id)
	if !ok {
		return nil, ErrSessionUnknown
	}
	return s, nil
}

// Pages returns every materialized page plus the current view index.
func (u *Service) Pages(sessionID string) ([]domain.PuzzleInstance, int, error) {
	s, err := u.session(sessionID)
	if err != nil {
		return nil, 0, err
	}
	pages, current := s.Snapshot()
	return pages, current, nil
}

// RecordView notes the in-view page and tops up the lookahead.
func (u *Service) RecordView(sessionID string, index int) (int, error) {
	s, err := u.session(sessionID)
	if err != nil {
		return 0, err
	}
	s.RecordCurrentIndex(index)
	return s.CurrentIndex(), nil
}

// LegalMoves lists legal options from a square on a page. Failures
// degrade to an empty list.
func (u *Service) LegalMoves(sessionID string, index int, from domain.Square) ([]domain.LegalMove, error) {
	s, err := u.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.LegalMoves(index, from), nil
}

// PlayMove applies and classifies a move on a page.
func (u *Service) PlayMove(sessionID string, index int, mv domain.Move) (feed.PlayResult, error) {
	s, err := u.session(sessionID)
	if err != nil {
		return feed.PlayResult{}, err
	}
	return s.PlayMove(index, mv)
}

// Hint returns the next expected step's squares for a page.
func (u *Service) Hint(sessionID string, index int) (domain.MovePair, bool, error) {
	s, err := u.session(sessionID)
	if err != nil {
		return domain.MovePair{}, false, err
	}
	page, err := s.Page(index)
	if err != nil {
		return domain.MovePair{}, false, err
	}
	mp, found := hint.Next(&page)
	return mp, found, nil
}

// ToggleLike flips the like flag on an instance by ID.
func (u *Service) ToggleLike(sessionID, instanceID string) (liked, celebrate bool, err error) {
	s, err := u.session(sessionID)
	if err != nil {
		return false, false, err
	}
	return s.ToggleLike(instanceID)
}

// ToggleStar flips the star flag on an instance by ID.
func (u *Service) ToggleStar(sessionID, instanceID string) (bool, error) {
	s, err := u.session(sessionID)
	if err != nil {
		return false, err
	}
	return s.ToggleStar(instanceID)
}

// OnboardingCompleted reads the one-time flag; failures mean false.
func (u *Service) OnboardingCompleted(ctx context.Context) bool {
	if u.Gate == nil {
		return false
	}
	return u.Gate.Completed(ctx)
}

// CompleteOnboarding records the one-time flag; failures are swallowed.
func (u *Service) CompleteOnboarding(ctx context.Context) {
	if u.Gate != nil {
		u.Gate.MarkCompleted(ctx)
	}
}
