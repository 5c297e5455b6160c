package reactions

import (
	"context"
	"errors"
	"slices"

	"github.com/intralink/intralink/internal/shared"
	"github.com/intralink/intralink/jobs"
)

// ErrUnknownKind rejects reaction kinds outside the accepted set.
var ErrUnknownKind = errors.New("reactions: unknown kind")

// RepositoryPort defines data access methods for reactions.
type RepositoryPort interface {
	Upsert(ctx context.Context, userID int64, targetType string, targetID int64, kind string) (Reaction, error)
	Find(ctx context.Context, userID int64, targetType string, targetID int64) (Reaction, error)
	Delete(ctx context.Context, userID int64, targetType string, targetID int64) error
	Counts(ctx context.Context, targetType string, targetID int64) ([]Count, error)
	TargetAuthor(ctx context.Context, targetType string, targetID int64) (int64, error)
}

// Notifier enqueues a notification fan-out.
type Notifier interface {
	EnqueueNotify(ctx context.Context, payload jobs.NotifyPayload) error
}

// Service handles reaction business logic.
type Service struct {
	repo     RepositoryPort
	notifier Notifier
}

// NewService builds a Service instance. notifier may be nil in tests.
func NewService(repo RepositoryPort, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Toggle applies a reaction. Reacting with the kind already held removes
// it; any other kind replaces the previous one. Returns the stored
// reaction, or nil when the toggle removed it.
func (s *Service) Toggle(ctx context.Context, userID int64, targetType string, targetID int64, kind string) (*Reaction, error) {
	if !slices.Contains(Kinds, kind) {
		return nil, ErrUnknownKind
	}
	existing, err := s.repo.Find(ctx, userID, targetType, targetID)
	switch {
	case err == nil && existing.Kind == kind:
		if err := s.repo.Delete(ctx, userID, targetType, targetID); err != nil {
			return nil, err
		}
		return nil, nil
	case err != nil && !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}
	reaction, err := s.repo.Upsert(ctx, userID, targetType, targetID, kind)
	if err != nil {
		return nil, err
	}
	s.notifyAuthor(ctx, reaction)
	return &reaction, nil
}

// Remove deletes the caller's reaction.
func (s *Service) Remove(ctx context.Context, userID int64, targetType string, targetID int64) error {
	return s.repo.Delete(ctx, userID, targetType, targetID)
}

// Summarize aggregates a target's reactions and marks the caller's own.
func (s *Service) Summarize(ctx context.Context, userID int64, targetType string, targetID int64) (Summary, error) {
	counts, err := s.repo.Counts(ctx, targetType, targetID)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Counts: counts}
	own, err := s.repo.Find(ctx, userID, targetType, targetID)
	if err == nil {
		summary.Own = &own.Kind
	} else if !errors.Is(err, shared.ErrNotFound) {
		return Summary{}, err
	}
	return summary, nil
}

func (s *Service) notifyAuthor(ctx context.Context, reaction Reaction) {
	if s.notifier == nil {
		return
	}
	author, err := s.repo.TargetAuthor(ctx, reaction.TargetType, reaction.TargetID)
	if err != nil {
		return
	}
	_ = s.notifier.EnqueueNotify(ctx, jobs.NotifyPayload{
		UserIDs: []int64{author},
		ActorID: reaction.UserID,
		Kind:    "reaction",
		RefType: reaction.TargetType,
		RefID:   reaction.TargetID,
	})
}
