package notifications

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/intralink/intralink/internal/shared"
)

// counterTTL bounds staleness when an invalidation is lost.
const counterTTL = 5 * time.Minute

// RepositoryPort defines data access methods for notifications.
type RepositoryPort interface {
	CreateBatch(ctx context.Context, userIDs []int64, actorID int64, kind, refType string, refID int64) error
	List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]Notification, int, error)
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) error
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	UsersWithUnread(ctx context.Context) ([]int64, error)
}

// Service handles notification logic with a cache-aside unread counter in
// Redis. The cache is best-effort: every Redis failure falls back to the
// database.
type Service struct {
	repo  RepositoryPort
	cache *redis.Client
}

// NewService builds a Service instance. cache may be nil in tests.
func NewService(repo RepositoryPort, cache *redis.Client) *Service {
	return &Service{repo: repo, cache: cache}
}

func counterKey(userID int64) string {
	return fmt.Sprintf("notifications:unread:%d", userID)
}

// CreateBatch persists a fan-out and drops the recipients' cached counters.
// This is the entry point the worker's fan-out task calls.
func (s *Service) CreateBatch(ctx context.Context, userIDs []int64, actorID int64, kind, refType string, refID int64) error {
	if err := s.repo.CreateBatch(ctx, userIDs, actorID, kind, refType, refID); err != nil {
		return err
	}
	s.invalidate(ctx, userIDs...)
	return nil
}

// List returns a page of the user's notifications.
func (s *Service) List(ctx context.Context, userID int64, unreadOnly bool, page, limit int) ([]Notification, shared.Pagination, error) {
	list, total, err := s.repo.List(ctx, userID, unreadOnly, limit, shared.Offset(page, limit))
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page, limit, total), nil
}

// MarkRead stamps one notification and invalidates the counter.
func (s *Service) MarkRead(ctx context.Context, userID, id int64) error {
	if err := s.repo.MarkRead(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// MarkAllRead stamps everything unread and invalidates the counter.
func (s *Service) MarkAllRead(ctx context.Context, userID int64) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// UnreadCount reads the cached counter, falling back to the database on a
// miss and repopulating the cache.
func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, counterKey(userID)).Result(); err == nil {
			if count, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
				return count, nil
			}
		}
	}
	count, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, counterKey(userID), count, counterTTL)
	}
	return count, nil
}

// UsersWithUnread lists users for the daily digest.
func (s *Service) UsersWithUnread(ctx context.Context) ([]int64, error) {
	return s.repo.UsersWithUnread(ctx)
}

func (s *Service) invalidate(ctx context.Context, userIDs ...int64) {
	if s.cache == nil {
		return
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = counterKey(id)
	}
	s.cache.Del(ctx, keys...)
}
