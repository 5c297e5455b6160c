package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	_ "github.com/intralink/intralink/testing"
)

func nowRef() time.Time { return time.Now().UTC() }

type memoryRepo struct {
	rows       []Notification
	nextID     int64
	countCalls int
}

func (r *memoryRepo) CreateBatch(ctx context.Context, userIDs []int64, actorID int64, kind, refType string, refID int64) error {
	for _, userID := range userIDs {
		if userID == actorID {
			continue
		}
		r.nextID++
		r.rows = append(r.rows, Notification{ID: r.nextID, UserID: userID, ActorID: actorID, Kind: kind, RefType: refType, RefID: refID})
	}
	return nil
}

func (r *memoryRepo) List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]Notification, int, error) {
	var list []Notification
	for _, n := range r.rows {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.ReadAt != nil {
			continue
		}
		list = append(list, n)
	}
	return list, len(list), nil
}

func (r *memoryRepo) MarkRead(ctx context.Context, userID, id int64) error {
	for i := range r.rows {
		if r.rows[i].ID == id && r.rows[i].UserID == userID {
			now := nowRef()
			r.rows[i].ReadAt = &now
			return nil
		}
	}
	return nil
}

func (r *memoryRepo) MarkAllRead(ctx context.Context, userID int64) error {
	for i := range r.rows {
		if r.rows[i].UserID == userID {
			now := nowRef()
			r.rows[i].ReadAt = &now
		}
	}
	return nil
}

func (r *memoryRepo) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	r.countCalls++
	var count int64
	for _, n := range r.rows {
		if n.UserID == userID && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (r *memoryRepo) UsersWithUnread(ctx context.Context) ([]int64, error) {
	seen := map[int64]bool{}
	var users []int64
	for _, n := range r.rows {
		if n.ReadAt == nil && !seen[n.UserID] {
			seen[n.UserID] = true
			users = append(users, n.UserID)
		}
	}
	return users, nil
}

func newCachedService(t *testing.T) (*Service, *memoryRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := &memoryRepo{}
	return NewService(repo, client), repo, mr
}

func TestUnreadCountCachesResult(t *testing.T) {
	svc, repo, _ := newCachedService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateBatch(ctx, []int64{5}, 1, "comment", "post", 10))

	count, err := svc.UnreadCount(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
	require.Equal(t, 1, repo.countCalls)

	// Second read must come from the cache.
	count, err = svc.UnreadCount(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
	require.Equal(t, 1, repo.countCalls)
}

func TestCreateBatchInvalidatesCounter(t *testing.T) {
	svc, repo, _ := newCachedService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateBatch(ctx, []int64{5}, 1, "comment", "post", 10))
	_, err := svc.UnreadCount(ctx, 5)
	require.NoError(t, err)

	require.NoError(t, svc.CreateBatch(ctx, []int64{5}, 2, "reaction", "post", 10))

	count, err := svc.UnreadCount(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
	require.Equal(t, 2, repo.countCalls)
}

func TestMarkReadInvalidatesCounter(t *testing.T) {
	svc, _, _ := newCachedService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateBatch(ctx, []int64{5}, 1, "comment", "post", 10))
	count, err := svc.UnreadCount(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	list, _, err := svc.List(ctx, 5, true, 1, 20)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.MarkRead(ctx, 5, list[0].ID))

	count, err = svc.UnreadCount(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}

func TestCreateBatchSkipsSelfNotification(t *testing.T) {
	svc, repo, _ := newCachedService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateBatch(ctx, []int64{1, 5}, 1, "comment", "post", 10))
	require.Len(t, repo.rows, 1)
	require.Equal(t, int64(5), repo.rows[0].UserID)
}

func TestUnreadCountSurvivesRedisOutage(t *testing.T) {
	svc, _, mr := newCachedService(t)
	ctx := context.Background()

	require.NoError(t, svc.CreateBatch(ctx, []int64{5}, 1, "comment", "post", 10))
	mr.Close()

	count, err := svc.UnreadCount(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
