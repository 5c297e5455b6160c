package reactions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/intralink/intralink/internal/shared"
	"github.com/intralink/intralink/jobs"
	_ "github.com/intralink/intralink/testing"
)

type key struct {
	userID     int64
	targetType string
	targetID   int64
}

type memoryRepo struct {
	reactions map[key]Reaction
	authors   map[string]int64
	nextID    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{reactions: map[key]Reaction{}, authors: map[string]int64{}}
}

func (r *memoryRepo) Upsert(ctx context.Context, userID int64, targetType string, targetID int64, kind string) (Reaction, error) {
	k := key{userID, targetType, targetID}
	re, ok := r.reactions[k]
	if !ok {
		r.nextID++
		re = Reaction{ID: r.nextID, UserID: userID, TargetType: targetType, TargetID: targetID}
	}
	re.Kind = kind
	re.CreatedAt = time.Now()
	r.reactions[k] = re
	return re, nil
}

func (r *memoryRepo) Find(ctx context.Context, userID int64, targetType string, targetID int64) (Reaction, error) {
	re, ok := r.reactions[key{userID, targetType, targetID}]
	if !ok {
		return Reaction{}, shared.ErrNotFound
	}
	return re, nil
}

func (r *memoryRepo) Delete(ctx context.Context, userID int64, targetType string, targetID int64) error {
	k := key{userID, targetType, targetID}
	if _, ok := r.reactions[k]; !ok {
		return shared.ErrNotFound
	}
	delete(r.reactions, k)
	return nil
}

func (r *memoryRepo) Counts(ctx context.Context, targetType string, targetID int64) ([]Count, error) {
	byKind := map[string]int64{}
	for _, re := range r.reactions {
		if re.TargetType == targetType && re.TargetID == targetID {
			byKind[re.Kind]++
		}
	}
	var counts []Count
	for kind, count := range byKind {
		counts = append(counts, Count{Kind: kind, Count: count})
	}
	return counts, nil
}

func (r *memoryRepo) TargetAuthor(ctx context.Context, targetType string, targetID int64) (int64, error) {
	author, ok := r.authors[targetType]
	if !ok {
		return 0, shared.ErrNotFound
	}
	return author, nil
}

type recordingNotifier struct {
	payloads []jobs.NotifyPayload
}

func (n *recordingNotifier) EnqueueNotify(ctx context.Context, payload jobs.NotifyPayload) error {
	n.payloads = append(n.payloads, payload)
	return nil
}

func TestToggleAddsReaction(t *testing.T) {
	repo := newMemoryRepo()
	repo.authors[TargetPost] = 100
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier)
	ctx := context.Background()

	reaction, err := svc.Toggle(ctx, 10, TargetPost, 1, "like")
	require.NoError(t, err)
	require.NotNil(t, reaction)
	require.Equal(t, "like", reaction.Kind)
	require.Len(t, notifier.payloads, 1)
	require.Equal(t, []int64{100}, notifier.payloads[0].UserIDs)
}

func TestToggleSameKindRemoves(t *testing.T) {
	repo := newMemoryRepo()
	repo.authors[TargetPost] = 100
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, 10, TargetPost, 1, "like")
	require.NoError(t, err)

	reaction, err := svc.Toggle(ctx, 10, TargetPost, 1, "like")
	require.NoError(t, err)
	require.Nil(t, reaction, "same kind toggles the reaction off")

	_, err = repo.Find(ctx, 10, TargetPost, 1)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestToggleDifferentKindReplaces(t *testing.T) {
	repo := newMemoryRepo()
	repo.authors[TargetPost] = 100
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, 10, TargetPost, 1, "like")
	require.NoError(t, err)

	reaction, err := svc.Toggle(ctx, 10, TargetPost, 1, "celebrate")
	require.NoError(t, err)
	require.NotNil(t, reaction)
	require.Equal(t, "celebrate", reaction.Kind)

	counts, err := repo.Counts(ctx, TargetPost, 1)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	require.Equal(t, int64(1), counts[0].Count)
}

func TestToggleRejectsUnknownKind(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	_, err := svc.Toggle(context.Background(), 10, TargetPost, 1, "dislike")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestSummarizeMarksOwnReaction(t *testing.T) {
	repo := newMemoryRepo()
	repo.authors[TargetPost] = 100
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, 10, TargetPost, 1, "like")
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, 11, TargetPost, 1, "like")
	require.NoError(t, err)

	summary, err := svc.Summarize(ctx, 10, TargetPost, 1)
	require.NoError(t, err)
	require.NotNil(t, summary.Own)
	require.Equal(t, "like", *summary.Own)
	require.Len(t, summary.Counts, 1)
	require.Equal(t, int64(2), summary.Counts[0].Count)

	summary, err = svc.Summarize(ctx, 99, TargetPost, 1)
	require.NoError(t, err)
	require.Nil(t, summary.Own)
}
