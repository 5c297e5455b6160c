package comments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/intralink/intralink/internal/shared"
	"github.com/intralink/intralink/jobs"
	_ "github.com/intralink/intralink/testing"
)

type memoryRepo struct {
	comments   map[int64]Comment
	postAuthor map[int64]int64
	nextID     int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{comments: map[int64]Comment{}, postAuthor: map[int64]int64{}}
}

func (r *memoryRepo) ListByPost(ctx context.Context, postID int64) ([]Comment, error) {
	var list []Comment
	for id := int64(1); id <= r.nextID; id++ {
		if c, ok := r.comments[id]; ok && c.PostID == postID {
			list = append(list, c)
		}
	}
	return list, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return Comment{}, shared.ErrNotFound
	}
	return c, nil
}

func (r *memoryRepo) Create(ctx context.Context, postID, authorID int64, parentID *int64, body string) (Comment, error) {
	if parentID != nil {
		parent, ok := r.comments[*parentID]
		if !ok || parent.PostID != postID || parent.DeletedAt != nil {
			return Comment{}, shared.ErrNotFound
		}
	}
	r.nextID++
	c := Comment{ID: r.nextID, PostID: postID, AuthorID: authorID, ParentID: parentID, Body: body, CreatedAt: time.Now()}
	r.comments[c.ID] = c
	return c, nil
}

func (r *memoryRepo) UpdateBody(ctx context.Context, id int64, body string) (Comment, error) {
	c, ok := r.comments[id]
	if !ok || c.DeletedAt != nil {
		return Comment{}, shared.ErrNotFound
	}
	c.Body = body
	r.comments[id] = c
	return c, nil
}

func (r *memoryRepo) SoftDelete(ctx context.Context, id int64) error {
	c, ok := r.comments[id]
	if !ok || c.DeletedAt != nil {
		return shared.ErrNotFound
	}
	now := time.Now()
	c.DeletedAt = &now
	r.comments[id] = c
	return nil
}

func (r *memoryRepo) PostAuthor(ctx context.Context, postID int64) (int64, error) {
	author, ok := r.postAuthor[postID]
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

func TestTreeAssemblesReplies(t *testing.T) {
	repo := newMemoryRepo()
	repo.postAuthor[1] = 100
	svc := NewService(repo, nil)
	ctx := context.Background()

	root, err := svc.Create(ctx, 1, 10, nil, "first")
	require.NoError(t, err)
	reply, err := svc.Create(ctx, 1, 11, &root.ID, "reply")
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, 12, &reply.ID, "nested")
	require.NoError(t, err)
	other, err := svc.Create(ctx, 1, 13, nil, "second root")
	require.NoError(t, err)

	tree, err := svc.Tree(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	require.Equal(t, root.ID, tree[0].ID)
	require.Len(t, tree[0].Replies, 1)
	require.Len(t, tree[0].Replies[0].Replies, 1)
	require.Equal(t, other.ID, tree[1].ID)
	require.Empty(t, tree[1].Replies)
}

func TestTreeKeepsDeletedCommentAsTombstone(t *testing.T) {
	repo := newMemoryRepo()
	repo.postAuthor[1] = 100
	svc := NewService(repo, nil)
	ctx := context.Background()

	root, err := svc.Create(ctx, 1, 10, nil, "to be deleted")
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, 11, &root.ID, "survives")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, root.ID))

	tree, err := svc.Tree(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.True(t, tree[0].Deleted)
	require.Empty(t, tree[0].Body, "tombstone body must be blanked")
	require.Len(t, tree[0].Replies, 1)
	require.Equal(t, "survives", tree[0].Replies[0].Body)
}

func TestCreateRejectsParentFromAnotherPost(t *testing.T) {
	repo := newMemoryRepo()
	repo.postAuthor[1] = 100
	repo.postAuthor[2] = 100
	svc := NewService(repo, nil)
	ctx := context.Background()

	root, err := svc.Create(ctx, 1, 10, nil, "post 1 root")
	require.NoError(t, err)

	_, err = svc.Create(ctx, 2, 11, &root.ID, "cross-post reply")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateNotifiesPostAuthor(t *testing.T) {
	repo := newMemoryRepo()
	repo.postAuthor[1] = 100
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier)

	_, err := svc.Create(context.Background(), 1, 10, nil, "hello")
	require.NoError(t, err)

	require.Len(t, notifier.payloads, 1)
	payload := notifier.payloads[0]
	require.Equal(t, []int64{100}, payload.UserIDs)
	require.Equal(t, int64(10), payload.ActorID)
	require.Equal(t, "comment", payload.Kind)
	require.Equal(t, "post", payload.RefType)
	require.Equal(t, int64(1), payload.RefID)
}
