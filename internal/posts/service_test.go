package posts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/intralink/intralink/internal/shared"
	_ "github.com/intralink/intralink/testing"
)

type memoryRepo struct {
	posts  map[int64]Post
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{posts: map[int64]Post{}}
}

func (r *memoryRepo) List(ctx context.Context, departmentID, authorID *int64, limit, offset int) ([]Post, int, error) {
	var list []Post
	for id := int64(1); id <= r.nextID; id++ {
		if p, ok := r.posts[id]; ok {
			list = append(list, p)
		}
	}
	return list, len(list), nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return Post{}, shared.ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) Create(ctx context.Context, authorID int64, departmentID *int64, title, body string, attachmentPath *string) (Post, error) {
	r.nextID++
	p := Post{ID: r.nextID, AuthorID: authorID, DepartmentID: departmentID, Title: title, Body: body, AttachmentPath: attachmentPath, CreatedAt: time.Now()}
	r.posts[p.ID] = p
	return p, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, title, body *string, departmentID *int64) (Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return Post{}, shared.ErrNotFound
	}
	if title != nil {
		p.Title = *title
	}
	if body != nil {
		p.Body = *body
	}
	r.posts[id] = p
	return p, nil
}

func (r *memoryRepo) SetPinned(ctx context.Context, id int64, pinned bool) error {
	p, ok := r.posts[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.Pinned = pinned
	r.posts[id] = p
	return nil
}

func (r *memoryRepo) IncrementViews(ctx context.Context, id int64) error {
	p, ok := r.posts[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.ViewCount++
	r.posts[id] = p
	return nil
}

func (r *memoryRepo) SoftDelete(ctx context.Context, id int64) error {
	if _, ok := r.posts[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *memoryRepo) Search(ctx context.Context, query string, limit int) ([]Post, error) {
	return nil, nil
}

func TestGetCountsTheRead(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, 10, nil, "Welcome", "body", nil)
	require.NoError(t, err)

	post, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), post.ViewCount)

	post, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), post.ViewCount)
}

func TestFindDoesNotCountTheRead(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, 10, nil, "Welcome", "body", nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		post, err := svc.Find(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, int64(0), post.ViewCount)
	}

	stored, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), stored.ViewCount)
}
