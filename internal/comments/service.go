package comments

import (
	"context"

	"github.com/intralink/intralink/jobs"
)

// RepositoryPort defines data access methods for comments.
type RepositoryPort interface {
	ListByPost(ctx context.Context, postID int64) ([]Comment, error)
	Get(ctx context.Context, id int64) (Comment, error)
	Create(ctx context.Context, postID, authorID int64, parentID *int64, body string) (Comment, error)
	UpdateBody(ctx context.Context, id int64, body string) (Comment, error)
	SoftDelete(ctx context.Context, id int64) error
	PostAuthor(ctx context.Context, postID int64) (int64, error)
}

// Notifier enqueues a notification fan-out.
type Notifier interface {
	EnqueueNotify(ctx context.Context, payload jobs.NotifyPayload) error
}

// Service handles comment business logic.
type Service struct {
	repo     RepositoryPort
	notifier Notifier
}

// NewService builds a Service instance. notifier may be nil in tests.
func NewService(repo RepositoryPort, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Tree returns the full comment tree for a post. Soft deleted comments
// are kept as tombstones with an emptied body so their replies stay
// reachable.
func (s *Service) Tree(ctx context.Context, postID int64) ([]*Comment, error) {
	flat, err := s.repo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return assemble(flat), nil
}

// Create inserts a comment and notifies the post author.
func (s *Service) Create(ctx context.Context, postID, authorID int64, parentID *int64, body string) (Comment, error) {
	comment, err := s.repo.Create(ctx, postID, authorID, parentID, body)
	if err != nil {
		return Comment{}, err
	}
	s.notifyAuthor(ctx, comment)
	return comment, nil
}

// Update edits a comment body.
func (s *Service) Update(ctx context.Context, id int64, body string) (Comment, error) {
	return s.repo.UpdateBody(ctx, id, body)
}

// Get loads one comment.
func (s *Service) Get(ctx context.Context, id int64) (Comment, error) {
	return s.repo.Get(ctx, id)
}

// Delete tombstones a comment.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) notifyAuthor(ctx context.Context, comment Comment) {
	if s.notifier == nil {
		return
	}
	postAuthor, err := s.repo.PostAuthor(ctx, comment.PostID)
	if err != nil {
		return
	}
	_ = s.notifier.EnqueueNotify(ctx, jobs.NotifyPayload{
		UserIDs: []int64{postAuthor},
		ActorID: comment.AuthorID,
		Kind:    "comment",
		RefType: "post",
		RefID:   comment.PostID,
	})
}

// assemble turns a flat, created_at ordered slice into a forest. Rows
// arrive parents-before-children, so a single pass suffices.
func assemble(flat []Comment) []*Comment {
	byID := make(map[int64]*Comment, len(flat))
	roots := make([]*Comment, 0, len(flat))
	for i := range flat {
		c := &flat[i]
		if c.DeletedAt != nil {
			c.Deleted = true
			c.Body = ""
		}
		c.Replies = []*Comment{}
		byID[c.ID] = c
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, c)
		} else {
			roots = append(roots, c)
		}
	}
	return roots
}
