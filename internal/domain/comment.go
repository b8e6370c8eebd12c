package domain

import "context"

// Comment is a reader's comment on a post. AuthorName and AuthorEmail are
// joined from the users table on reads; the email feeds the avatar URL and
// is never rendered directly.
type Comment struct {
	ID          int64
	PostID      int64
	AuthorID    int64
	AuthorName  string
	AuthorEmail string
	Text        string
}

// CommentRepository defines persistence operations for comments.
// Comments are never edited or deleted on their own; they disappear only
// when their parent post is deleted.
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	ListByPost(ctx context.Context, postID int64) ([]Comment, error)
	CountByPost(ctx context.Context, postID int64) (int, error)
}
