package domain

import "context"

// BlogPost is a published article. Date is stamped once at creation in
// "Month DD, YYYY" form and never changes afterwards, even across edits.
// AuthorName is populated from the users table on reads; it is not a
// stored column.
type BlogPost struct {
	ID         int64
	AuthorID   int64
	AuthorName string
	Title      string
	Subtitle   string
	Date       string
	Body       string
	ImgURL     string
}

// BlogPostRepository defines persistence operations for posts.
// Delete cascades to the post's comments via the store's foreign keys.
type BlogPostRepository interface {
	Create(ctx context.Context, post *BlogPost) error
	GetByID(ctx context.Context, id int64) (*BlogPost, error)
	List(ctx context.Context) ([]BlogPost, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]BlogPost, error)
	Update(ctx context.Context, post *BlogPost) error
	Delete(ctx context.Context, id int64) error
}
