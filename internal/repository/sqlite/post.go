package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mverner/inkwell/internal/domain"
)

// PostRepository implements domain.BlogPostRepository using SQLite.
// Reads join the users table so every post carries its author's name.
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new SQLite-backed PostRepository.
func NewPostRepository(db *DB) *PostRepository {
	return &PostRepository{db: db.SqlDB}
}

const postColumns = `p.id, p.author_id, u.name, p.title, p.subtitle, p.date, p.body, p.img_url`

func (r *PostRepository) Create(ctx context.Context, post *domain.BlogPost) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO blog_posts (author_id, title, subtitle, date, body, img_url)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		post.AuthorID, post.Title, post.Subtitle, post.Date, post.Body, post.ImgURL,
	)
	if err != nil {
		if isUniqueConstraintError(err, "blog_posts.title") {
			return domain.ErrDuplicateTitle
		}
		return fmt.Errorf("insert post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	post.ID = id
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*domain.BlogPost, error) {
	post := &domain.BlogPost{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+postColumns+`
		 FROM blog_posts p JOIN users u ON u.id = p.author_id
		 WHERE p.id = ?`, id,
	).Scan(&post.ID, &post.AuthorID, &post.AuthorName, &post.Title, &post.Subtitle, &post.Date, &post.Body, &post.ImgURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query post by id: %w", err)
	}
	return post, nil
}

func (r *PostRepository) List(ctx context.Context) ([]domain.BlogPost, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+`
		 FROM blog_posts p JOIN users u ON u.id = p.author_id
		 ORDER BY p.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()
	return scanPosts(rows)
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID int64) ([]domain.BlogPost, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+`
		 FROM blog_posts p JOIN users u ON u.id = p.author_id
		 WHERE p.author_id = ?
		 ORDER BY p.id`, authorID,
	)
	if err != nil {
		return nil, fmt.Errorf("query posts by author: %w", err)
	}
	defer rows.Close()
	return scanPosts(rows)
}

// Update overwrites the mutable fields of a post. The date column is
// deliberately absent: creation dates never change.
func (r *PostRepository) Update(ctx context.Context, post *domain.BlogPost) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE blog_posts
		 SET author_id = ?, title = ?, subtitle = ?, body = ?, img_url = ?
		 WHERE id = ?`,
		post.AuthorID, post.Title, post.Subtitle, post.Body, post.ImgURL, post.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err, "blog_posts.title") {
			return domain.ErrDuplicateTitle
		}
		return fmt.Errorf("update post: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPosts(rows *sql.Rows) ([]domain.BlogPost, error) {
	var posts []domain.BlogPost
	for rows.Next() {
		var post domain.BlogPost
		if err := rows.Scan(&post.ID, &post.AuthorID, &post.AuthorName, &post.Title, &post.Subtitle, &post.Date, &post.Body, &post.ImgURL); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}
