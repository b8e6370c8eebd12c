package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mverner/inkwell/internal/domain"
)

// imageExtensions are the recognized image file suffixes for post cover
// URLs, matched case-insensitively.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp"}

// BlogService handles post and comment operations.
type BlogService struct {
	posts    domain.BlogPostRepository
	comments domain.CommentRepository
}

// NewBlogService creates a new BlogService.
func NewBlogService(posts domain.BlogPostRepository, comments domain.CommentRepository) *BlogService {
	return &BlogService{posts: posts, comments: comments}
}

// ListPosts returns all posts in store-default order.
func (s *BlogService) ListPosts(ctx context.Context) ([]domain.BlogPost, error) {
	return s.posts.List(ctx)
}

// ListPostsByAuthor returns all posts written by the given author id.
func (s *BlogService) ListPostsByAuthor(ctx context.Context, authorID int64) ([]domain.BlogPost, error) {
	return s.posts.ListByAuthor(ctx, authorID)
}

// GetPost returns a post and its comments, or domain.ErrNotFound.
func (s *BlogService) GetPost(ctx context.Context, id int64) (*domain.BlogPost, []domain.Comment, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	comments, err := s.comments.ListByPost(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("list comments: %w", err)
	}
	return post, comments, nil
}

// CreatePost validates the fields, stamps the creation date, and persists a
// new post authored by the given user.
func (s *BlogService) CreatePost(ctx context.Context, author *domain.User, title, subtitle, body, imgURL string) (*domain.BlogPost, error) {
	if err := validatePostFields(title, subtitle, body, imgURL); err != nil {
		return nil, err
	}

	post := &domain.BlogPost{
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Title:      title,
		Subtitle:   subtitle,
		Date:       time.Now().Format("January 02, 2006"),
		Body:       body,
		ImgURL:     imgURL,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost overwrites title, subtitle, body, and image URL of an existing
// post and reassigns authorship to the editor. The creation date is kept.
func (s *BlogService) UpdatePost(ctx context.Context, editor *domain.User, postID int64, title, subtitle, body, imgURL string) (*domain.BlogPost, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !s.CanModify(editor, post) {
		return nil, domain.ErrUnauthorized
	}
	if err := validatePostFields(title, subtitle, body, imgURL); err != nil {
		return nil, err
	}

	post.Title = title
	post.Subtitle = subtitle
	post.Body = body
	post.ImgURL = imgURL
	post.AuthorID = editor.ID
	post.AuthorName = editor.Name
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post; its comments go with it via the store's
// cascade.
func (s *BlogService) DeletePost(ctx context.Context, editor *domain.User, postID int64) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if !s.CanModify(editor, post) {
		return domain.ErrUnauthorized
	}
	return s.posts.Delete(ctx, postID)
}

// AddComment creates a comment on a post as the given author.
func (s *BlogService) AddComment(ctx context.Context, author *domain.User, postID int64, text string) (*domain.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: comment text is required", domain.ErrInvalidInput)
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		PostID:      postID,
		AuthorID:    author.ID,
		AuthorName:  author.Name,
		AuthorEmail: author.Email,
		Text:        text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// CanModify is the single policy gate for editing and deleting posts.
// Today any authenticated user may modify any post; tightening this to
// owner-only or admin-only happens here without touching handlers.
func (s *BlogService) CanModify(user *domain.User, post *domain.BlogPost) bool {
	return user != nil
}

func validatePostFields(title, subtitle, body, imgURL string) error {
	if title == "" || subtitle == "" || body == "" || imgURL == "" {
		return fmt.Errorf("%w: title, subtitle, body, and image URL are required", domain.ErrInvalidInput)
	}
	if !isImageURL(imgURL) {
		return fmt.Errorf("%w: image URL must end with %s", domain.ErrInvalidInput, strings.Join(imageExtensions, ", "))
	}
	return nil
}

func isImageURL(url string) bool {
	lower := strings.ToLower(url)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
