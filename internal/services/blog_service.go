package services

import (
	"database/sql"
	"errors"
	"fmt"

	"farmlink-backend/internal/database"
	"farmlink-backend/internal/models"
	"farmlink-backend/internal/policy"

	"github.com/google/uuid"
)

const postsPerPage = 10

type BlogService struct {
	db *database.DB
}

func NewBlogService(db *database.DB) *BlogService {
	return &BlogService{db: db}
}

// ListPosts returns one page of posts, newest first, with author name, like
// count and whether the viewer liked each post. viewer may be nil.
func (s *BlogService) ListPosts(page int, viewer *models.User) ([]models.Post, bool, error) {
	if page < 1 {
		page = 1
	}
	viewerID := uuid.Nil
	if viewer != nil {
		viewerID = viewer.ID
	}

	posts := []models.Post{}
	query := `
		select p.*,
		       u.username as author_name,
		       (select count(*) from likes l where l.post_id = p.id) as like_count,
		       exists(select 1 from likes l where l.post_id = p.id and l.user_id = $3) as liked_by_me
		from posts p
		join users u on u.id = p.user_id
		order by p.created_at desc
		limit $1 offset $2
	`
	// One extra row tells us whether a further page exists.
	if err := s.db.Select(&posts, query, postsPerPage+1, (page-1)*postsPerPage, viewerID); err != nil {
		return nil, false, fmt.Errorf("failed to list posts: %w", err)
	}

	hasNext := len(posts) > postsPerPage
	if hasNext {
		posts = posts[:postsPerPage]
	}
	return posts, hasNext, nil
}

func (s *BlogService) CreatePost(actor *models.User, title, content, image string) (*models.Post, error) {
	if !policy.Allowed(actor, policy.ActionCreatePost, policy.Target{}) {
		return nil, fmt.Errorf("%w: create post", ErrUnauthorized)
	}

	var post models.Post
	query := `
		insert into posts (title, content, user_id, post_image)
		values ($1, $2, $3, $4)
		returning *
	`
	if err := s.db.Get(&post, query, title, content, actor.ID, image); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	post.AuthorName = actor.Username
	return &post, nil
}

// GetPost returns a post with its comments, newest comment first.
func (s *BlogService) GetPost(postID uuid.UUID, viewer *models.User) (*models.Post, []models.Comment, error) {
	viewerID := uuid.Nil
	if viewer != nil {
		viewerID = viewer.ID
	}

	var post models.Post
	query := `
		select p.*,
		       u.username as author_name,
		       (select count(*) from likes l where l.post_id = p.id) as like_count,
		       exists(select 1 from likes l where l.post_id = p.id and l.user_id = $2) as liked_by_me
		from posts p
		join users u on u.id = p.user_id
		where p.id = $1
	`
	if err := s.db.Get(&post, query, postID, viewerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("%w: post", ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to get post: %w", err)
	}

	comments := []models.Comment{}
	commentsQuery := `
		select c.*, u.username as author_name
		from comments c
		join users u on u.id = c.user_id
		where c.post_id = $1
		order by c.created_at desc
	`
	if err := s.db.Select(&comments, commentsQuery, postID); err != nil {
		return nil, nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return &post, comments, nil
}

// UpdatePost edits a post owned by the actor (or any post, for an admin). An
// empty newImage keeps the current one; otherwise the replaced reference is
// returned for file cleanup.
func (s *BlogService) UpdatePost(actor *models.User, postID uuid.UUID, title, content, newImage string) (*models.Post, string, error) {
	post, err := s.getPostRow(postID)
	if err != nil {
		return nil, "", err
	}
	if !policy.Allowed(actor, policy.ActionEditPost, policy.Target{OwnerID: post.UserID}) {
		return nil, "", fmt.Errorf("%w: edit post", ErrForbidden)
	}

	replacedImage := ""
	image := post.PostImage
	if newImage != "" {
		replacedImage = post.PostImage
		image = newImage
	}

	var updated models.Post
	query := `
		update posts
		set title = $1, content = $2, post_image = $3, updated_at = now()
		where id = $4
		returning *
	`
	if err := s.db.Get(&updated, query, title, content, image, postID); err != nil {
		return nil, "", fmt.Errorf("failed to update post: %w", err)
	}

	return &updated, replacedImage, nil
}

// DeletePost removes a post together with its comments and likes in one
// transaction, so no dependent row can outlive it. It returns the image
// references that should be removed from disk after the delete commits.
func (s *BlogService) DeletePost(actor *models.User, postID uuid.UUID) ([]string, error) {
	post, err := s.getPostRow(postID)
	if err != nil {
		return nil, err
	}
	if !policy.Allowed(actor, policy.ActionDeletePost, policy.Target{OwnerID: post.UserID}) {
		return nil, fmt.Errorf("%w: delete post", ErrForbidden)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"delete from likes where post_id = $1",
		"delete from comments where post_id = $1",
		"delete from posts where id = $1",
	} {
		if _, err := tx.Exec(stmt, postID); err != nil {
			return nil, fmt.Errorf("failed to delete post: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit post delete: %w", err)
	}

	var removedImages []string
	if post.PostImage != "" {
		removedImages = append(removedImages, post.PostImage)
	}
	return removedImages, nil
}

func (s *BlogService) CreateComment(actor *models.User, postID uuid.UUID, content string) (*models.Comment, error) {
	if !policy.Allowed(actor, policy.ActionCreateComment, policy.Target{}) {
		return nil, fmt.Errorf("%w: create comment", ErrUnauthorized)
	}
	if _, err := s.getPostRow(postID); err != nil {
		return nil, err
	}

	var comment models.Comment
	query := `
		insert into comments (content, user_id, post_id)
		values ($1, $2, $3)
		returning *
	`
	if err := s.db.Get(&comment, query, content, actor.ID, postID); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	comment.AuthorName = actor.Username
	return &comment, nil
}

// DeleteComment removes a comment. Allowed for the comment author, the author
// of the post it belongs to, and admins.
func (s *BlogService) DeleteComment(actor *models.User, commentID uuid.UUID) error {
	var row struct {
		models.Comment
		PostOwnerID uuid.UUID `db:"post_owner_id"`
	}
	query := `
		select c.*, p.user_id as post_owner_id
		from comments c
		join posts p on p.id = c.post_id
		where c.id = $1
	`
	if err := s.db.Get(&row, query, commentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: comment", ErrNotFound)
		}
		return fmt.Errorf("failed to get comment: %w", err)
	}

	target := policy.Target{OwnerID: row.UserID, PostOwnerID: row.PostOwnerID}
	if !policy.Allowed(actor, policy.ActionDeleteComment, target) {
		return fmt.Errorf("%w: delete comment", ErrForbidden)
	}

	if _, err := s.db.Exec("delete from comments where id = $1", commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// ToggleLike flips the actor's like on a post: removes it when present,
// creates it otherwise. The delete and insert share a transaction; losing an
// insert race to another request surfaces as ErrConflict, which the caller
// may simply retry.
func (s *BlogService) ToggleLike(actor *models.User, postID uuid.UUID) (bool, int, error) {
	if !policy.Allowed(actor, policy.ActionToggleLike, policy.Target{}) {
		return false, 0, fmt.Errorf("%w: like post", ErrUnauthorized)
	}
	if _, err := s.getPostRow(postID); err != nil {
		return false, 0, err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return false, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec("delete from likes where user_id = $1 and post_id = $2", actor.ID, postID)
	if err != nil {
		return false, 0, fmt.Errorf("failed to unlike post: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return false, 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	liked := false
	if deleted == 0 {
		if _, err := tx.Exec("insert into likes (user_id, post_id) values ($1, $2)", actor.ID, postID); err != nil {
			if isUniqueViolation(err) {
				return false, 0, fmt.Errorf("%w: like already exists", ErrConflict)
			}
			return false, 0, fmt.Errorf("failed to like post: %w", err)
		}
		liked = true
	}

	var likeCount int
	if err := tx.Get(&likeCount, "select count(*) from likes where post_id = $1", postID); err != nil {
		return false, 0, fmt.Errorf("failed to count likes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("failed to commit like toggle: %w", err)
	}

	return liked, likeCount, nil
}

func (s *BlogService) getPostRow(postID uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := s.db.Get(&post, "select * from posts where id = $1", postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: post", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}
