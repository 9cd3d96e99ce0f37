package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID uuid.UUID `db:"id" json:"id"`

	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	PostImage string    `db:"post_image" json:"post_image"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Filled by list/detail queries, not columns of the posts table.
	AuthorName string `db:"author_name" json:"author_name"`
	LikeCount  int    `db:"like_count" json:"like_count"`
	LikedByMe  bool   `db:"liked_by_me" json:"liked_by_me"`
}

type Comment struct {
	ID uuid.UUID `db:"id" json:"id"`

	Content string    `db:"content" json:"content"`
	UserID  uuid.UUID `db:"user_id" json:"user_id"`
	PostID  uuid.UUID `db:"post_id" json:"post_id"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`

	AuthorName string `db:"author_name" json:"author_name"`
}

type Like struct {
	ID uuid.UUID `db:"id" json:"id"`

	UserID uuid.UUID `db:"user_id" json:"user_id"`
	PostID uuid.UUID `db:"post_id" json:"post_id"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
