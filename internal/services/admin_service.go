package services

import (
	"database/sql"
	"errors"
	"fmt"

	"farmlink-backend/internal/database"
	"farmlink-backend/internal/models"
	"farmlink-backend/internal/policy"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AdminService struct {
	db *database.DB
}

func NewAdminService(db *database.DB) *AdminService {
	return &AdminService{db: db}
}

type AdminStats struct {
	TotalUsers    int                     `json:"total_users"`
	TotalPosts    int                     `json:"total_posts"`
	TotalComments int                     `json:"total_comments"`
	TotalLikes    int                     `json:"total_likes"`
	TotalProducts int                     `json:"total_products"`
	RoleStats     map[models.UserRole]int `json:"role_stats"`
	RecentUsers   []models.User           `json:"recent_users"`
	RecentPosts   []models.Post           `json:"recent_posts"`
}

func (s *AdminService) requireAdmin(actor *models.User) error {
	if actor == nil {
		return fmt.Errorf("%w: no actor", ErrUnauthorized)
	}
	if !policy.Allowed(actor, policy.ActionViewAdminPanel, policy.Target{}) {
		return fmt.Errorf("%w: admin access required", ErrForbidden)
	}
	return nil
}

// Stats returns the admin dashboard numbers: entity totals, per-role user
// counts and the five most recent users and posts.
func (s *AdminService) Stats(actor *models.User) (*AdminStats, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	stats := &AdminStats{RoleStats: map[models.UserRole]int{}}

	counts := []struct {
		table string
		dest  *int
	}{
		{"users", &stats.TotalUsers},
		{"posts", &stats.TotalPosts},
		{"comments", &stats.TotalComments},
		{"likes", &stats.TotalLikes},
		{"products", &stats.TotalProducts},
	}
	for _, c := range counts {
		if err := s.db.Get(c.dest, "select count(*) from "+c.table); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}

	rows := []struct {
		Role  models.UserRole `db:"role"`
		Count int             `db:"count"`
	}{}
	if err := s.db.Select(&rows, "select role, count(*) as count from users group by role"); err != nil {
		return nil, fmt.Errorf("failed to count roles: %w", err)
	}
	for _, row := range rows {
		stats.RoleStats[row.Role] = row.Count
	}

	stats.RecentUsers = []models.User{}
	if err := s.db.Select(&stats.RecentUsers, "select * from users order by created_at desc limit 5"); err != nil {
		return nil, fmt.Errorf("failed to list recent users: %w", err)
	}

	stats.RecentPosts = []models.Post{}
	recentPostsQuery := `
		select p.*,
		       u.username as author_name,
		       (select count(*) from likes l where l.post_id = p.id) as like_count
		from posts p
		join users u on u.id = p.user_id
		order by p.created_at desc
		limit 5
	`
	if err := s.db.Select(&stats.RecentPosts, recentPostsQuery); err != nil {
		return nil, fmt.Errorf("failed to list recent posts: %w", err)
	}

	return stats, nil
}

func (s *AdminService) ListUsers(actor *models.User) ([]models.User, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	users := []models.User{}
	if err := s.db.Select(&users, "select * from users order by created_at asc"); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ChangeRole moves a user to a new role. A value outside the closed role set
// is ErrInvalidInput and leaves the user untouched.
func (s *AdminService) ChangeRole(actor *models.User, userID uuid.UUID, newRole string) (*models.User, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: no actor", ErrUnauthorized)
	}
	if !policy.Allowed(actor, policy.ActionChangeUserRole, policy.Target{OwnerID: userID}) {
		return nil, fmt.Errorf("%w: change user role", ErrForbidden)
	}

	role, ok := models.ParseUserRole(newRole)
	if !ok {
		return nil, fmt.Errorf("%w: role %q", ErrInvalidInput, newRole)
	}

	var user models.User
	query := "update users set role = $1, updated_at = now() where id = $2 returning *"
	if err := s.db.Get(&user, query, role, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to change role: %w", err)
	}

	return &user, nil
}

type UpdateUserInput struct {
	Username string
	Email    string
	Role     string
	Password string // empty keeps the current credential
}

// UpdateUser is the admin's full edit of an account. Username/email collisions
// with another account are ErrConflict.
func (s *AdminService) UpdateUser(actor *models.User, userID uuid.UUID, input UpdateUserInput) (*models.User, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: no actor", ErrUnauthorized)
	}
	if !policy.Allowed(actor, policy.ActionEditUser, policy.Target{OwnerID: userID}) {
		return nil, fmt.Errorf("%w: edit user", ErrForbidden)
	}

	role, ok := models.ParseUserRole(input.Role)
	if !ok {
		return nil, fmt.Errorf("%w: role %q", ErrInvalidInput, input.Role)
	}

	current, err := s.getUserRow(userID)
	if err != nil {
		return nil, err
	}

	passwordHash := current.PasswordHash
	if input.Password != "" {
		bytes, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		passwordHash = string(bytes)
	}

	var user models.User
	query := `
		update users
		set username = $1, email = $2, role = $3, password_hash = $4, updated_at = now()
		where id = $5
		returning *
	`
	if err := s.db.Get(&user, query, input.Username, input.Email, role, passwordHash, userID); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: username or email already taken", ErrConflict)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &user, nil
}

// DeleteUser removes an account and everything it owns: its likes, likes on
// its posts, its comments, comments on its posts, its posts and its products,
// all inside one transaction. Self-deletion is ErrForbidden. The image
// references owned by the deleted rows are returned for file cleanup.
func (s *AdminService) DeleteUser(actor *models.User, userID uuid.UUID) ([]string, error) {
	if actor == nil {
		return nil, fmt.Errorf("%w: no actor", ErrUnauthorized)
	}
	if !policy.Allowed(actor, policy.ActionDeleteUser, policy.Target{OwnerID: userID}) {
		return nil, fmt.Errorf("%w: delete user", ErrForbidden)
	}

	user, err := s.getUserRow(userID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	removedImages := []string{}
	if user.ProfileImage != "" {
		removedImages = append(removedImages, user.ProfileImage)
	}
	imageQueries := []string{
		"select post_image from posts where user_id = $1 and post_image <> ''",
		"select product_image from products where user_id = $1 and product_image <> ''",
	}
	for _, q := range imageQueries {
		refs := []string{}
		if err := tx.Select(&refs, q, userID); err != nil {
			return nil, fmt.Errorf("failed to collect image references: %w", err)
		}
		removedImages = append(removedImages, refs...)
	}

	// Dependents first, owner last; ordering keeps every intermediate state
	// free of dangling references.
	stmts := []string{
		"delete from likes where user_id = $1",
		"delete from likes where post_id in (select id from posts where user_id = $1)",
		"delete from comments where user_id = $1",
		"delete from comments where post_id in (select id from posts where user_id = $1)",
		"delete from posts where user_id = $1",
		"delete from products where user_id = $1",
		"delete from users where id = $1",
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt, userID); err != nil {
			return nil, fmt.Errorf("failed to delete user: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit user delete: %w", err)
	}

	return removedImages, nil
}

func (s *AdminService) getUserRow(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Get(&user, "select * from users where id = $1", userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
