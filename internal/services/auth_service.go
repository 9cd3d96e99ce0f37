package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"farmlink-backend/internal/database"
	"farmlink-backend/internal/models"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	db        *database.DB
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(db *database.DB, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{db: db, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register creates a new account. The very first account in the system is
// forced to the admin role regardless of the requested one; the count check
// and the insert share a transaction so two racing first registrations cannot
// both come out non-admin. Duplicate username or email is ErrConflict.
func (s *AuthService) Register(username, email, password, requestedRole string) (*models.User, error) {
	role, ok := models.ParseUserRole(requestedRole)
	if !ok || role == models.UserRoleAdmin {
		return nil, fmt.Errorf("%w: role %q is not registrable", ErrInvalidInput, requestedRole)
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	passwordHash := string(bytes)

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var userCount int
	if err := tx.Get(&userCount, "select count(*) from users"); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if userCount == 0 {
		role = models.UserRoleAdmin
	}

	var user models.User
	query := `
		insert into users (username, email, password_hash, role)
		values ($1, $2, $3, $4)
		returning *
	`
	if err := tx.Get(&user, query, username, email, passwordHash, role); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: username or email already taken", ErrConflict)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}

	return &user, nil
}

// Login accepts a username or an email as the identifier. Unknown identifier
// and wrong password produce the same ErrUnauthorized.
func (s *AuthService) Login(identifier, password string) (*models.User, string, error) {
	var user models.User
	query := "select * from users where username = $1 or email = $1"

	if err := s.db.Get(&user, query, identifier); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userID":   user.ID.String(),
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	})

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func (s *AuthService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	query := "select * from users where id = $1"

	if err := s.db.Get(&user, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// CompleteProfile fills in the actor's own profile fields and marks the
// profile complete. An empty newImage leaves the stored image untouched;
// otherwise the previous reference is returned for file cleanup.
func (s *AuthService) CompleteProfile(actor *models.User, phone, address, bio, newImage string) (*models.User, string, error) {
	if actor == nil {
		return nil, "", fmt.Errorf("%w: no actor", ErrUnauthorized)
	}

	replacedImage := ""
	image := actor.ProfileImage
	if newImage != "" {
		replacedImage = actor.ProfileImage
		image = newImage
	}

	var user models.User
	query := `
		update users
		set phone = $1, address = $2, bio = $3, profile_image = $4,
		    profile_complete = true, updated_at = now()
		where id = $5
		returning *
	`
	if err := s.db.Get(&user, query, phone, address, bio, image, actor.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, "", fmt.Errorf("failed to update profile: %w", err)
	}

	return &user, replacedImage, nil
}

// SkipProfile marks the profile complete without filling anything in.
func (s *AuthService) SkipProfile(actor *models.User) error {
	if actor == nil {
		return fmt.Errorf("%w: no actor", ErrUnauthorized)
	}

	if _, err := s.db.Exec("update users set profile_complete = true, updated_at = now() where id = $1", actor.ID); err != nil {
		return fmt.Errorf("failed to skip profile: %w", err)
	}
	return nil
}

// Consultants returns the public consultant directory.
func (s *AuthService) Consultants() ([]models.User, error) {
	consultants := []models.User{}
	query := "select * from users where role = $1 order by username asc"

	if err := s.db.Select(&consultants, query, models.UserRoleConsultant); err != nil {
		return nil, fmt.Errorf("failed to list consultants: %w", err)
	}

	return consultants, nil
}
