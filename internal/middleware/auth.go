package middleware

import (
	"context"
	"net/http"

	"farmlink-backend/utils/response"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

type contextKey string

const UserContextKey contextKey = "user"

type UserClaims struct {
	UserID   uuid.UUID `json:"userID"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret}
}

// RequireAuth rejects requests without a valid token cookie and puts the
// token claims into the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("token")
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		claims, err := m.validateToken(cookie.Value)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attaches claims when a valid token is present but lets
// anonymous requests through. Used on public listings that personalize their
// output for logged-in viewers.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("token"); err == nil {
			if claims, err := m.validateToken(cookie.Value); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), UserContextKey, claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects non-admin tokens up front. The services re-check the
// role against the stored user, so a stale token cannot outlive a demotion.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetUserFromContext(r.Context())
		if claims == nil || claims.Role != "admin" {
			response.Error(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func (m *AuthMiddleware) validateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(m.jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrInvalidKey
	}

	userIDStr, ok := mapClaims["userID"].(string)
	if !ok {
		return nil, jwt.ErrInvalidKey
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}

	username, ok := mapClaims["username"].(string)
	if !ok {
		return nil, jwt.ErrInvalidKey
	}
	role, ok := mapClaims["role"].(string)
	if !ok {
		return nil, jwt.ErrInvalidKey
	}

	return &UserClaims{
		UserID:   userID,
		Username: username,
		Role:     role,
	}, nil
}

func GetUserFromContext(ctx context.Context) *UserClaims {
	claims, ok := ctx.Value(UserContextKey).(*UserClaims)
	if !ok {
		return nil
	}
	return claims
}
