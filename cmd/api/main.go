package main

import (
	"fmt"
	"net/http"

	"farmlink-backend/internal/config"
	"farmlink-backend/internal/database"
	"farmlink-backend/internal/handlers"
	"farmlink-backend/internal/middleware"
	"farmlink-backend/internal/storage"

	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	images, err := storage.New(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)
	authHandler := handlers.NewAuthHandler(db, cfg.JWTSecret, cfg.TokenTTL, images)
	authService := authHandler.Service()
	blogHandler := handlers.NewBlogHandler(db, authService, images)
	productHandler := handlers.NewProductHandler(db, authService, images)
	adminHandler := handlers.NewAdminHandler(db, authService, images)

	router := http.NewServeMux()

	router.HandleFunc("POST /api/auth/register", authHandler.RegisterUser)
	router.HandleFunc("POST /api/auth/login", authHandler.LoginUser)
	router.HandleFunc("POST /api/auth/logout", authHandler.LogoutUser)
	router.Handle("GET /api/auth/me", authMiddleware.RequireAuth(http.HandlerFunc(authHandler.GetMe)))
	router.Handle("PUT /api/profile", authMiddleware.RequireAuth(http.HandlerFunc(authHandler.CompleteProfile)))
	router.Handle("POST /api/profile/skip", authMiddleware.RequireAuth(http.HandlerFunc(authHandler.SkipProfile)))
	router.HandleFunc("GET /api/consultants", authHandler.ListConsultants)

	router.Handle("GET /api/posts", authMiddleware.OptionalAuth(http.HandlerFunc(blogHandler.ListPosts)))
	router.Handle("POST /api/posts", authMiddleware.RequireAuth(http.HandlerFunc(blogHandler.CreatePost)))
	router.Handle("GET /api/posts/{id}", authMiddleware.OptionalAuth(http.HandlerFunc(blogHandler.GetPost)))
	router.Handle("PUT /api/posts/{id}", authMiddleware.RequireAuth(http.HandlerFunc(blogHandler.UpdatePost)))
	router.Handle("DELETE /api/posts/{id}", authMiddleware.RequireAuth(http.HandlerFunc(blogHandler.DeletePost)))
	router.Handle("POST /api/posts/{id}/comments", authMiddleware.RequireAuth(http.HandlerFunc(blogHandler.CreateComment)))
	router.Handle("DELETE /api/comments/{id}", authMiddleware.RequireAuth(http.HandlerFunc(blogHandler.DeleteComment)))
	router.Handle("POST /api/posts/{id}/like", authMiddleware.RequireAuth(http.HandlerFunc(blogHandler.ToggleLike)))

	router.HandleFunc("GET /api/products", productHandler.ListProducts)
	router.Handle("POST /api/products", authMiddleware.RequireAuth(http.HandlerFunc(productHandler.CreateProduct)))
	router.HandleFunc("GET /api/products/{id}", productHandler.GetProduct)
	router.Handle("DELETE /api/products/{id}", authMiddleware.RequireAuth(http.HandlerFunc(productHandler.DeleteProduct)))

	router.Handle("GET /api/admin/stats", authMiddleware.RequireAdmin(http.HandlerFunc(adminHandler.GetStats)))
	router.Handle("GET /api/admin/users", authMiddleware.RequireAdmin(http.HandlerFunc(adminHandler.ListUsers)))
	router.Handle("PUT /api/admin/users/{id}/role", authMiddleware.RequireAdmin(http.HandlerFunc(adminHandler.ChangeRole)))
	router.Handle("PUT /api/admin/users/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(adminHandler.UpdateUser)))
	router.Handle("DELETE /api/admin/users/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(adminHandler.DeleteUser)))

	router.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(images.Root()))))

	handler := middleware.RequestLogger(log)(corsMiddleware(cfg.CORSOrigin, router))

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	log.Infof("Server starting on http://%s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

func corsMiddleware(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Must be strict because of http-only cookies, otherwise won't work
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
