package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/config"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/database"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/handlers"
	appmiddleware "github.com/abhi-19-09-2006/AI-Presentation-coach/internal/middleware"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/repositories/privacy"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/repositories/reports"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/repositories/sessions"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/repositories/subscriptions"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/repositories/users"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/routes"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/services"
	"github.com/abhi-19-09-2006/AI-Presentation-coach/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Check encryption key (warn if not set, but don't fail)
	encryptStudentIDs := false
	if cfg.EncryptionKey == "" {
		log.Println("⚠️  WARNING: ENCRYPTION_KEY not set. Student ID encryption will not work.")
		log.Println("   To generate a key, run: openssl rand -base64 32")
		log.Println("   Set it in your environment: ENCRYPTION_KEY=<generated-key>")
	} else {
		if _, err := utils.GetEncryptionKey(); err != nil {
			log.Printf("⚠️  WARNING: ENCRYPTION_KEY is invalid: %v", err)
			log.Println("   Student ID encryption will not work.")
			log.Println("   Key must be base64-encoded 32 bytes. Generate with: openssl rand -base64 32")
		} else {
			log.Println("✅ Encryption key configured")
			encryptStudentIDs = true
		}
	}

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	db, err := database.ConnectPostgres(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	rdb, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()

	// Connect to MongoDB
	log.Printf("Connecting to MongoDB...")
	mongoClient, mongoDB, err := database.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.DisconnectMongo(mongoClient)

	// Repositories
	userRepo := users.NewPostgresRepository(db)
	subRepo := subscriptions.NewPostgresRepository(db)
	sessionStore := sessions.NewRedisStore(rdb)
	liveStore := sessions.NewRedisLiveStore(rdb)
	reportRepo := reports.NewMongoRepository(mongoDB)
	privacyRepo := privacy.NewPostgresRepository(db)

	if err := reportRepo.EnsureIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB report indexes: %v", err)
	} else {
		log.Println("✅ MongoDB report indexes ensured")
	}

	// Services
	userService := services.NewUserService(userRepo, encryptStudentIDs)
	sessionManager := services.NewSessionManager(sessionStore)
	subService := services.NewSubscriptionService(subRepo, cfg.FreeWindowPolicy)
	analysisService := services.NewAnalysisService(subService, liveStore, reportRepo)
	realtimeService := services.NewRealtimeService(rdb)
	privacyService := services.NewPrivacyService(reportRepo, sessionManager, privacyRepo)

	// Cloudinary is optional; verification uploads 503 without it.
	var uploadService *services.CloudinaryService
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		uploadService, err = services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("Verification document uploads will not be available")
		} else {
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. Verification document uploads will not be available")
	}

	// Background workers: live-event fanout and audit-log retention.
	realtimeService.StartSubscriber(context.Background())
	privacyService.StartRetentionSweep(context.Background(), time.Hour, 90*24*time.Hour)
	log.Println("✅ Privacy retention sweep started (removes audit events older than 90 days)")

	h := &handlers.Handler{
		Users:    userService,
		Sessions: sessionManager,
		Subs:     subService,
		Analysis: analysisService,
		Realtime: realtimeService,
		Privacy:  privacyService,
		Uploads:  uploadService,
	}

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Production: security headers, host check, per-IP + login rate limiting.
	// Non-production: Redis-based rate limit only.
	if cfg.IsProduction() {
		for _, mw := range appmiddleware.ProductionSecurity(cfg.AllowedHost) {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP + login rate limiting)")
	} else {
		r.Use(appmiddleware.RateLimit(rdb))
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r, h)

	log.Printf("🚀 AI Presentation Coach backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
