package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/TheBeanyx/E-ceruza/internal/config"
	"github.com/TheBeanyx/E-ceruza/internal/database"
	"github.com/TheBeanyx/E-ceruza/internal/handlers"
	"github.com/TheBeanyx/E-ceruza/internal/middleware"
	"github.com/TheBeanyx/E-ceruza/internal/routes"
	"github.com/TheBeanyx/E-ceruza/internal/services"
	"github.com/TheBeanyx/E-ceruza/internal/store/mongostore"
	"github.com/TheBeanyx/E-ceruza/internal/store/postgres"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	pg, err := postgres.Open(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer pg.Close()

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	redisClient, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	// Connect to MongoDB
	log.Printf("Connecting to MongoDB...")
	mongoClient, mongoDB, err := database.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.DisconnectMongo(mongoClient)

	msgStore := mongostore.New(mongoDB)
	if err := msgStore.EnsureIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB message indexes: %v", err)
	} else {
		log.Println("✅ MongoDB message indexes ensured")
	}

	// Wire services
	sessions := services.NewRedisSessions(redisClient)
	hub := services.NewInboxHub(redisClient)
	hub.Start(context.Background())

	h := &handlers.Handler{
		Credentials: services.NewCredentialService(pg),
		Membership:  services.NewMembershipService(pg, pg),
		Tasks:       services.NewTaskService(pg, pg, pg, cfg.RejectPastDeadlines),
		Messages:    services.NewMessageService(msgStore, pg, hub),
		Sessions:    sessions,
		Users:       pg,
		Feedback:    msgStore,
		Hub:         hub,
	}

	// Setup router
	r := chi.NewRouter()

	// Custom CORS: set headers and respond to OPTIONS with 200 so preflight never gets 403
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r, h)

	log.Printf("✅ Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
