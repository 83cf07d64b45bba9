package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"gemchat/backend/internal/authflow"
	"gemchat/backend/internal/clock"
	"gemchat/backend/internal/handlers"
	"gemchat/backend/internal/services"
	"gemchat/backend/internal/storage"
	"gemchat/backend/internal/store"
	"gemchat/backend/internal/websocket"
	"gemchat/backend/pkg/auth"
)

type Server struct {
	Router    *gin.Engine
	Blobs     storage.BlobStore
	Redis     *redis.Client
	Hub       *websocket.Hub
	Responder *services.Responder
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	var rdb *redis.Client
	if url := os.Getenv("REDIS_URL"); url != "" {
		opts, err := redis.ParseURL(url)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Redis connect failed: %v", err)
		}
	}

	blobs := newBlobStore(rdb)
	clk := clock.System{}

	rooms := store.NewChatrooms(blobs)
	if err := rooms.Load(context.Background()); err != nil {
		log.Fatalf("load chatrooms: %v", err)
	}
	ledger := store.NewMessages(blobs, clk)
	if err := ledger.Load(context.Background()); err != nil {
		log.Fatalf("load messages: %v", err)
	}

	hub := websocket.NewHub()
	go hub.Run()

	responder := services.NewResponder(ledger, hub, clk)

	verifier, err := authflow.NewStaticVerifier(authflow.ReferenceCode)
	if err != nil {
		log.Fatalf("otp verifier init failed: %v", err)
	}
	dispatcher := authflow.NewSimulatedDispatcher(clk)
	flows := authflow.NewManager(func() *authflow.Flow {
		return authflow.New(clk, dispatcher, verifier, blobs)
	})

	jwtMgr := auth.NewJWTManager(
		os.Getenv("JWT_SECRET"),
		24*time.Hour,
	)

	authH := handlers.NewAuthHandler(flows, jwtMgr, rdb)
	roomH := handlers.NewRoomHandler(rooms, ledger, responder, hub)
	msgH := handlers.NewMessageHandler(rooms, ledger, responder, hub)
	wsH := handlers.NewWSHandler(hub)

	router := gin.Default()
	APIEndpoints(router, authH, roomH, msgH, wsH, jwtMgr, rdb)

	return &Server{
		Router:    router,
		Blobs:     blobs,
		Redis:     rdb,
		Hub:       hub,
		Responder: responder,
	}
}

// newBlobStore выбирает бэкенд: Postgres, затем Redis, иначе память
func newBlobStore(rdb *redis.Client) storage.BlobStore {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		blobs, err := storage.NewPostgresStore(dsn)
		if err != nil {
			log.Fatalf("Postgres connect failed: %v", err)
		}
		return blobs
	}
	if rdb != nil {
		return storage.NewRedisStore(rdb)
	}
	log.Println("no DATABASE_URL or REDIS_URL, state will not survive restarts")
	return storage.NewMemoryStore()
}

func (s *Server) Run() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s", port)
	if err := s.Router.Run(":" + port); err != nil {
		log.Fatalf("Server run error: %v", err)
	}
}
