package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	"obmenBack/internal/config"
	"obmenBack/internal/handlers"
	"obmenBack/internal/repositories"
	"obmenBack/internal/services"
	"obmenBack/utils"
)

type application struct {
	errorLog        *log.Logger
	infoLog         *log.Logger
	signingKey      string
	accessTTL       time.Duration
	sessions        *repositories.SessionStore
	tokenManager    *utils.Manager
	userHandler     *handlers.UserHandler
	adHandler       *handlers.AdHandler
	exchangeHandler *handlers.ExchangeHandler
	db              *sql.DB
}

func initializeApp(db *sql.DB, rdb *redis.Client, cfg config.Config, errorLog, infoLog *log.Logger) *application {
	// Repositories
	userRepo := repositories.UserRepository{DB: db}
	adRepo := repositories.AdRepository{DB: db}
	exchangeRepo := repositories.ExchangeRepository{DB: db}
	notifyTokenRepo := repositories.NotifyTokenRepository{DB: db}
	sessions := &repositories.SessionStore{RDB: rdb, TTL: cfg.Auth.RefreshTTL}

	tokenManager, err := utils.NewManager(cfg.Auth.SigningKey)
	if err != nil {
		errorLog.Fatal(err)
	}

	pushService := &services.PushService{
		Client: newMessagingClient(cfg, infoLog, errorLog),
		Tokens: &notifyTokenRepo,
	}

	// Services
	userService := &services.UserService{
		UserRepo:     &userRepo,
		Sessions:     sessions,
		TokenManager: tokenManager,
		SigningKey:   cfg.Auth.SigningKey,
		AccessTTL:    cfg.Auth.AccessTTL,
		RefreshTTL:   cfg.Auth.RefreshTTL,
	}
	adService := &services.AdService{AdRepo: &adRepo}
	exchangeService := &services.ExchangeService{
		ExchangeRepo: &exchangeRepo,
		AdRepo:       &adRepo,
		Notifier:     pushService,
	}

	// Handlers
	userHandler := &handlers.UserHandler{Service: userService, Push: pushService}
	adHandler := &handlers.AdHandler{Service: adService, SigningKey: cfg.Auth.SigningKey}
	exchangeHandler := &handlers.ExchangeHandler{Service: exchangeService}

	return &application{
		errorLog:        errorLog,
		infoLog:         infoLog,
		signingKey:      cfg.Auth.SigningKey,
		accessTTL:       cfg.Auth.AccessTTL,
		sessions:        sessions,
		tokenManager:    tokenManager,
		userHandler:     userHandler,
		adHandler:       adHandler,
		exchangeHandler: exchangeHandler,
		db:              db,
	}
}

// newMessagingClient returns nil when firebase credentials are not configured;
// PushService treats a nil client as "pushes disabled".
func newMessagingClient(cfg config.Config, infoLog, errorLog *log.Logger) *messaging.Client {
	if cfg.Firebase.CredentialsFile == "" {
		infoLog.Println("Firebase credentials not configured, push notifications disabled")
		return nil
	}

	ctx := context.Background()
	fbApp, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	if err != nil {
		errorLog.Printf("Failed to initialize firebase app: %v", err)
		return nil
	}

	client, err := fbApp.Messaging(ctx)
	if err != nil {
		errorLog.Printf("Failed to initialize firebase messaging: %v", err)
		return nil
	}
	return client
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		return nil, err
	}
	db.SetMaxIdleConns(35)
	log.Println("Successfully connected to database")
	return db, nil
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
