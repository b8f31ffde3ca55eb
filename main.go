package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kelvinjchung/LittleLemon-api/configs"
	"github.com/kelvinjchung/LittleLemon-api/internal/auth"
	"github.com/kelvinjchung/LittleLemon-api/internal/db"
	"github.com/kelvinjchung/LittleLemon-api/internal/handlers"
	"github.com/kelvinjchung/LittleLemon-api/internal/middlewares"
	"github.com/kelvinjchung/LittleLemon-api/internal/notifier"
	"github.com/kelvinjchung/LittleLemon-api/internal/repository"
	"github.com/kelvinjchung/LittleLemon-api/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx := context.Background()
	sinks, closeSinks := buildNotifiers(ctx, cfg)
	dispatcher := notifier.NewDispatcher(sinks...)

	users := repository.NewUsers(repository.NewStore(database))

	var oidcAuth *auth.OIDC
	if cfg.Auth.OIDC.Issuer != "" {
		oidcAuth, err = auth.NewOIDC(ctx, cfg.Auth.OIDC, users)
		if err != nil {
			log.Fatalf("%v", err)
		}
	}

	r := setupRouter(cfg, database, dispatcher, oidcAuth)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	dispatcher.Wait()
	closeSinks()
	log.Println("Server stopped")
}

func setupRouter(cfg config.Config, database *gorm.DB, n notifier.Notifier, oidcAuth *auth.OIDC) *gin.Engine {
	store := repository.NewStore(database)
	users := repository.NewUsers(store)
	items := repository.NewMenuItems(store)
	carts := repository.NewCarts(store)

	h := handlers.New(
		services.NewMenuService(items, repository.NewCategories(store)),
		services.NewCartService(carts, items),
		services.NewOrderService(store, repository.NewOrders(store), carts, users, n),
		services.NewGroupService(users),
	)

	r := gin.New()
	r.Use(middlewares.RequestID(), middlewares.Logger(), gin.Recovery())
	r.Use(middlewares.CORS(cfg.CORS.AllowOrigins))

	// ── session store ──
	sessionStore := cookie.NewStore([]byte(cfg.Auth.SessionSecret))
	sessionStore.Options(sessions.Options{Path: "/", HttpOnly: true, MaxAge: 7 * 24 * 3600})
	r.Use(sessions.Sessions(auth.SessionName, sessionStore))

	// ── public endpoints ──
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if oidcAuth != nil {
		r.GET("/auth/login", oidcAuth.Login)
		r.GET("/auth/callback", oidcAuth.Callback)
	}

	// ── API; access is decided per route by the policy ──
	api := r.Group("/api")
	api.Use(auth.Authenticate(users, cfg.Auth.JWTSecret))
	h.RegisterRoutes(api)

	return r
}

// buildNotifiers returns the sinks that are configured and a func closing them.
func buildNotifiers(ctx context.Context, cfg config.Config) ([]notifier.Notifier, func()) {
	var sinks []notifier.Notifier
	closeFn := func() {}

	if cfg.Email.SenderEmail != "" {
		email, err := notifier.NewEmailNotifier(ctx, cfg.Email)
		if err != nil {
			log.Printf("Email notifications disabled: %v", err)
		} else {
			sinks = append(sinks, email)
		}
	}

	if cfg.AfricaTalking.APIKey != "" {
		sinks = append(sinks, notifier.NewSMSNotifier(cfg.AfricaTalking, &http.Client{Timeout: 10 * time.Second}))
	}

	if cfg.Rabbit.URL != "" {
		rabbit, err := notifier.DialRabbit(cfg.Rabbit)
		if err != nil {
			log.Printf("Order events disabled: %v", err)
		} else {
			sinks = append(sinks, rabbit)
			closeFn = rabbit.Close
		}
	}

	log.Printf("Order notifications: %d sink(s) configured", len(sinks))
	return sinks, closeFn
}
