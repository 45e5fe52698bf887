package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/promokit/bogo-promo-service/internal/api"
	"github.com/promokit/bogo-promo-service/internal/api/middleware"
	"github.com/promokit/bogo-promo-service/internal/cart"
	"github.com/promokit/bogo-promo-service/internal/config"
	"github.com/promokit/bogo-promo-service/internal/logging"
	"github.com/promokit/bogo-promo-service/internal/repository"
	"github.com/promokit/bogo-promo-service/internal/service"
	"github.com/promokit/bogo-promo-service/pkg/db"
)

func main() {
	logger := logging.Setup("bogo-service")

	cfg, err := config.Load(os.Getenv("BOGO_CONFIG"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// load DB config from env
	dbCfg, _ := db.LoadPostgresConfig()

	conn, err := db.NewPostgresConnection(dbCfg)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer conn.Close()

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.EnsureSchema(schemaCtx, conn); err != nil {
		cancelSchema()
		log.Fatalf("schema: %v", err)
	}
	cancelSchema()

	// wire repos, cart store and service
	ruleRepo := repository.NewRuleRepo(conn)
	productRepo := repository.NewProductRepo(conn)
	carts := cart.NewStore()
	svc := service.NewPromoService(ruleRepo, productRepo, carts, cfg.CartURL)

	handler := api.NewRouter(svc, cfg)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Mount("/", handler)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		<-c
		// we received an interrupt signal, shut down.
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("HTTP server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	logger.Info("starting bogo-service", "addr", cfg.Addr, "template", cfg.Template)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("listen: %s\n", err)
	}

	<-idleConnsClosed
	logger.Info("server stopped")
}
