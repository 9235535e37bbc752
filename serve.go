package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thedevbrian1/thevervefashion-fly/auth"
	"github.com/thedevbrian1/thevervefashion-fly/catalog"
	"github.com/thedevbrian1/thevervefashion-fly/checkout"
	"github.com/thedevbrian1/thevervefashion-fly/config"
	"github.com/thedevbrian1/thevervefashion-fly/events"
	"github.com/thedevbrian1/thevervefashion-fly/logging"
	"github.com/thedevbrian1/thevervefashion-fly/media"
	"github.com/thedevbrian1/thevervefashion-fly/models"
	"github.com/thedevbrian1/thevervefashion-fly/routes"
	"github.com/thedevbrian1/thevervefashion-fly/session"
)

const shutdownTimeout = 10 * time.Second

func runServe() error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()
	log.Info("starting application", zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init DB
	db, err := initDatabase(cfg)
	if err != nil {
		return err
	}
	if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	store, folder, err := newMediaStore(cfg, log)
	if err != nil {
		return err
	}
	if local, ok := store.(*media.Local); ok && cfg.BackupDir != "" {
		b := &media.Backup{Src: local.Dir(), Dst: cfg.BackupDir, Retention: cfg.BackupRetention, Log: log}
		go b.RunDaily(ctx, 2, 0)
	}

	sessions, err := session.NewStore(session.Options{
		HashKey:  []byte(cfg.SessionHashKey),
		BlockKey: []byte(cfg.SessionBlockKey),
		MaxAge:   cfg.SessionMaxAge,
		Secure:   cfg.SecureCookies,
	}, log)
	if err != nil {
		return err
	}

	verifier, err := newVerifier(ctx, cfg, log)
	if err != nil {
		return err
	}

	secret := cfg.JWTSecret
	if secret == "" {
		// Only reachable in dev; tokens stop working on restart.
		secret = uuid.NewString()
		log.Warn("JWT_SECRET not set, using a random secret")
	}
	issuer := auth.NewIssuer(secret, auth.DefaultTokenTTL)

	publisher, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer publisher.Close()

	checkout.RegisterValidators()
	products := catalog.NewRepository(db)
	hub := events.NewHub(log, cfg.AllowedOrigins)
	defer hub.Close()

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logging.Recovery(log), logging.Middleware(log))

	// Allow large image uploads
	r.MaxMultipartMemory = 64 << 20

	// CORS settings; credentials are needed for the session cookie
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serve images saved without a CDN
	if local, ok := store.(*media.Local); ok {
		r.Static("/uploads", local.Dir())
	}

	routes.SetupRoutes(r, routes.Deps{
		DB:          db,
		Catalog:     products,
		Sessions:    sessions,
		Checkout:    checkout.NewService(products, checkout.NewGormStore(db), publisher, log),
		Media:       store,
		MediaFolder: folder,
		Hub:         hub,
		Verifier:    verifier,
		Admins:      auth.NewGormAdmins(db),
		Issuer:      issuer,
		Login:       auth.LoginConfig{SuperAdminEmail: cfg.SuperAdminEmail, SecureCookie: cfg.SecureCookies},
		Log:         log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newMediaStore uses Cloudinary when credentials are configured and local
// disk otherwise. The returned folder is what CDN public ids start with.
func newMediaStore(cfg config.Config, log *zap.Logger) (media.Store, string, error) {
	if cfg.CloudinaryEnabled() {
		cld, err := media.NewCloudinary(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder, log)
		if err != nil {
			return nil, "", err
		}
		return cld, cld.Folder(), nil
	}
	log.Warn("cloudinary not configured, storing images on disk", zap.String("dir", cfg.UploadDir))
	local, err := media.NewLocal(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		return nil, "", err
	}
	return local, "", nil
}

func newVerifier(ctx context.Context, cfg config.Config, log *zap.Logger) (auth.Verifier, error) {
	if !cfg.FirebaseEnabled() {
		log.Warn("firebase not configured, dashboard sign-in disabled")
		return auth.DisabledVerifier{}, nil
	}
	return auth.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsJSON)
}

func newPublisher(cfg config.Config, log *zap.Logger) (checkout.Publisher, error) {
	if cfg.AMQPURL == "" {
		log.Warn("AMQP_URL not set, checkout requests are only logged")
		return checkout.NewLogPublisher(log), nil
	}
	return checkout.NewAMQPPublisher(cfg.AMQPURL, cfg.CheckoutQueue, log)
}
