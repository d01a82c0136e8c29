package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"github.com/tagstock/tagstock/internal/asset"
	"github.com/tagstock/tagstock/internal/auth"
	"github.com/tagstock/tagstock/internal/config"
	"github.com/tagstock/tagstock/internal/handlers"
	"github.com/tagstock/tagstock/internal/markdown"
	"github.com/tagstock/tagstock/internal/notify"
	"github.com/tagstock/tagstock/internal/repo"
	"github.com/tagstock/tagstock/internal/storage"
	"github.com/tagstock/tagstock/models"
	"golang.org/x/exp/slog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()
	logger := slog.Default()

	// Chi
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// OAUTH
	goth.UseProviders(google.New(cfg.GoogleKey, cfg.GoogleSecret, cfg.CallbackURL))

	// Session store
	maxAge := 86400 * 30
	isProd := false
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.MaxAge(maxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = isProd
	gothic.Store = store

	// Database connection
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate models
	if err := db.AutoMigrate(
		models.User{},
		models.Category{},
		models.Asset{},
		models.QrCode{},
		models.Scan{},
		models.Note{},
	); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}

	// Create custom HTTP client with TLS config
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			MaxVersion: tls.VersionTLS13,
			CipherSuites: []uint16{
				tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
				tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
				tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
				tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			},
		},
	}
	httpClient := &http.Client{Transport: tr}

	// AWS S3 configuration (Cloudflare R2)
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithHTTPClient(httpClient),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.AccessKeySecret, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		log.Fatal("ERR CONFIG:", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
	})

	// Asset workflow wiring
	emitter := notify.NewEmitter()
	svc := asset.NewService(
		repo.NewAssetRepository(db),
		repo.NewScanRepository(db),
		storage.NewBlobStore(client),
		markdown.Render,
		emitter,
		logger,
	)

	// User auth
	r.Get("/auth/{provider}/callback", func(w http.ResponseWriter, r *http.Request) {
		handlers.UserLoginHandler(w, r, db)
	})
	r.Post("/logout/{provider}", func(w http.ResponseWriter, r *http.Request) {
		gothic.Logout(w, r)
	})
	r.Post("/auth/{provider}", func(w http.ResponseWriter, r *http.Request) {
		if gothUser, err := gothic.CompleteUserAuth(w, r); err == nil {
			fmt.Fprintf(w, "User already authenticated: %s\n", gothUser.Name)
		} else {
			gothic.BeginAuthHandler(w, r)
		}
	})

	// Available API routes for authenticated users
	r.Route("/api", func(r chi.Router) {
		r.Use(auth.UserMiddleware)
		r.Use(httprate.Limit(
			20,
			1*time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
		))
		r.Get("/assets", func(w http.ResponseWriter, r *http.Request) {
			handlers.ListAssetsHandler(w, r, svc)
		})
		r.Get("/assets/{assetID}", func(w http.ResponseWriter, r *http.Request) {
			handlers.AssetDetailHandler(w, r, svc)
		})
		r.Delete("/assets/{assetID}", func(w http.ResponseWriter, r *http.Request) {
			handlers.DeleteAssetHandler(w, r, svc)
		})
		r.Get("/user", func(w http.ResponseWriter, r *http.Request) {
			handlers.GetUserHandler(w, r, db)
		})
	})

	log.Println("Starting API server on", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, r))
}
