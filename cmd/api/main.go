package main

import (
	"io"
	"log"
	"os"

	"github.com/devhaven/account-api/internal/config"
	"github.com/devhaven/account-api/internal/logging"
	"github.com/devhaven/account-api/internal/media"
	miniorepo "github.com/devhaven/account-api/internal/repository/minio"
	"github.com/devhaven/account-api/internal/repository/postgres"
	"github.com/devhaven/account-api/internal/service"
	transporthttp "github.com/devhaven/account-api/internal/transport/http"
	"github.com/devhaven/account-api/internal/transport/mail"
	"github.com/devhaven/account-api/internal/util"
)

func main() {
	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		mirror, err := logging.NewMirror(logging.MirrorConfig{Addr: cfg.LogstashTCPAddr})
		if err != nil {
			log.Printf("Warning: logstash mirror disabled: %v", err)
		} else {
			defer mirror.Close()
			log.SetOutput(io.MultiWriter(os.Stderr, mirror))
		}
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	minioClient, err := miniorepo.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
	if err != nil {
		log.Fatalf("object storage: %v", err)
	}
	storage := miniorepo.NewStorage(minioClient, cfg.MinIOEndpoint, cfg.MinIOPublicURL, cfg.MinIOUseSSL)

	users := postgres.NewUserRepo(db)
	resets := postgres.NewPasswordResetRepo(db)
	processor := media.NewFFMPEGProcessor(cfg.FFMPEGPath, media.DefaultMaxDimension)
	mailer := mail.NewPasswordResetMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	tokens := util.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)

	auth := service.NewAuthService(users, resets, storage, processor, mailer, tokens,
		cfg.MinIOBucketAvatar, cfg.FrontendBaseURL, cfg.PasswordResetTTL)

	e := transporthttp.NewRouter(cfg.AllowOrigins)
	transporthttp.RegisterPages(e)
	transporthttp.RegisterSwagger(e)
	transporthttp.RegisterAuth(e, auth, transporthttp.AuthHandlerConfig{
		CookieDomain:   cfg.CookieDomain,
		CookieSecure:   cfg.CookieSecure,
		AvatarMaxBytes: cfg.AvatarMaxBytes,
	})

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
