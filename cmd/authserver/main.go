// Command authserver runs the account service: verification-code issuance,
// registration, login, session introspection, and account deletion over HTTP.
package main

import (
	"context"
	"crypto/rand"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"secureapp/server/auth"
	"secureapp/server/internal/audit"
	"secureapp/server/internal/config"
	"secureapp/server/internal/httpapi"
	"secureapp/server/internal/store"
	"secureapp/server/internal/store/memory"
	"secureapp/server/internal/store/sqlite"
	"secureapp/server/mail"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	// ---------- user store ----------
	var users store.UserStore
	if cfg.DatabasePath != "" {
		st, err := sqlite.Open(cfg.DatabasePath)
		if err != nil {
			logger.Error("sqlite open failed", "path", cfg.DatabasePath, "error", err)
			os.Exit(1)
		}
		defer st.Close()
		users = st
		logger.Info("using sqlite store", "path", cfg.DatabasePath)
	} else {
		users = memory.NewStore()
		logger.Warn("DATABASE_PATH not set, accounts will not survive restarts")
	}

	// ---------- redis (verification codes) ----------
	redisAddr := cfg.RedisAddr
	if redisAddr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			logger.Error("embedded redis start failed", "error", err)
			os.Exit(1)
		}
		defer mr.Close()
		redisAddr = mr.Addr()
		logger.Warn("REDIS_ADDR not set, using embedded in-process redis")
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	// ---------- mail ----------
	var mailer mail.Sender
	if cfg.ResendAPIKey != "" {
		client := mail.NewResendClient(cfg.ResendAPIKey, cfg.ResendFromEmail)
		readyCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		ready := client.Ready(readyCtx)
		cancel()
		if ready {
			mailer = client
			logger.Info("email delivery enabled", "from", cfg.ResendFromEmail)
		} else {
			logger.Warn("email provider not reachable, verification codes will only be logged")
		}
	} else {
		logger.Warn("RESEND_API_KEY not set, verification codes will only be logged")
	}
	if mailer == nil {
		mailer = mail.NewLogSender(logger)
	}

	// ---------- engine ----------
	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			logger.Error("secret generation failed", "error", err)
			os.Exit(1)
		}
		logger.Warn("JWT_SECRET not set, using a random per-process secret; tokens will not survive restarts")
	}

	engineCfg := auth.DefaultConfig()
	engineCfg.JWT.Secret = secret
	engineCfg.JWT.TTL = cfg.TokenTTL
	engineCfg.Codes.TTL = cfg.CodeTTL
	engineCfg.Codes.ResendCooldown = cfg.ResendCooldown
	engineCfg.Login.MaxAttempts = cfg.MaxLoginAttempts
	engineCfg.Login.Window = cfg.AttemptWindow
	engineCfg.Login.LockoutDuration = cfg.LockoutDuration

	builder := auth.New().
		WithConfig(engineCfg).
		WithRedis(rdb).
		WithUserStore(users).
		WithMailer(mailer).
		WithLogger(logger)

	if cfg.AuditLog {
		builder = builder.WithAuditSink(audit.NewJSONWriterSink(os.Stdout))
	}

	engine, err := builder.Build()
	if err != nil {
		logger.Error("engine build failed", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	// ---------- http ----------
	srv := httpapi.NewServer(engine, logger)
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("authserver listening", "addr", cfg.ListenAddr())
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
}
