package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blackinpay/internal/config"
	pg "blackinpay/internal/infra/db/postgres"
	"blackinpay/internal/infra/logging"
	"blackinpay/internal/infra/metrics"
	"blackinpay/internal/infra/payment"
	red "blackinpay/internal/infra/redis"
	"blackinpay/internal/infra/sched"
	"blackinpay/internal/infra/security"
	tele "blackinpay/internal/infra/telegram"
	"blackinpay/internal/infra/web"
	"blackinpay/internal/infra/worker"
	"blackinpay/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, relaxed checks)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	txm := pg.NewTxManager(pool)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	rateLimiter := red.NewRateLimiter(redisClient)
	botCache := red.NewBotCache(redisClient, cfg.Redis.TTL)

	// ---- Encryption ----
	encKey := cfg.Security.EncryptionKey
	if len(encKey) != 32 {
		logger.Warn().Msg("security.encryption_key not set or not 32 bytes; falling back to dev key (INSECURE)")
		encKey = "0123456789abcdef0123456789abcdef"
	}
	encSvc, err := security.NewEncryptionService(encKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("encryption service init failed")
	}

	// ---- Repositories ----
	ownerRepo := pg.NewOwnerRepo(pool)
	botRepo := pg.NewBotRepo(pool, encSvc)
	planRepo := pg.NewPlanRepo(pool)
	codeRepo := pg.NewActivationCodeRepo(pool)
	paymentRepo := pg.NewPaymentRepo(pool)
	groupRepo := pg.NewGroupRepo(pool)
	withdrawalRepo := pg.NewWithdrawalRepo(pool)

	// ---- Adapters ----
	tg := tele.NewClient(cfg.Redis.TTL)
	webhookURL := cfg.Server.PublicBaseURL + "/api/payments/webhook"
	gateway := payment.NewPushinPayGateway(cfg.PushinPay.APIKey, cfg.PushinPay.BaseURL, webhookURL)

	// ---- Worker pool for best-effort sends ----
	sendPool := worker.NewPool(cfg.Worker.SendWorkers, *logger)
	sendPool.Start(ctx)
	defer sendPool.Stop()

	// ---- Use cases ----
	hasher := security.NewPasswordHasher()
	ownerUC := usecase.NewOwnerUseCase(ownerRepo, hasher)
	botUC := usecase.NewBotUseCase(botRepo, botCache, tg, cfg.Server.PublicBaseURL)
	planUC := usecase.NewPlanUseCase(planRepo, botRepo)
	activationUC := usecase.NewActivationUseCase(codeRepo, botRepo, botCache, txm)
	paymentUC := usecase.NewPaymentUseCase(paymentRepo, planRepo, botRepo, groupRepo, gateway, tg, txm)
	groupUC := usecase.NewGroupUseCase(groupRepo, botRepo, tg, sendPool, *logger)
	withdrawalUC := usecase.NewWithdrawalUseCase(withdrawalRepo, paymentRepo, ownerRepo, gateway)
	statsUC := usecase.NewStatsUseCase(paymentRepo, planRepo, groupRepo)
	dispatcherUC := usecase.NewDispatcherUseCase(botRepo, botCache, planRepo, groupRepo, activationUC, tg, *logger)

	// ---- HTTP server ----
	metrics.MustRegister()
	tokens := security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	srv := web.NewServer(
		ownerUC, botUC, planUC, paymentUC, groupUC, withdrawalUC, statsUC,
		activationUC, dispatcherUC,
		botRepo, tokens, rateLimiter, cfg.Auth.CookieName, logger,
	)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	// ---- Background workers ----
	reconciler := sched.NewPaymentReconciler(paymentUC, cfg.Scheduler.ReconcileInterval, 5*time.Minute, logger)
	go func() { _ = reconciler.Run(ctx) }()

	expiry := sched.NewExpiryWorker(cfg.Scheduler.ExpirySweep, groupUC, logger)
	go func() { _ = expiry.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
	cancel()
}
