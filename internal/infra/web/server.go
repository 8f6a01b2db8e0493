package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"blackinpay/internal/domain/ports/repository"
	"blackinpay/internal/infra/logging"
	"blackinpay/internal/infra/redis"
	"blackinpay/internal/infra/security"
	"blackinpay/internal/usecase"
)

// Server owns the HTTP surface: the owner panel API, the Telegram webhook and
// the PushinPay webhook.
type Server struct {
	ownerUC      usecase.OwnerUseCase
	botUC        usecase.BotUseCase
	planUC       usecase.PlanUseCase
	paymentUC    usecase.PaymentUseCase
	groupUC      usecase.GroupUseCase
	withdrawalUC usecase.WithdrawalUseCase
	statsUC      usecase.StatsUseCase
	activationUC usecase.ActivationUseCase
	dispatcher   usecase.DispatcherUseCase

	bots    repository.BotRepository
	tokens  *security.TokenManager
	limiter *redis.RateLimiter

	cookieName string
	log        *zerolog.Logger
}

func NewServer(
	ownerUC usecase.OwnerUseCase,
	botUC usecase.BotUseCase,
	planUC usecase.PlanUseCase,
	paymentUC usecase.PaymentUseCase,
	groupUC usecase.GroupUseCase,
	withdrawalUC usecase.WithdrawalUseCase,
	statsUC usecase.StatsUseCase,
	activationUC usecase.ActivationUseCase,
	dispatcher usecase.DispatcherUseCase,
	bots repository.BotRepository,
	tokens *security.TokenManager,
	limiter *redis.RateLimiter,
	cookieName string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		ownerUC:      ownerUC,
		botUC:        botUC,
		planUC:       planUC,
		paymentUC:    paymentUC,
		groupUC:      groupUC,
		withdrawalUC: withdrawalUC,
		statsUC:      statsUC,
		activationUC: activationUC,
		dispatcher:   dispatcher,
		bots:         bots,
		tokens:       tokens,
		limiter:      limiter,
		cookieName:   cookieName,
		log:          logger,
	}
}

// Router assembles the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Inbound webhooks, no session auth.
		r.Post("/webhook/{botID}", s.handleTelegramWebhook)
		r.Post("/webhook/token/{token}", s.handleTelegramWebhookByToken)
		r.Post("/payments/webhook", s.handlePaymentProviderWebhook)

		// Payer-facing payment endpoints, reached from the Telegram flow.
		r.Post("/payments", s.handlePaymentCreate)
		r.Get("/payments/{paymentID}", s.handlePaymentGet)
		r.Get("/payments/{paymentID}/status", s.handlePaymentStatus)

		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)

		// Owner panel.
		r.Group(func(r chi.Router) {
			r.Use(s.requireOwner)

			r.Get("/auth/me", s.handleMe)

			r.Route("/bots", func(r chi.Router) {
				r.Post("/", s.handleBotCreate)
				r.Get("/", s.handleBotList)
				r.Route("/{botID}", func(r chi.Router) {
					r.Get("/", s.handleBotGet)
					r.Put("/", s.handleBotUpdate)
					r.Patch("/", s.handleBotPatchStatus)
					r.Delete("/", s.handleBotDelete)

					r.Post("/webhook", s.handleBotSetWebhook)
					r.Delete("/webhook", s.handleBotDeleteWebhook)
					r.Get("/webhook", s.handleBotWebhookInfo)

					r.Post("/activation-code", s.handleActivationCodeCreate)

					r.Get("/plans", s.handlePlanList)
					r.Post("/plans", s.handlePlanCreate)

					r.Get("/groups", s.handleGroupList)
					r.Post("/groups/sync", s.handleGroupSync)
				})
			})

			r.Put("/plans/{planID}", s.handlePlanUpdate)
			r.Delete("/plans/{planID}", s.handlePlanDelete)

			r.Get("/groups/{groupID}/members", s.handleGroupMembers)

			r.Get("/finance/balance", s.handleBalance)
			r.Put("/finance/split", s.handleUpdateSplit)
			r.Post("/withdrawals", s.handleWithdrawalCreate)
			r.Get("/withdrawals", s.handleWithdrawalList)
			r.Get("/withdrawals/{withdrawalID}", s.handleWithdrawalGet)

			r.Get("/stats", s.handleStats)
		})
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logging.WithTraceID(r.Context(), middleware.GetReqID(r.Context()))
		r = r.WithContext(ctx)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.With(ctx, s.log).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}
