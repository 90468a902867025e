package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adeyemimuse/sproutvest-backend/api/controllers"
	webhookcontrollers "github.com/adeyemimuse/sproutvest-backend/api/controllers/webhooks"
	"github.com/adeyemimuse/sproutvest-backend/api/middleware"
	"github.com/adeyemimuse/sproutvest-backend/internal/audit"
	"github.com/adeyemimuse/sproutvest-backend/internal/disputes"
	"github.com/adeyemimuse/sproutvest-backend/internal/funding"
	"github.com/adeyemimuse/sproutvest-backend/internal/investments"
	"github.com/adeyemimuse/sproutvest-backend/internal/notifications"
	"github.com/adeyemimuse/sproutvest-backend/internal/opportunities"
	"github.com/adeyemimuse/sproutvest-backend/internal/portfolio"
	"github.com/adeyemimuse/sproutvest-backend/internal/reconcile"
	"github.com/adeyemimuse/sproutvest-backend/internal/transfers"
	webhookspkg "github.com/adeyemimuse/sproutvest-backend/internal/webhooks"
	"github.com/adeyemimuse/sproutvest-backend/pkg/config"
	"github.com/adeyemimuse/sproutvest-backend/pkg/db"
	"github.com/adeyemimuse/sproutvest-backend/pkg/enums"
	"github.com/adeyemimuse/sproutvest-backend/pkg/logger"
	"github.com/adeyemimuse/sproutvest-backend/pkg/metrics"
)

// Deps carries everything the router mounts. cmd/api builds one of these
// after wiring services.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      *db.Client
	Metrics *metrics.WebhookMetrics

	StripeSource      webhookspkg.Source
	FlutterwaveSource webhookspkg.Source
	Engine            *reconcile.Service
	Guard             *webhookspkg.DeliveryGuard

	Investments   investments.Service
	Opportunities opportunities.Service
	Portfolio     portfolio.Service
	Notifications notifications.Service
	Disputes      disputes.Service
	Transfers     transfers.Service
	Funding       funding.Service
	Audit         audit.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, logg))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/payments", webhookcontrollers.PaymentWebhook(webhookcontrollers.PaymentWebhookParams{
			Stripe:       deps.StripeSource,
			Flutterwave:  deps.FlutterwaveSource,
			Engine:       deps.Engine,
			Guard:        deps.Guard,
			Audit:        deps.Audit,
			Metrics:      deps.Metrics,
			Logger:       logg,
			MaxBodyBytes: cfg.Webhooks.MaxBodyBytes,
		}))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/v1/investments", func(r chi.Router) {
			r.Get("/", controllers.ListMyInvestments(deps.Investments, logg))
			r.Get("/{investmentId}", controllers.GetMyInvestment(deps.Investments, logg))
		})

		r.Route("/v1/opportunities", func(r chi.Router) {
			r.Get("/", controllers.ListOpportunities(deps.Opportunities, logg))
			r.Get("/{opportunityId}", controllers.GetOpportunity(deps.Opportunities, logg))
		})

		r.Get("/v1/portfolio", controllers.PortfolioOverview(deps.Portfolio, logg))

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListMyNotifications(deps.Notifications, logg))
			r.Get("/unread-count", controllers.UnreadNotificationCount(deps.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

		r.Route("/v1/disputes", func(r chi.Router) {
			r.Get("/", controllers.AdminListDisputes(deps.Disputes, logg))
			r.Get("/{disputeId}", controllers.AdminGetDispute(deps.Disputes, logg))
			r.Patch("/{disputeId}", controllers.AdminResolveDispute(deps.Disputes, logg))
		})

		r.Get("/v1/transfers", controllers.AdminListTransfers(deps.Transfers, logg))
		r.Get("/v1/audit", controllers.AdminListAuditEntries(deps.Audit, logg))
		r.Get("/v1/opportunities/{opportunityId}/funding", controllers.AdminOpportunityFunding(deps.Funding, logg))
		r.Get("/v1/notifications", controllers.OperatorNotificationFeed(deps.Notifications, logg))
	})

	return r
}
