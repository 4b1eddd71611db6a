package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/vendorhub-backend/api/controllers"
	"github.com/angelmondragon/vendorhub-backend/api/middleware"
	"github.com/angelmondragon/vendorhub-backend/internal/auth"
	"github.com/angelmondragon/vendorhub-backend/internal/notifications"
	"github.com/angelmondragon/vendorhub-backend/internal/vendors"
	"github.com/angelmondragon/vendorhub-backend/internal/verification"
	"github.com/angelmondragon/vendorhub-backend/pkg/auth/session"
	"github.com/angelmondragon/vendorhub-backend/pkg/config"
	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
	"github.com/angelmondragon/vendorhub-backend/pkg/logger"
	"github.com/angelmondragon/vendorhub-backend/pkg/metrics"
)

// multipartOverhead leaves room for form fields and part headers on top of the file bytes.
const multipartOverhead = 1 << 20

// Infra carries the shared clients the router probes or mounts directly.
type Infra struct {
	DB             controllers.Pinger
	Redis          controllers.Pinger
	Storage        controllers.Pinger
	Sessions       session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
}

// Services are the domain services exposed over HTTP.
type Services struct {
	Auth          auth.Service
	Register      auth.RegisterService
	AdminRegister auth.AdminRegisterService
	AccountType   auth.AccountTypeService
	Vendors       vendors.Service
	Verification  verification.Service
	Notifications notifications.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, infra Infra, svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, infra.HTTPMetrics),
	)

	maxBody := cfg.Uploads.MaxFileBytes()*int64(cfg.Uploads.MaxOtherDocuments+2) + multipartOverhead

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg,
			controllers.ReadinessCheck{Name: "database", Pinger: infra.DB},
			controllers.ReadinessCheck{Name: "redis", Pinger: infra.Redis},
			controllers.ReadinessCheck{Name: "storage", Pinger: infra.Storage},
		))
	})

	if infra.MetricsHandler != nil {
		r.Handle("/metrics", infra.MetricsHandler)
	}

	authenticated := middleware.Auth(cfg.JWT, infra.Sessions, logg)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(svc.Register, svc.Auth, logg))
		r.Post("/login", controllers.AuthLogin(svc.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svc.Auth, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(svc.Auth, cfg.JWT, logg))
		r.With(authenticated).Post("/account-type", controllers.AuthSelectAccountType(svc.AccountType, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		if !cfg.App.IsProd() {
			r.Post("/register", controllers.AdminAuthRegister(svc.AdminRegister, logg))
		}
		r.Post("/login", controllers.AdminAuthLogin(svc.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticated)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svc.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(svc.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svc.Notifications, logg))
		})

		r.Route("/vendor", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.AccountTypeVendor))

			r.Route("/onboarding", func(r chi.Router) {
				r.Post("/step1", controllers.VendorOnboardingStep1(svc.Vendors, logg))
				r.Post("/step2", controllers.VendorOnboardingStep2(svc.Vendors, maxBody, logg))
				r.Post("/step3", controllers.VendorOnboardingStep3(svc.Vendors, maxBody, logg))
			})
			r.Get("/profile", controllers.VendorProfile(svc.Vendors, logg))
			r.Put("/profile", controllers.VendorUpdateProfile(svc.Vendors, maxBody, logg))
			r.Get("/verification-status", controllers.VendorVerificationStatus(svc.Vendors, logg))
			r.Get("/resubmission", controllers.VendorResubmissionStatus(svc.Vendors, logg))
			r.Get("/rejection", controllers.VendorRejectionDetails(svc.Vendors, logg))
			r.Post("/resubmit", controllers.VendorResubmit(svc.Vendors, maxBody, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(authenticated)
		r.Use(middleware.RequireRole(logg, enums.AccountTypeAdmin))

		r.Route("/vendors", func(r chi.Router) {
			r.Get("/stats", controllers.AdminVendorStats(svc.Verification, logg))
			r.Get("/rejection-stats", controllers.AdminVendorRejectionStats(svc.Verification, logg))
			r.Route("/{vendorId}", func(r chi.Router) {
				r.Get("/", controllers.AdminVendorDetail(svc.Verification, logg))
				r.Delete("/", controllers.AdminDeleteVendor(svc.Verification, logg))
				r.Put("/verify", controllers.AdminVerifyVendor(svc.Verification, logg))
				r.Post("/clear-rejection", controllers.AdminClearRejection(svc.Verification, logg))
				r.Get("/rejection-details", controllers.AdminVendorRejectionDetails(svc.Verification, logg))
				r.Put("/status", controllers.AdminSetVendorStatus(svc.Verification, logg))
			})
		})
	})

	return r
}
