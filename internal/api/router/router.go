package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atf-io/voicehub-sub001/internal/agents"
	"github.com/atf-io/voicehub-sub001/internal/analytics"
	"github.com/atf-io/voicehub-sub001/internal/auth"
	"github.com/atf-io/voicehub-sub001/internal/campaigns"
	"github.com/atf-io/voicehub-sub001/internal/contacts"
	"github.com/atf-io/voicehub-sub001/internal/http/middleware"
	"github.com/atf-io/voicehub-sub001/internal/http/respond"
	"github.com/atf-io/voicehub-sub001/internal/knowledge"
	"github.com/atf-io/voicehub-sub001/internal/phonenumbers"
	"github.com/atf-io/voicehub-sub001/internal/reviews"
	"github.com/atf-io/voicehub-sub001/internal/settings"
	"github.com/atf-io/voicehub-sub001/internal/smsagents"
	syncapi "github.com/atf-io/voicehub-sub001/internal/sync"
	"github.com/atf-io/voicehub-sub001/pkg/logging"
)

// Deps carries everything the router mounts. Handlers left nil have their
// routes omitted, which keeps partial wiring possible in tests.
type Deps struct {
	Logger *logging.Logger

	AuthService *auth.Service
	AuthHandler *auth.Handler

	IdentityProvider middleware.IdentityProviderConfig
	SessionCookie    string
	AllowedOrigins   []string

	Agents       *agents.Handler
	Sync         *syncapi.Handler
	PhoneNumbers *phonenumbers.Handler
	Contacts     *contacts.Handler
	SMSAgents    *smsagents.Handler
	Campaigns    *campaigns.Handler
	Knowledge    *knowledge.Handler
	Reviews      *reviews.Handler
	Settings     *settings.Handler
	Analytics    *analytics.Handler
}

// New assembles the full HTTP surface: public health/metrics/auth routes and
// the session-guarded API.
func New(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.CORS(deps.AllowedOrigins))
	r.Use(middleware.RequestLogger(deps.Logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if deps.AuthHandler != nil {
		r.Route("/api/auth", func(r chi.Router) {
			r.Post("/register", deps.AuthHandler.Register)
			r.Post("/login", deps.AuthHandler.Login)
			r.Post("/logout", deps.AuthHandler.Logout)
			r.Get("/user", deps.AuthHandler.CurrentUser)
		})
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(deps.AuthService, deps.IdentityProvider, deps.SessionCookie))

		if deps.Agents != nil {
			r.Route("/api/agents", func(r chi.Router) {
				r.Get("/", deps.Agents.List)
				r.Get("/{id}", deps.Agents.Get)
				r.Patch("/{id}/active", deps.Agents.SetActive)
			})
		}
		if deps.Sync != nil {
			r.Post("/api/retell-sync", deps.Sync.Sync)
		}
		if deps.PhoneNumbers != nil {
			r.Get("/api/phone-numbers", deps.PhoneNumbers.List)
		}
		if deps.Contacts != nil {
			r.Mount("/api/contacts", deps.Contacts.Routes())
		}
		if deps.SMSAgents != nil {
			r.Mount("/api/sms-agents", deps.SMSAgents.Routes())
		}
		if deps.Campaigns != nil {
			r.Mount("/api/sms-campaigns", deps.Campaigns.CampaignRoutes())
			r.Mount("/api/sms-campaign-steps", deps.Campaigns.StepRoutes())
		}
		if deps.Knowledge != nil {
			r.Mount("/api/knowledge-base", deps.Knowledge.Routes())
		}
		if deps.Reviews != nil {
			r.Mount("/api/reviews", deps.Reviews.Routes())
		}
		if deps.Settings != nil {
			r.Get("/api/settings", deps.Settings.Get)
			r.Post("/api/settings", deps.Settings.Save)
			r.Get("/api/profile", deps.Settings.GetProfile)
			r.Patch("/api/profile", deps.Settings.UpdateProfile)
		}
		if deps.Analytics != nil {
			r.Get("/api/lead-analytics", deps.Analytics.Summary)
		}
	})

	return r
}
