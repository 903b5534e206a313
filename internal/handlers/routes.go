package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/magnetic-studio/studio-api/internal/auth"
	"github.com/magnetic-studio/studio-api/internal/config"
	"github.com/magnetic-studio/studio-api/internal/web"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth          *auth.AuthHandler
	Registrations *RegistrationHandler
	Waitlist      *WaitlistHandler
	Items         *ItemHandler
	Beginners     *BeginnersHandler
	Admin         *AdminHandler
	Pages         *web.Pages
	Metrics       http.Handler
	CSRFKey       []byte
}

func RegisterRoutes(r *chi.Mux, cfg *config.Config, h Handlers) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(AppMode(cfg.AppMode, http.HandlerFunc(h.Pages.Maintenance)))
	r.Use(RouteGate(h.Auth, cfg.AdminUsername, cfg.AdminPassword))

	// Initialize Huma API
	apiConfig := huma.DefaultConfig("Magnetic Pole Studio API", "1.0.0")
	apiConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.CookieName,
		},
		"adminAuth": {
			Type:   "http",
			Scheme: "basic",
		},
	}
	api := humachi.New(r, apiConfig)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", h.Metrics)

	cookieAuth := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	}
	adminAuth := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"adminAuth": {}}}
	}

	// Waitlist and registration
	huma.Post(api, "/api/waitlist", h.Waitlist.HandleJoin)
	huma.Get(api, "/api/invitations/{invitationID}", h.Registrations.HandleInvitation)
	huma.Register(api, huma.Operation{
		OperationID:   "create-registration",
		Method:        http.MethodPost,
		Path:          "/api/registrations/{invitationID}",
		Summary:       "Register with an invitation",
		DefaultStatus: http.StatusCreated,
	}, h.Registrations.HandleRegister)

	// Auth routes
	huma.Post(api, "/api/auth/sign-up", h.Auth.HandleSignUp)
	huma.Post(api, "/api/auth/sign-in", h.Auth.HandleSignIn)
	huma.Post(api, "/api/auth/sign-out", h.Auth.HandleSignOut)
	huma.Get(api, "/api/me", h.Auth.HandleMe, cookieAuth)

	// Dashboard API
	huma.Get(api, "/api/items", h.Items.HandleList, cookieAuth)
	huma.Post(api, "/api/items", h.Items.HandleCreate, cookieAuth)
	huma.Patch(api, "/api/items/{id}", h.Items.HandleSetCompleted, cookieAuth)
	huma.Delete(api, "/api/items/{id}", h.Items.HandleDelete, cookieAuth)

	huma.Get(api, "/api/beginners/classes", h.Beginners.HandleListClasses, cookieAuth)
	huma.Post(api, "/api/beginners/classes", h.Beginners.HandleCreateClass, cookieAuth)
	huma.Delete(api, "/api/beginners/classes/{classID}", h.Beginners.HandleDeleteClass, cookieAuth)
	huma.Post(api, "/api/beginners/classes/{classID}/students", h.Beginners.HandleCreateStudent, cookieAuth)
	huma.Put(api, "/api/beginners/students/{studentID}", h.Beginners.HandleUpdateStudent, cookieAuth)
	huma.Delete(api, "/api/beginners/students/{studentID}", h.Beginners.HandleDeleteStudent, cookieAuth)

	// Admin API, behind basic auth in RouteGate
	createInvitationOp := huma.Operation{
		OperationID:   "create-invitation",
		Method:        http.MethodPost,
		Path:          "/api/admin/invitations",
		Summary:       "Create an invitation",
		DefaultStatus: http.StatusCreated,
	}
	adminAuth(&createInvitationOp)
	huma.Register(api, createInvitationOp, h.Admin.HandleCreateInvitation)
	huma.Get(api, "/api/admin/invitations/latest", h.Admin.HandleLatestInvitation, adminAuth)
	huma.Get(api, "/api/admin/registrations", h.Admin.HandleListRegistrations, adminAuth)
	huma.Get(api, "/api/admin/registrations/count", h.Admin.HandleCountRegistrations, adminAuth)

	// Server-rendered pages
	r.Group(func(r chi.Router) {
		r.Use(web.CSRF(h.CSRFKey, cfg.IsProduction(), cfg.TrustedOrigins))

		r.Get("/", h.Pages.Landing)
		r.Post("/", h.Pages.JoinWaitlist)
		r.Get("/register/{invitationID}", h.Pages.RegisterForm)
		r.Post("/register/{invitationID}", h.Pages.SubmitRegistration)
		r.Get("/sign-in", h.Pages.SignInForm)
		r.Post("/sign-in", h.Pages.SignIn)
		r.Post("/sign-out", h.Pages.SignOut)

		r.Get("/admin", h.Pages.Admin)
		r.Post("/admin/invitations", h.Pages.CreateInvitation)

		r.Get("/dashboard", h.Pages.Dashboard)
		r.Post("/dashboard/items", h.Pages.CreateItem)
		r.Post("/dashboard/items/{id}/toggle", h.Pages.ToggleItem)
		r.Post("/dashboard/items/{id}/delete", h.Pages.DeleteItem)
	})

	r.NotFound(h.Pages.NotFound)
}
