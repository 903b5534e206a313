// Package web serves the server-rendered pages: the landing page with the
// waitlist form, the invitation registration form, the admin home and the
// session dashboard.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/magnetic-studio/studio-api/internal/auth"
	"github.com/magnetic-studio/studio-api/internal/enrollment"
	"github.com/magnetic-studio/studio-api/internal/store"
	"github.com/magnetic-studio/studio-api/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"fieldError": func(errs validation.FieldErrors, path string) string {
		if msgs := errs.For(path); len(msgs) > 0 {
			return msgs[0]
		}
		return ""
	},
}

var pageNames = []string{
	"landing.html",
	"register.html",
	"registered.html",
	"message.html",
	"admin.html",
	"dashboard.html",
	"sign_in.html",
}

func parseTemplates() map[string]*template.Template {
	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		templates[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name))
	}
	return templates
}

type Pages struct {
	enrollment    *enrollment.Service
	registrations *store.RegistrationStore
	invitations   *store.InvitationStore
	items         *store.ItemStore
	authHandler   *auth.AuthHandler
	invitationTTL time.Duration
	logger        *zap.Logger
	templates     map[string]*template.Template
	now           func() time.Time
}

type Deps struct {
	Enrollment    *enrollment.Service
	Registrations *store.RegistrationStore
	Invitations   *store.InvitationStore
	Items         *store.ItemStore
	AuthHandler   *auth.AuthHandler
	InvitationTTL time.Duration
	Logger        *zap.Logger
}

func NewPages(deps Deps) *Pages {
	return &Pages{
		enrollment:    deps.Enrollment,
		registrations: deps.Registrations,
		invitations:   deps.Invitations,
		items:         deps.Items,
		authHandler:   deps.AuthHandler,
		invitationTTL: deps.InvitationTTL,
		logger:        deps.Logger,
		templates:     parseTemplates(),
		now:           time.Now,
	}
}

// render executes the page into a buffer first so a template error never
// leaves a half-written response.
func (p *Pages) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	tpl, ok := p.templates[name]
	if !ok {
		p.logger.Error("Unknown template", zap.String("template", name))
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = map[string]any{}
	}
	data["CSRFField"] = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		p.logger.Error("Render error", zap.String("template", name), zap.Error(err))
		http.Error(w, "Render error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (p *Pages) renderMessage(w http.ResponseWriter, r *http.Request, status int, heading, message string) {
	p.render(w, r, status, "message.html", map[string]any{
		"Heading": heading,
		"Message": message,
	})
}

// Maintenance answers every request with the 503 maintenance page.
func (p *Pages) Maintenance(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "3600")
	p.renderMessage(w, r, http.StatusServiceUnavailable,
		"Estamos en mantenimiento",
		"Volvemos en un rato. Gracias por tu paciencia 💜")
}

func (p *Pages) NotFound(w http.ResponseWriter, r *http.Request) {
	p.renderMessage(w, r, http.StatusNotFound, "Página no encontrada", fmt.Sprintf("No hemos encontrado %s.", r.URL.Path))
}
