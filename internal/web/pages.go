package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/magnetic-studio/studio-api/internal/auth"
	"github.com/magnetic-studio/studio-api/internal/enrollment"
	"github.com/magnetic-studio/studio-api/internal/models"
	"github.com/magnetic-studio/studio-api/internal/store"
	"github.com/magnetic-studio/studio-api/internal/validation"
)

func (p *Pages) Landing(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, http.StatusOK, "landing.html", nil)
}

func (p *Pages) JoinWaitlist(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	address := r.PostForm.Get("email")
	_, err := p.enrollment.JoinWaitlist(r.Context(), address)
	if err == nil {
		p.render(w, r, http.StatusOK, "landing.html", map[string]any{"Success": enrollment.MsgWaitlistJoined})
		return
	}

	var fieldErrs validation.FieldErrors
	status, msg := http.StatusInternalServerError, enrollment.MsgWaitlistFailed
	switch {
	case errors.As(err, &fieldErrs):
		status, msg = http.StatusUnprocessableEntity, fieldErrs.First()
	case errors.Is(err, enrollment.ErrAlreadyOnWaitlist):
		status, msg = http.StatusConflict, enrollment.MsgAlreadyOnWaitlist
	}
	p.render(w, r, status, "landing.html", map[string]any{"Email": address, "Error": msg})
}

func (p *Pages) RegisterForm(w http.ResponseWriter, r *http.Request) {
	invitationID := chi.URLParam(r, "invitationID")
	if _, err := p.enrollment.Invitation(r.Context(), invitationID); err != nil {
		p.invitationError(w, r, err)
		return
	}
	p.renderRegisterForm(w, r, http.StatusOK, invitationID, nil, nil)
}

func (p *Pages) SubmitRegistration(w http.ResponseWriter, r *http.Request) {
	invitationID := chi.URLParam(r, "invitationID")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	registration, err := p.enrollment.Register(r.Context(), invitationID, validation.FromForm(r.PostForm))
	if err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			p.renderRegisterForm(w, r, http.StatusUnprocessableEntity, invitationID, r.PostForm, fieldErrs)
			return
		}
		p.invitationError(w, r, err)
		return
	}

	p.render(w, r, http.StatusOK, "registered.html", map[string]any{
		"Name":  registration.Name,
		"Email": registration.Email,
	})
}

func (p *Pages) renderRegisterForm(w http.ResponseWriter, r *http.Request, status int, invitationID string, values url.Values, errs validation.FieldErrors) {
	p.render(w, r, status, "register.html", map[string]any{
		"InvitationID": invitationID,
		"Values":       values,
		"Errors":       errs,
		"MinBirthDate": validation.MinBirthDate.Format(validation.DateLayout),
		"Today":        p.now().Format(validation.DateLayout),
	})
}

func (p *Pages) invitationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, enrollment.ErrInvitationNotFound):
		p.renderMessage(w, r, http.StatusNotFound, "Invitación no encontrada",
			"El enlace de inscripción no es válido. Pide uno nuevo en el estudio.")
	case errors.Is(err, enrollment.ErrInvitationUnavailable):
		p.renderMessage(w, r, http.StatusGone, "Invitación caducada",
			"Este enlace de inscripción ha caducado. Pide uno nuevo en el estudio.")
	default:
		p.logger.Error("Registration failed", zap.Error(err))
		p.renderMessage(w, r, http.StatusInternalServerError, "Algo ha ido mal",
			"No hemos podido completar la inscripción. Inténtalo de nuevo más tarde.")
	}
}

func (p *Pages) Admin(w http.ResponseWriter, r *http.Request) {
	count, err := p.registrations.Count(r.Context())
	if err != nil {
		p.logger.Error("Failed to count registrations", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := map[string]any{"Count": count}
	if invitation, err := p.invitations.Latest(r.Context()); err == nil {
		data["Invitation"] = invitation
	}
	p.render(w, r, http.StatusOK, "admin.html", data)
}

func (p *Pages) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	invitation, err := p.invitations.Create(r.Context(), p.now().Add(p.invitationTTL))
	if err != nil {
		p.logger.Error("Failed to create invitation", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	p.logger.Info("Invitation created", zap.String("invitation_id", invitation.ID))
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (p *Pages) SignInForm(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, http.StatusOK, "sign_in.html", nil)
}

func (p *Pages) SignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	in, err := validation.ValidateSignIn(validation.SignInInput{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	})
	if err != nil {
		var fieldErrs validation.FieldErrors
		errors.As(err, &fieldErrs)
		p.render(w, r, http.StatusUnprocessableEntity, "sign_in.html", map[string]any{"Email": in.Email, "Error": fieldErrs.First()})
		return
	}

	user, err := p.authHandler.Authenticate(r.Context(), in.Email, in.Password)
	if err != nil {
		p.render(w, r, http.StatusUnauthorized, "sign_in.html", map[string]any{"Email": in.Email, "Error": "Invalid email or password"})
		return
	}

	cookie, err := p.authHandler.SessionCookie(user.ID)
	if err != nil {
		p.logger.Error("Failed to generate token", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &cookie)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (p *Pages) SignOut(w http.ResponseWriter, r *http.Request) {
	cookie := auth.ExpiredCookie()
	http.SetCookie(w, &cookie)
	http.Redirect(w, r, "/sign-in", http.StatusSeeOther)
}

func (p *Pages) Dashboard(w http.ResponseWriter, r *http.Request) {
	p.renderDashboard(w, r, http.StatusOK, nil)
}

func (p *Pages) renderDashboard(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	items, err := p.items.List(r.Context())
	if err != nil {
		p.logger.Error("Failed to list items", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	data["Items"] = items
	p.render(w, r, status, "dashboard.html", data)
}

func (p *Pages) CreateItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	description := r.PostForm.Get("description")
	in, err := validation.ValidateItem(validation.ItemInput{
		Name:        r.PostForm.Get("name"),
		Description: &description,
	})
	if err != nil {
		var fieldErrs validation.FieldErrors
		errors.As(err, &fieldErrs)
		p.renderDashboard(w, r, http.StatusUnprocessableEntity, map[string]any{
			"Name":        in.Name,
			"Description": description,
			"Error":       fieldErrs.First(),
		})
		return
	}

	item := models.Item{Task: in.Name, Description: in.Description}
	if err := p.items.Create(r.Context(), &item); err != nil {
		p.logger.Error("Failed to create item", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (p *Pages) ToggleItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	err := p.items.Toggle(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		p.logger.Error("Failed to update item", zap.Uint("item_id", id), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (p *Pages) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	if err := p.items.Delete(r.Context(), id); err != nil {
		p.logger.Error("Failed to delete item", zap.Uint("item_id", id), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func itemID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 0)
	if err != nil {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}
