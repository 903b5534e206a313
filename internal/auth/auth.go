package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/magnetic-studio/studio-api/internal/apierror"
	"github.com/magnetic-studio/studio-api/internal/config"
	"github.com/magnetic-studio/studio-api/internal/models"
	"github.com/magnetic-studio/studio-api/internal/store"
	"github.com/magnetic-studio/studio-api/internal/validation"
)

const (
	CookieName    = "auth_token"
	TokenDuration = 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

type AuthHandler struct {
	users  *store.UserStore
	cfg    *config.Config
	logger *zap.Logger
}

func NewAuthHandler(cfg *config.Config, users *store.UserStore, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{users: users, cfg: cfg, logger: logger}
}

// AuthInput carries the raw Cookie header for operations that authorize
// themselves.
type AuthInput struct {
	Cookie string `header:"Cookie"`
}

type UserResponse struct {
	Body struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
}

type SessionResponse struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      struct {
		Message string `json:"message"`
	}
}

type SignUpRequest struct {
	Body validation.SignUpInput
}

type SignInRequest struct {
	Body validation.SignInInput
}

func (h *AuthHandler) HandleSignUp(ctx context.Context, input *SignUpRequest) (*SessionResponse, error) {
	in, err := validation.ValidateSignUp(input.Body)
	if err != nil {
		return nil, apierror.FromValidation(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to hash password")
	}

	user := models.User{Name: in.Name, Email: in.Email, PasswordHash: string(hash)}
	if err := h.users.Create(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, huma.Error409Conflict("An account with this email already exists")
		}
		h.logger.Error("Failed to create user", zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to create account")
	}

	return h.session(user, "Account created")
}

func (h *AuthHandler) HandleSignIn(ctx context.Context, input *SignInRequest) (*SessionResponse, error) {
	in, err := validation.ValidateSignIn(input.Body)
	if err != nil {
		return nil, apierror.FromValidation(err)
	}

	user, err := h.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return nil, huma.Error401Unauthorized("Invalid email or password")
	}

	return h.session(user, "Signed in")
}

func (h *AuthHandler) HandleSignOut(ctx context.Context, input *struct{}) (*SessionResponse, error) {
	res := &SessionResponse{SetCookie: ExpiredCookie()}
	res.Body.Message = "Signed out"
	return res, nil
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *AuthInput) (*UserResponse, error) {
	userID, err := h.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	user, err := h.users.ByID(ctx, userID)
	if err != nil {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	res := &UserResponse{}
	res.Body.ID = user.ID
	res.Body.Name = user.Name
	res.Body.Email = user.Email
	return res, nil
}

// Authenticate checks credentials; it is shared by the JSON API and the
// sign-in page.
func (h *AuthHandler) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := h.users.ByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Authorize resolves the user id from the context (set by JWTMiddleware) or
// from the auth cookie in a raw Cookie header.
func (h *AuthHandler) Authorize(ctx context.Context, cookieHeader string) (uint, error) {
	if userID, ok := ctx.Value(UserIDKey).(uint); ok {
		return userID, nil
	}

	req := http.Request{Header: http.Header{"Cookie": []string{cookieHeader}}}
	cookie, err := req.Cookie(CookieName)
	if err != nil {
		return 0, huma.Error401Unauthorized("Unauthorized: No token found")
	}

	userID, _, err := h.ParseToken(cookie.Value)
	if err != nil {
		return 0, huma.Error401Unauthorized("Unauthorized: Invalid token")
	}
	return userID, nil
}

func (h *AuthHandler) GenerateToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// ParseToken validates an HS256 session token and returns its user id and
// expiry.
func (h *AuthHandler) ParseToken(tokenString string) (uint, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, time.Time{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, time.Time{}, ErrInvalidToken
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, time.Time{}, ErrInvalidToken
	}

	var exp time.Time
	if expFloat, ok := claims["exp"].(float64); ok {
		exp = time.Unix(int64(expFloat), 0)
	}
	return uint(userIDFloat), exp, nil
}

func (h *AuthHandler) SessionCookie(userID uint) (http.Cookie, error) {
	token, err := h.GenerateToken(userID)
	if err != nil {
		return http.Cookie{}, err
	}
	return http.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	}, nil
}

func ExpiredCookie() http.Cookie {
	return http.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	}
}

func (h *AuthHandler) session(user models.User, message string) (*SessionResponse, error) {
	cookie, err := h.SessionCookie(user.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}
	res := &SessionResponse{SetCookie: cookie}
	res.Body.Message = message
	return res, nil
}
