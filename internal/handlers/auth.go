package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/anonto42/yatube/internal/auth"
	"github.com/anonto42/yatube/internal/middleware"
	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/anonto42/yatube/internal/urls"
	"github.com/anonto42/yatube/validators"
)

const (
	badLoginMessage      = "Please enter a correct username and password. Note that both fields may be case-sensitive."
	usernameTakenMessage = "A user with that username already exists."
)

// TokenVerifier checks Firebase ID tokens. *auth.Client from the Firebase
// Admin SDK satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// AuthHandler handles sign up, log in and log out
type AuthHandler struct {
	userRepository repositories.UserRepository
	sessions       *auth.Sessions
	firebaseAuth   TokenVerifier // nil when Firebase is not configured
	logger         *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, sessions *auth.Sessions, firebaseAuth TokenVerifier, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		sessions:       sessions,
		firebaseAuth:   firebaseAuth,
		logger:         logger,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(e *echo.Echo) {
	formMethods := []string{http.MethodGet, http.MethodPost}

	g := e.Group("/auth")
	g.Match(formMethods, "/signup/", h.Signup)
	g.Match(formMethods, "/login/", h.Login)
	g.Match(formMethods, "/logout/", h.Logout)
	if h.firebaseAuth != nil {
		g.POST("/firebase/", h.FirebaseLogin)
	}
}

// Signup creates a local account and logs the new user in.
func (h *AuthHandler) Signup(c echo.Context) error {
	if c.Request().Method == http.MethodGet {
		return render(c, "auth/signup.html", echo.Map{"form": models.SignupForm{}})
	}

	var form models.SignupForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)
	rerender := func(errs map[string]string) error {
		form.Password, form.PasswordConfirm = "", ""
		return render(c, "auth/signup.html", echo.Map{"form": form, "errors": errs})
	}

	if err := c.Validate(&form); err != nil {
		return rerender(validators.FieldErrors(err))
	}

	ctx := c.Request().Context()
	taken, err := h.userRepository.UsernameExists(ctx, form.Username)
	if err != nil {
		return err
	}
	if taken {
		return rerender(map[string]string{"username": usernameTakenMessage})
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		return err
	}
	user := &models.User{Username: form.Username, Email: form.Email, Password: hash}
	err = h.userRepository.CreateUser(ctx, user)
	if errors.Is(err, repositories.ErrUsernameTaken) {
		return rerender(map[string]string{"username": usernameTakenMessage})
	}
	if err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "user signed up", "user_id", user.ID, "username", user.Username)
	return h.startSession(c, user, urls.Index)
}

// Login checks the credentials and starts a session.
func (h *AuthHandler) Login(c echo.Context) error {
	next := c.QueryParam("next")
	if c.Request().Method == http.MethodGet {
		return h.renderLogin(c, models.LoginForm{}, nil, next)
	}

	var form models.LoginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if v := c.FormValue("next"); v != "" {
		next = v
	}
	if err := c.Validate(&form); err != nil {
		form.Password = ""
		return h.renderLogin(c, form, validators.FieldErrors(err), next)
	}

	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), form.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if user == nil || auth.CheckPassword(user.Password, form.Password) != nil {
		form.Password = ""
		return h.renderLogin(c, form, map[string]string{validators.NonFieldErrors: badLoginMessage}, next)
	}
	return h.startSession(c, user, next)
}

func (h *AuthHandler) renderLogin(c echo.Context, form models.LoginForm, errs map[string]string, next string) error {
	return render(c, "auth/login.html", echo.Map{
		"form":     form,
		"errors":   errs,
		"next":     next,
		"firebase": h.firebaseAuth != nil,
	})
}

// Logout ends the session.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.ExpiredCookie())
	middleware.SetUser(c, nil)
	return render(c, "auth/logged_out.html", nil)
}

// FirebaseLogin verifies a Firebase ID token and logs in the matching user,
// linking an existing account by verified email or creating a new one.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var form models.FirebaseLoginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id_token is required")
	}

	ctx := c.Request().Context()
	token, err := h.firebaseAuth.VerifyIDToken(ctx, form.IDToken)
	if err != nil {
		h.logger.WarnContext(ctx, "firebase token rejected", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid Firebase ID token")
	}

	user, err := h.firebaseUser(ctx, token)
	if err != nil {
		return err
	}
	return h.startSession(c, user, c.FormValue("next"))
}

func (h *AuthHandler) firebaseUser(ctx context.Context, token *fbauth.Token) (*models.User, error) {
	user, err := h.userRepository.GetUserByFirebaseUID(ctx, token.UID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	uid := token.UID
	email, _ := token.Claims["email"].(string)
	verified, _ := token.Claims["email_verified"].(bool)

	// Only an address Firebase has verified may claim an existing account,
	// and an account already bound to another Firebase user is never rebound.
	if verified && email != "" {
		user, err = h.userRepository.GetUserByEmail(ctx, email)
		switch {
		case err == nil && user.FirebaseUID == nil:
			user.FirebaseUID = &uid
			if err := h.userRepository.UpdateUser(ctx, user); err != nil {
				return nil, err
			}
			h.logger.InfoContext(ctx, "firebase account linked", "user_id", user.ID)
			return user, nil
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}

	username, err := h.freeUsername(ctx, usernameFromEmail(email, uid))
	if err != nil {
		return nil, err
	}
	user = &models.User{Username: username, FirebaseUID: &uid}
	if verified {
		user.Email = email
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	h.logger.InfoContext(ctx, "firebase user created", "user_id", user.ID, "username", username)
	return user, nil
}

var usernameUnsafe = regexp.MustCompile(`[^\w.@+-]+`)

func usernameFromEmail(email, fallback string) string {
	local, _, _ := strings.Cut(email, "@")
	name := usernameUnsafe.ReplaceAllString(local, "")
	if name == "" {
		name = "user_" + usernameUnsafe.ReplaceAllString(fallback, "")
	}
	if len(name) > 140 {
		name = name[:140]
	}
	return name
}

// freeUsername returns base, or base with the smallest numeric suffix that
// is neither taken nor reserved.
func (h *AuthHandler) freeUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 1; ; i++ {
		taken, err := h.userRepository.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken && !validators.IsReservedUsername(candidate) {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}

func (h *AuthHandler) startSession(c echo.Context, user *models.User, next string) error {
	token, err := h.sessions.Issue(user)
	if err != nil {
		return err
	}
	c.SetCookie(h.sessions.Cookie(token))
	if !urls.SafeNext(next) {
		next = urls.Index
	}
	return c.Redirect(http.StatusFound, next)
}
