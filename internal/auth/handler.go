package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/blog-platform/backend/internal/models"
	"github.com/ayush/blog-platform/backend/internal/store"
	"github.com/ayush/blog-platform/backend/internal/web"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, hashedPw string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users  UserStore
	tokens *Tokens
}

func NewHandler(users UserStore, tokens *Tokens) *Handler {
	return &Handler{users: users, tokens: tokens}
}

func validateRegister(req *models.RegisterRequest) []web.FieldError {
	var details []web.FieldError
	if strings.TrimSpace(req.Username) == "" {
		details = append(details, web.FieldError{Field: "username", Message: "Username is required"})
	}
	if req.Email == "" {
		details = append(details, web.FieldError{Field: "email", Message: "Email is required"})
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		details = append(details, web.FieldError{Field: "email", Message: "Email is invalid"})
	}
	if req.Password == "" {
		details = append(details, web.FieldError{Field: "password", Message: "Password is required"})
	} else if len(req.Password) < 6 {
		details = append(details, web.FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}
	return details
}

// Register creates a new user and returns a bearer token for it.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if details := validateRegister(&req); len(details) > 0 {
		web.ValidationError(w, details)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("bcrypt: %v", err)
		web.ServerError(w)
		return
	}

	user, err := h.users.CreateUser(r.Context(), strings.TrimSpace(req.Username), req.Email, string(hashed))
	if errors.Is(err, store.ErrDuplicate) {
		web.Error(w, http.StatusConflict, "username or email already taken")
		return
	}
	if err != nil {
		log.Printf("create user: %v", err)
		web.ServerError(w)
		return
	}

	token, err := h.tokens.Issue(r.Context(), user.ID)
	if err != nil {
		log.Printf("issue token: %v", err)
		web.ServerError(w)
		return
	}
	web.JSON(w, http.StatusCreated, models.AuthResponse{Token: token, User: user})
}

// Login authenticates a user and returns a bearer token. Unknown email and
// wrong password produce the same response.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil || user == nil {
		web.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		web.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.tokens.Issue(r.Context(), user.ID)
	if err != nil {
		log.Printf("issue token: %v", err)
		web.ServerError(w)
		return
	}
	web.JSON(w, http.StatusOK, models.AuthResponse{Token: token, User: user})
}

// Logout revokes the presented token's session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if tok := BearerToken(r); tok != "" {
		h.tokens.Revoke(r.Context(), tok)
	}
	web.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the currently authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(string)
	if userID == "" {
		web.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil || user == nil {
		web.Error(w, http.StatusNotFound, "user not found")
		return
	}
	web.JSON(w, http.StatusOK, user)
}

// BearerToken extracts the token from the Authorization header, or ""
// when the header is missing or not a bearer credential.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}
