package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"habit-tracker/internal/domain/service"
	"habit-tracker/internal/transport/http/middleware"
)

type AuthHandler struct {
	users    service.UserService
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAuthHandler(users service.UserService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{users: users, validate: validator.New(), log: log}
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Register handles account creation
// @Summary Register a new user
// @Description Creates the account and seeds the default habits
// @Tags auth
// @Accept json
// @Produce json
// @Param request body credentialsRequest true "Credentials"
// @Success 201 {object} userResponse
// @Failure 400 {object} object{error=string,code=string}
// @Failure 409 {object} object{error=string,code=string}
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}

	user, err := h.users.Register(r.Context(), body.Username, body.Password)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}

// Login handles authentication
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body credentialsRequest true "Credentials"
// @Success 200 {object} object{access_token=string,token_type=string,expires_at=string,user=userResponse}
// @Failure 401 {object} object{error=string,code=string}
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username" validate:"required,max=150"`
		Password string `json:"password" validate:"required,max=128"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}

	result, err := h.users.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": result.AccessToken,
		"token_type":   "Bearer",
		"expires_at":   result.ExpiresAt,
		"user": userResponse{
			ID:        result.User.ID.String(),
			Username:  result.User.Username,
			CreatedAt: result.User.CreatedAt,
		},
	})
}

// Logout revokes the session behind the access token
// @Summary Log out
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	if err := h.users.Logout(r.Context(), sessionID); err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
