package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/dotatracker/dota-tracker-be/internal/auth"
	"github.com/dotatracker/dota-tracker-be/internal/services"
)

// AccountHandler handles HTTP requests for the /api/auth endpoints.
type AccountHandler struct {
	service   services.AccountServiceProvider
	jwtSecret []byte
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(service services.AccountServiceProvider, jwtSecret []byte) *AccountHandler {
	return &AccountHandler{service: service, jwtSecret: jwtSecret}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new account registration and issues a session token.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.service.Register(payload.Email, payload.Password, payload.Username)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrDuplicateEmail):
			respondMsg(w, http.StatusBadRequest, err.Error())
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register account")
			respondMsg(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	token, err := auth.GenerateToken(account.ID, h.jwtSecret)
	if err != nil {
		log.Error().Err(err).Str("account_id", account.ID).Msg("Failed to generate token")
		respondMsg(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  account,
	})
}

// Login handles authentication and token issuance.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.service.Authenticate(payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			respondMsg(w, http.StatusBadRequest, services.ErrInvalidInput.Error())
		case errors.Is(err, services.ErrInvalidCredentials):
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			respondMsg(w, http.StatusBadRequest, services.ErrInvalidCredentials.Error())
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("Failed to authenticate account")
			respondMsg(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	token, err := auth.GenerateToken(account.ID, h.jwtSecret)
	if err != nil {
		log.Error().Err(err).Str("account_id", account.ID).Msg("Failed to generate token")
		respondMsg(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  account,
	})
}

// Delete handles the permanent deletion of an account.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Email == "" {
		respondMsg(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.service.Delete(payload.Email); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondMsg(w, http.StatusBadRequest, services.ErrNotFound.Error())
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to delete account")
		respondMsg(w, http.StatusInternalServerError, "server error")
		return
	}

	respondMsg(w, http.StatusOK, "user deleted successfully")
}

// SaveSecretQuestion stores a recovery question and its hashed answer.
func (h *AccountHandler) SaveSecretQuestion(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Email == "" || payload.Question == "" || payload.Answer == "" {
		respondMsg(w, http.StatusBadRequest, services.ErrInvalidInput.Error())
		return
	}

	if err := h.service.SetRecoveryQuestion(payload.Email, payload.Question, payload.Answer); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondMsg(w, http.StatusBadRequest, services.ErrNotFound.Error())
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to save secret question")
		respondMsg(w, http.StatusInternalServerError, "server error")
		return
	}

	respondMsg(w, http.StatusOK, "secret question and answer saved")
}

// VerifySecretAnswer checks a recovery answer against the stored hash. The
// mobile client matches the success message string exactly, so it must not
// change.
func (h *AccountHandler) VerifySecretAnswer(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email  string `json:"email"`
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Email == "" || payload.Answer == "" {
		respondMsg(w, http.StatusBadRequest, services.ErrInvalidInput.Error())
		return
	}

	if err := h.service.VerifyRecoveryAnswer(payload.Email, payload.Answer); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			respondMsg(w, http.StatusBadRequest, services.ErrNotFound.Error())
		case errors.Is(err, services.ErrAnswerMismatch):
			respondMsg(w, http.StatusBadRequest, services.ErrAnswerMismatch.Error())
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("Failed to verify secret answer")
			respondMsg(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	respondMsg(w, http.StatusOK, "answer correct, you may now reset the password")
}

// UpdatePassword overwrites an account's password hash. The client is trusted
// to call VerifySecretAnswer first; the server does not enforce the sequence.
func (h *AccountHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email       string `json:"email"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Email == "" || payload.NewPassword == "" {
		respondMsg(w, http.StatusBadRequest, services.ErrInvalidInput.Error())
		return
	}

	if err := h.service.ResetPassword(payload.Email, payload.NewPassword); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondMsg(w, http.StatusNotFound, services.ErrNotFound.Error())
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to update password")
		respondMsg(w, http.StatusInternalServerError, "server error")
		return
	}

	respondMsg(w, http.StatusOK, "password updated successfully")
}

// SaveDotaID links a Dota account id to the account.
func (h *AccountHandler) SaveDotaID(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email  string `json:"email"`
		DotaID string `json:"dotaId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMsg(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Email == "" || payload.DotaID == "" {
		respondMsg(w, http.StatusBadRequest, services.ErrInvalidInput.Error())
		return
	}

	if err := h.service.LinkGameAccount(payload.Email, payload.DotaID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondMsg(w, http.StatusBadRequest, services.ErrNotFound.Error())
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to save dota id")
		respondMsg(w, http.StatusInternalServerError, "server error")
		return
	}

	respondMsg(w, http.StatusOK, "dota id saved successfully")
}

// GetDotaID returns the linked Dota account id for an email.
func (h *AccountHandler) GetDotaID(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		respondMsg(w, http.StatusBadRequest, "email is required")
		return
	}

	dotaID, err := h.service.GameAccountID(email)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondMsg(w, http.StatusBadRequest, services.ErrNotFound.Error())
			return
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to get dota id")
		respondMsg(w, http.StatusInternalServerError, "server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"dotaId": dotaID})
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondMsg writes the {msg} body shape every non-payload response uses.
func respondMsg(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"msg": msg})
}
