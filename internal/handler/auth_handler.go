package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"sweetshop/backend/internal/identity"
	"sweetshop/backend/internal/model"
	"sweetshop/backend/internal/repository"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	User        model.Profile `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	session, err := h.identity.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, identity.ErrEmailExists) {
			writeError(w, http.StatusBadRequest, identity.ErrEmailExists.Error())
			return
		}
		h.logger.Error().Err(err).Msg("registration failed")
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	profile := model.Profile{
		ID:        session.UserID,
		Email:     session.Email,
		FullName:  req.FullName,
		Role:      model.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.profiles.InsertProfile(r.Context(), profile); err != nil {
		h.logger.Error().Err(err).Str("user_id", session.UserID).Msg("profile creation failed")
		writeError(w, http.StatusInternalServerError, "profile creation failed")
		return
	}

	writeJSON(w, http.StatusCreated, TokenResponse{
		AccessToken: session.AccessToken,
		TokenType:   "bearer",
		User:        profile,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.identity.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, identity.ErrInvalidCredentials.Error())
			return
		}
		h.logger.Error().Err(err).Msg("login failed")
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, repository.ErrProfileNotFound.Error())
			return
		}
		h.logger.Error().Err(err).Str("user_id", session.UserID).Msg("profile lookup failed")
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken: session.AccessToken,
		TokenType:   "bearer",
		User:        profile,
	})
}
