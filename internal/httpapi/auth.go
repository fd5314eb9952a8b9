package httpapi

import (
	"errors"
	"net/http"
	"time"

	"secureapp/server/auth"
)

type sendCodeRequest struct {
	Email string `json:"email"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	User    auth.PublicUser `json:"user"`
	Token   string          `json:"token"`
	Message string          `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func retrySeconds(d time.Duration) int64 {
	return int64((d + time.Second - 1) / time.Second)
}

func (s *Server) handleSendCode(w http.ResponseWriter, r *http.Request) {
	var req sendCodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := s.engine.SendCode(r.Context(), req.Email)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, messageResponse{Message: "Verification code sent"})
	case errors.Is(err, auth.ErrMissingFields), errors.Is(err, auth.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "Invalid email")
	case errors.Is(err, auth.ErrCodeRateLimited):
		writeRateLimited(w, "Too many requests", retrySeconds(auth.RetryAfter(err)))
	default:
		s.logger.Error("send code failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save verification code")
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	_, err := s.engine.Register(r.Context(), req.Username, req.Email, req.Password, req.Code)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, messageResponse{Message: "User created successfully"})
	case errors.Is(err, auth.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "Missing fields")
	case errors.Is(err, auth.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "Invalid email")
	case errors.Is(err, auth.ErrCodeInvalid):
		writeError(w, http.StatusBadRequest, "Invalid verification code")
	case errors.Is(err, auth.ErrCodeExpired):
		writeError(w, http.StatusBadRequest, "Verification code expired")
	case errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, "Password too weak")
	case errors.Is(err, auth.ErrEmailExists):
		writeError(w, http.StatusConflict, "Email already exists")
	default:
		s.logger.Error("register failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.engine.Login(r.Context(), req.Identifier, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, loginResponse{
			User:    result.User,
			Token:   result.Token,
			Message: "Welcome " + result.User.Username,
		})
	case errors.Is(err, auth.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "Missing fields")
	case errors.Is(err, auth.ErrLoginRateLimited):
		writeRateLimited(w, "Too many failed login attempts. Please try again later.", retrySeconds(auth.RetryAfter(err)))
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		s.logger.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
	}
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.engine.Authenticate(r.Context(), bearerToken(r))
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Token invalid or expired")
			return
		}
		s.logger.Error("authenticate failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	err := s.engine.DeleteAccount(r.Context(), bearerToken(r))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, messageResponse{Message: "Account deleted successfully"})
	case errors.Is(err, auth.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Token invalid or expired")
	default:
		s.logger.Error("delete account failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete account")
	}
}
