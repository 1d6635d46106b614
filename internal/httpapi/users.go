package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"useraccounts/internal/app/users"
	"useraccounts/internal/apperr"
)

type registerRequest struct {
	Username        string `json:"userName"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password2"`
}

type loginRequest struct {
	Username string `json:"userName"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, messageResponse{Message: "invalid JSON payload"})
		return
	}

	err := s.users.Register(r.Context(), users.RegisterRequest{
		Username:        req.Username,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		s.logFailure(r, err)
		writeJSON(w, http.StatusUnprocessableEntity, messageResponse{Message: apperr.Message(err)})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("User %s successfully registered", strings.TrimSpace(req.Username)),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, messageResponse{Message: "invalid JSON payload"})
		return
	}

	token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.logFailure(r, err)
		writeJSON(w, http.StatusUnprocessableEntity, messageResponse{Message: apperr.Message(err)})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Message: "login successful", Token: token})
}
