package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jonathan/job-portal/internal/types"
)

// handleRegister handles POST /auth/register. The account's role decides
// which endpoints its tokens unlock.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	exists, err := s.store.CheckEmailExists(r.Context(), req.Email)
	if err != nil {
		log.Printf("Error checking email existence: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "registration failed")
		return
	}
	if exists {
		taken := &ErrEmailAlreadyExists{Email: req.Email}
		s.errorResponse(w, HTTPStatus(taken), taken.Error())
		return
	}

	passwordHash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "registration failed")
		return
	}

	userID, err := s.store.CreateUser(r.Context(), req.Name, req.Email, req.Role, passwordHash)
	if err != nil {
		log.Printf("Error creating user: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "registration failed")
		return
	}

	token, err := s.jwtService.GenerateToken(userID, req.Role)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "registration failed")
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil || user == nil {
		log.Printf("Error loading created user %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "registration failed")
		return
	}

	s.jsonResponse(w, http.StatusCreated, types.LoginResponse{
		User:  user.User(),
		Token: token,
	})
}

// handleLogin handles POST /auth/login. Unknown emails and wrong passwords
// share one generic error.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("Error loading user by email: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "login failed")
		return
	}
	if user == nil || !s.passwords.VerifyPassword(req.Password, user.PasswordHash) {
		invalid := &ErrInvalidCredentials{}
		s.errorResponse(w, HTTPStatus(invalid), invalid.Error())
		return
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "login failed")
		return
	}

	s.jsonResponse(w, http.StatusOK, types.LoginResponse{
		User:  user.User(),
		Token: token,
	})
}
