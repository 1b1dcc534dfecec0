package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type credReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func HandleRegister(s *Service, w http.ResponseWriter, r *http.Request) error {
	var req credReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil { return writeMessage(w, http.StatusBadRequest, "invalid request body") }
	if err := validate.Struct(req); err != nil { return writeMessage(w, http.StatusBadRequest, "username and password are required") }

	if err := s.Register(req.Username, req.Password); err != nil {
		if errors.Is(err, ErrUsernameTaken) { return writeMessage(w, http.StatusBadRequest, "Username already taken") }
		return err
	}
	return json.NewEncoder(w).Encode(map[string]string{"message": "Admin account created successfully!"})
}

func HandleLogin(s *Service, jwt *JWT, w http.ResponseWriter, r *http.Request) error {
	var req credReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil { return writeMessage(w, http.StatusBadRequest, "invalid request body") }
	if err := validate.Struct(req); err != nil { return writeMessage(w, http.StatusBadRequest, "username and password are required") }

	admin, err := s.FindByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) { return writeMessage(w, http.StatusBadRequest, "User not found") }
		return err
	}
	if !CheckPassword(admin.PasswordHash, req.Password) { return writeMessage(w, http.StatusBadRequest, "Wrong password") }

	tok, err := jwt.Sign(admin.ID, TokenTTL)
	if err != nil { return err }
	return json.NewEncoder(w).Encode(map[string]any{"token": tok, "username": admin.Username})
}

func HandleMe(s *Service, w http.ResponseWriter, r *http.Request) error {
	u := r.Context().Value("user").(*Claims)
	admin, err := s.FindByID(u.AdminID)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) { return writeMessage(w, http.StatusNotFound, "User not found") }
		return err
	}
	return json.NewEncoder(w).Encode(map[string]any{"id": admin.ID, "username": admin.Username})
}

func writeMessage(w http.ResponseWriter, status int, msg string) error {
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
