package auth

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"leadpilot-backend/internal/models"
	"leadpilot-backend/internal/store"
)

var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrAdminNotFound = errors.New("admin not found")
)

type Service struct{ st *store.Store }

func NewService(st *store.Store) *Service { return &Service{st: st} }

// Register stores a bcrypt hash, never the plaintext. The unique constraint on
// username makes the duplicate check race-free.
func (s *Service) Register(username, password string) error {
	username = strings.TrimSpace(username)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil { return err }
	res, err := s.st.DB.Exec(`INSERT INTO admins(username, password_hash, created_at)
		VALUES($1,$2,$3)
		ON CONFLICT(username) DO NOTHING`, username, string(hash), time.Now().UTC())
	if err != nil { return err }
	if n, _ := res.RowsAffected(); n == 0 { return ErrUsernameTaken }
	return nil
}

func (s *Service) FindByUsername(username string) (*models.Admin, error) {
	var a models.Admin
	err := s.st.DB.Get(&a, `SELECT id, username, password_hash, created_at FROM admins WHERE username=$1`, username)
	if err != nil { if errors.Is(err, sql.ErrNoRows) { return nil, ErrAdminNotFound } ; return nil, err }
	return &a, nil
}

func (s *Service) FindByID(id int64) (*models.Admin, error) {
	var a models.Admin
	err := s.st.DB.Get(&a, `SELECT id, username, password_hash, created_at FROM admins WHERE id=$1`, id)
	if err != nil { if errors.Is(err, sql.ErrNoRows) { return nil, ErrAdminNotFound } ; return nil, err }
	return &a, nil
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
