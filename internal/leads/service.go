package leads

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"leadpilot-backend/internal/cache"
	"leadpilot-backend/internal/models"
	"leadpilot-backend/internal/store"
)

var (
	ErrNotFound      = errors.New("lead not found")
	ErrInvalidStatus = errors.New("invalid status")
)

const statsKey = "leads:stats"

type Service struct {
	st    *store.Store
	cache *cache.Cache
}

func NewService(st *store.Store, c *cache.Cache) *Service { return &Service{st: st, cache: c} }

type CreateInput struct{ Name, Email, Phone, Source string }

type Filter struct{ Status, Search string }

type Stats struct {
	Total     int64 `json:"total"`
	NewLeads  int64 `json:"newLeads"`
	Contacted int64 `json:"contacted"`
	Converted int64 `json:"converted"`
	Lost      int64 `json:"lost"`
}

// Create inserts with server-side defaults. Duplicate emails are accepted on
// purpose: the form captures every inbound inquiry as its own lead.
func (s *Service) Create(in CreateInput) (*models.Lead, error) {
	source := in.Source
	if source == "" { source = DefaultSource }
	var phone *string
	if in.Phone != "" { phone = &in.Phone }
	now := time.Now().UTC()

	var id int64
	err := s.st.DB.QueryRowx(`INSERT INTO leads(name, email, phone, source, status, created_at, updated_at)
		VALUES($1,$2,$3,$4,$5,$6,$6) RETURNING id`, in.Name, in.Email, phone, source, StatusNew, now).Scan(&id)
	if err != nil { return nil, err }
	s.cache.Delete(statsKey)
	return s.GetByID(id)
}

func (s *Service) List(f Filter) ([]models.Lead, error) {
	q := `SELECT id, name, email, phone, source, status, created_at, updated_at FROM leads`
	var conds []string
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status=$%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", n, n))
	}
	if len(conds) > 0 { q += " WHERE " + strings.Join(conds, " AND ") }
	q += " ORDER BY created_at DESC"

	list := []models.Lead{}
	if err := s.st.DB.Select(&list, q, args...); err != nil { return nil, err }
	if err := s.attachNotes(list); err != nil { return nil, err }
	return list, nil
}

func (s *Service) GetByID(id int64) (*models.Lead, error) {
	var l models.Lead
	err := s.st.DB.Get(&l, `SELECT id, name, email, phone, source, status, created_at, updated_at FROM leads WHERE id=$1`, id)
	if err != nil { if errors.Is(err, sql.ErrNoRows) { return nil, ErrNotFound } ; return nil, err }
	notes := []models.Note{}
	if err := s.st.DB.Select(&notes, `SELECT id, lead_id, text, created_at FROM lead_notes WHERE lead_id=$1 ORDER BY created_at, id`, id); err != nil { return nil, err }
	l.Notes = notes
	return &l, nil
}

func (s *Service) UpdateStatus(id int64, status string) (*models.Lead, error) {
	if !ValidStatus(status) { return nil, ErrInvalidStatus }
	res, err := s.st.DB.Exec(`UPDATE leads SET status=$1, updated_at=$2 WHERE id=$3`, status, time.Now().UTC(), id)
	if err != nil { return nil, err }
	if n, _ := res.RowsAffected(); n == 0 { return nil, ErrNotFound }
	s.cache.Delete(statsKey)
	return s.GetByID(id)
}

// AppendNote inserts the note and bumps updated_at in one transaction so a
// concurrent delete cannot leave an orphaned note.
func (s *Service) AppendNote(id int64, text string) (*models.Lead, error) {
	now := time.Now().UTC()
	tx, err := s.st.DB.Beginx()
	if err != nil { return nil, err }
	res, err := tx.Exec(`UPDATE leads SET updated_at=$1 WHERE id=$2`, now, id)
	if err != nil { tx.Rollback(); return nil, err }
	if n, _ := res.RowsAffected(); n == 0 { tx.Rollback(); return nil, ErrNotFound }
	if _, err := tx.Exec(`INSERT INTO lead_notes(lead_id, text, created_at) VALUES($1,$2,$3)`, id, text, now); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil { return nil, err }
	s.cache.Delete(statsKey)
	return s.GetByID(id)
}

func (s *Service) Delete(id int64) error {
	res, err := s.st.DB.Exec(`DELETE FROM leads WHERE id=$1`, id)
	if err != nil { return err }
	if n, _ := res.RowsAffected(); n == 0 { return ErrNotFound }
	s.cache.Delete(statsKey)
	return nil
}

// CountByStatus runs one GROUP BY pass; the total is the sum of the buckets.
func (s *Service) CountByStatus() (*Stats, error) {
	var st Stats
	if s.cache.Get(statsKey, &st) { return &st, nil }

	rows, err := s.st.DB.Queryx(`SELECT status, COUNT(*) AS n FROM leads GROUP BY status`)
	if err != nil { return nil, err }
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil { return nil, err }
		switch status {
		case StatusNew:
			st.NewLeads = n
		case StatusContacted:
			st.Contacted = n
		case StatusConverted:
			st.Converted = n
		case StatusLost:
			st.Lost = n
		}
		st.Total += n
	}
	if err := rows.Err(); err != nil { return nil, err }
	s.cache.Set(statsKey, &st)
	return &st, nil
}

func (s *Service) attachNotes(list []models.Lead) error {
	if len(list) == 0 { return nil }
	byID := make(map[int64]*models.Lead, len(list))
	ids := make([]int64, 0, len(list))
	for i := range list {
		list[i].Notes = []models.Note{}
		byID[list[i].ID] = &list[i]
		ids = append(ids, list[i].ID)
	}
	q, args, err := sqlx.In(`SELECT id, lead_id, text, created_at FROM lead_notes WHERE lead_id IN (?) ORDER BY created_at, id`, ids)
	if err != nil { return err }
	notes := []models.Note{}
	if err := s.st.DB.Select(&notes, s.st.DB.Rebind(q), args...); err != nil { return err }
	for _, n := range notes {
		if l := byID[n.LeadID]; l != nil { l.Notes = append(l.Notes, n) }
	}
	return nil
}
