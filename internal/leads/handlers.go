package leads

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"leadpilot-backend/internal/events"
	"leadpilot-backend/internal/httputil"
)

var validate = validator.New()

type createReq struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required"`
	Phone  string `json:"phone"`
	Source string `json:"source"`
}

type statusReq struct {
	Status string `json:"status" validate:"required,oneof=new contacted converted lost"`
}

type noteReq struct {
	Text string `json:"text" validate:"required"`
}

func HandleCreate(s *Service, hub *events.Hub, w http.ResponseWriter, r *http.Request) error {
	var req createReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil { return httputil.BadRequest("invalid request body") }
	if err := validate.Struct(req); err != nil { return httputil.BadRequest("name and email are required") }

	lead, err := s.Create(CreateInput{Name: req.Name, Email: req.Email, Phone: req.Phone, Source: req.Source})
	if err != nil { return err }
	hub.Broadcast(events.LeadCreated, lead)
	return json.NewEncoder(w).Encode(map[string]any{"message": "Lead submitted successfully!", "lead": lead})
}

func HandleList(s *Service, w http.ResponseWriter, r *http.Request) error {
	f := Filter{Status: r.URL.Query().Get("status"), Search: r.URL.Query().Get("search")}
	list, err := s.List(f)
	if err != nil { return err }
	return json.NewEncoder(w).Encode(list)
}

func HandleGet(s *Service, w http.ResponseWriter, r *http.Request) error {
	id, err := leadID(r)
	if err != nil { return httputil.NotFound("Lead not found") }
	lead, err := s.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) { return httputil.NotFound("Lead not found") }
		return err
	}
	return json.NewEncoder(w).Encode(lead)
}

func HandleUpdateStatus(s *Service, hub *events.Hub, w http.ResponseWriter, r *http.Request) error {
	id, err := leadID(r)
	if err != nil { return httputil.NotFound("Lead not found") }
	var req statusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil { return httputil.BadRequest("invalid request body") }
	if err := validate.Struct(req); err != nil { return httputil.BadRequest("status must be one of new, contacted, converted, lost") }

	lead, err := s.UpdateStatus(id, req.Status)
	if err != nil {
		if errors.Is(err, ErrNotFound) { return httputil.NotFound("Lead not found") }
		if errors.Is(err, ErrInvalidStatus) { return httputil.BadRequest("status must be one of new, contacted, converted, lost") }
		return err
	}
	hub.Broadcast(events.LeadUpdated, lead)
	return json.NewEncoder(w).Encode(lead)
}

func HandleAppendNote(s *Service, hub *events.Hub, w http.ResponseWriter, r *http.Request) error {
	id, err := leadID(r)
	if err != nil { return httputil.NotFound("Lead not found") }
	var req noteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil { return httputil.BadRequest("invalid request body") }
	if err := validate.Struct(req); err != nil { return httputil.BadRequest("text is required") }

	lead, err := s.AppendNote(id, req.Text)
	if err != nil {
		if errors.Is(err, ErrNotFound) { return httputil.NotFound("Lead not found") }
		return err
	}
	hub.Broadcast(events.LeadUpdated, lead)
	return json.NewEncoder(w).Encode(lead)
}

func HandleDelete(s *Service, hub *events.Hub, w http.ResponseWriter, r *http.Request) error {
	id, err := leadID(r)
	if err != nil { return httputil.NotFound("Lead not found") }
	if err := s.Delete(id); err != nil {
		if errors.Is(err, ErrNotFound) { return httputil.NotFound("Lead not found") }
		return err
	}
	hub.Broadcast(events.LeadDeleted, map[string]int64{"id": id})
	return json.NewEncoder(w).Encode(map[string]string{"message": "Lead deleted successfully"})
}

func HandleStats(s *Service, w http.ResponseWriter, r *http.Request) error {
	st, err := s.CountByStatus()
	if err != nil { return err }
	return json.NewEncoder(w).Encode(st)
}

func leadID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
