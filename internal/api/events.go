package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"loreline/internal/store"
	"loreline/internal/timeline"
)

// Error bodies are part of the wire contract; storage errors are never
// leaked verbatim.
const (
	msgNotFound = "Event not found"
	msgInvalid  = "Invalid event data"
	msgInternal = "internal error"
)

func (s *Server) handleEventList(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.GetAll()
	if err != nil {
		var record *store.CorruptRecordError
		if !errors.As(err, &record) {
			s.log.Error("list events", "err", err)
			writeError(w, http.StatusInternalServerError, msgInternal)
			return
		}
		// Corrupt rows are skipped but never silent.
		s.log.Error("corrupt records excluded from listing", "err", err)
	}
	if events == nil {
		events = []timeline.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleEventGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	event, err := s.store.GetByID(id)
	if err != nil {
		s.log.Error("get event", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if event == nil {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (s *Server) handleEventCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalid)
		return
	}

	// Validate before touching storage; a rejected payload has no side
	// effect.
	if err := s.valid.ValidateEvent(body); err != nil {
		s.log.Debug("rejected event payload", "err", err)
		writeError(w, http.StatusBadRequest, msgInvalid)
		return
	}

	var event timeline.Event
	if err := json.Unmarshal(body, &event); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalid)
		return
	}

	if err := s.store.Upsert(&event); err != nil {
		s.log.Error("create event", "id", event.ID, "err", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	// Echo back the stored form, not the request.
	stored, err := s.store.GetByID(event.ID)
	if err != nil || stored == nil {
		s.log.Error("read back created event", "id", event.ID, "err", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	s.log.Info("event created", "id", stored.ID, "era", stored.Era)
	writeJSON(w, http.StatusCreated, stored)
}
