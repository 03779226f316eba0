package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"transitmetrics.dev/analytics/gtfstime"
	"transitmetrics.dev/analytics/model"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("Encoding response")
	}
}

// writeError maps the error taxonomy onto HTTP statuses: missing
// things are 404, malformed or incomplete inputs are 422, anything
// else is a logged 500 with no internals leaked.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var missing *model.MissingTableError
	var malformed *gtfstime.MalformedTimeError

	switch {
	case errors.Is(err, model.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, map[string]string{"detail": err.Error()})
	case errors.As(err, &missing), errors.As(err, &malformed), errors.Is(err, model.ErrFormat):
		s.writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
	default:
		s.logger.Error().Err(err).Msg("Request failed")
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal error"})
	}
}

func (s *Server) writeBadRequest(w http.ResponseWriter, detail string) {
	s.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": detail})
}
