package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/linguaviz/linguaviz/pkg/errors"
)

// listResponse wraps collection results so the item count is explicit and
// the top-level JSON value is always an object.
type listResponse struct {
	Items any `json:"items"`
	Count int `json:"count"`
}

// errorResponse is the JSON body for every failed request.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidArgument, err, "invalid request body")
	}
	return nil
}

func parseIntParam(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidArgument, "%s must be an integer, got %q", name, value)
	}
	return n, nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps an error's code to an HTTP status and writes the JSON
// error body. Unknown codes are treated as internal failures.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)

	var status int
	switch code {
	case errors.ErrCodeInvalidArgument, errors.ErrCodeInvalidConcept,
		errors.ErrCodeInvalidNodeType, errors.ErrCodeInvalidID:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	default:
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}

	respondJSON(w, status, errorResponse{Error: errorBody{
		Code:    string(code),
		Message: errors.UserMessage(err),
	}})
}
