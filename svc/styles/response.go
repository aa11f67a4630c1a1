package styles

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/templatestyles/pkg/logger"
)

// JSONResponse is the envelope of every JSON reply.
type JSONResponse struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body JSONResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeCSS(w http.ResponseWriter, css string) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(css))
}

// writeError replies with the HTTP form of err. Server errors are logged
// and their message is replaced by the status text.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := classify(err)
	detail := &ErrorDetail{Code: httpErr.Key, Message: err.Error()}
	if httpErr.Code >= http.StatusInternalServerError {
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			logger.Error(err),
		)
		detail.Message = http.StatusText(httpErr.Code)
	}
	var fe fieldError
	if errors.As(err, &fe) {
		detail.Details = map[string][]string{fe.field: {fe.msg}}
	}
	writeJSON(w, httpErr.Code, JSONResponse{Error: detail})
}

// fieldError ties a request error to the input it came from.
type fieldError struct {
	field string
	msg   string
	err   error
}

func (e fieldError) Error() string { return e.err.Error() + ": " + e.msg }

func (e fieldError) Unwrap() error { return e.err }
