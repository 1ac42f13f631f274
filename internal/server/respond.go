package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/visualizeme/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps coded errors to HTTP statuses. Uncoded errors are
// logged and reported as internal without their text.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodeDocumentNotFound,
		errors.ErrCodePathNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidEdit, errors.ErrCodeMissingExport, errors.ErrCodeStaleMetadata,
		errors.ErrCodeUnsupportedValue, errors.ErrCodeNoMetadata, errors.ErrCodeEmptyDocument:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeEngineUnavailable, errors.ErrCodeRendererUnavailable:
		return http.StatusServiceUnavailable
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidMode, errors.ErrCodeParse,
		errors.ErrCodeUnsupportedLiteral, errors.ErrCodeNoExportsFound, errors.ErrCodeDuplicateExport,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidFilename, errors.ErrCodeInvalidSearchTerm,
		errors.ErrCodeInvalidEvent, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// decodeBody reads a bounded JSON request body into v.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed request body")
	}
	return nil
}
