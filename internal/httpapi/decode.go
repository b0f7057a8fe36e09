package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

type decodeError struct {
	status  int
	message string
	empty   bool
}

func (e *decodeError) Error() string {
	return e.message
}

func (r *Router) decodeJSON(w http.ResponseWriter, req *http.Request, dst any) error {
	req.Body = http.MaxBytesReader(w, req.Body, r.maxRequestBytes)
	if err := json.NewDecoder(req.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return &decodeError{status: http.StatusBadRequest, message: "empty body", empty: true}
		case errors.As(err, &tooLarge):
			return &decodeError{status: http.StatusRequestEntityTooLarge, message: "request entity too large"}
		default:
			return &decodeError{status: http.StatusBadRequest, message: fmt.Sprintf("invalid json: %v", err)}
		}
	}
	return nil
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var derr *decodeError
	if errors.As(err, &derr) {
		writeJSON(w, derr.status, map[string]string{"error": derr.message})
		return
	}
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func isEmptyBody(err error) bool {
	var derr *decodeError
	return errors.As(err, &derr) && derr.empty
}
