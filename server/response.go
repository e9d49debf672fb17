package server

import (
	"encoding/json"
	"net/http"

	"github.com/teranos/plaszyme/errors"
)

// envelope is the success wrapper shared by the non-search endpoints.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}
	return nil
}

// writeData wraps data in a success envelope.
func writeData(w http.ResponseWriter, data interface{}) error {
	return writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

// writeFailure writes {"success":false,"error":message}.
func writeFailure(w http.ResponseWriter, status int, message string) {
	_ = writeJSON(w, status, struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}{false, message})
}

// readJSON decodes a size-limited JSON request body into v.
func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.WithHint(errors.ErrInvalidRequest, "send a JSON object with a \"sequence\" field"),
			"invalid request body: "+err.Error())
	}
	return nil
}
