package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/diewo77/go-energy/internal/apperr"
)

// JSON writes payload as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"detail":"Internal server error."}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

// Detail writes the API error envelope: {"detail": message}.
func Detail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"detail": msg})
}

// Error maps err through the apperr taxonomy and writes the envelope.
func Error(w http.ResponseWriter, err error) {
	Detail(w, apperr.Status(err), apperr.Message(err))
}
