// Package respond writes the three response shapes of the backend: plain
// JSON bodies, {"status","message"} errors, and field-to-message validation
// maps.
package respond

import (
	"encoding/json"
	"net/http"

	"bookapp/package/logger"
)

type errorMessage struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("write response: ", err)
	}
}

// Error writes {"status":"error","message":...}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorMessage{Status: "error", Message: message})
}

// Fields writes a 400 with the field-to-message validation map.
func Fields(w http.ResponseWriter, fields map[string]string) {
	JSON(w, http.StatusBadRequest, fields)
}
