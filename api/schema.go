package api

import (
	"net/http"

	"snake-server/logger"
	"snake-server/protocol"
)

// GetSchema serves the JSON schema of every server-to-client message.
func GetSchema(w http.ResponseWriter, r *http.Request) {
	doc, err := protocol.Schema()
	if err != nil {
		logger.Log.WithError(err).Error("Failed to build protocol schema")
		http.Error(w, "schema unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}
