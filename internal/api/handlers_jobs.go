package api

import (
	"net/http"
)

// handleListAnalyses returns snapshots of every live job, newest first.
// Finished jobs drop out once the store TTL evicts them.
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"jobs": s.orchestrator.Jobs(),
	})
}
