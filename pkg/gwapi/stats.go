package gwapi

import (
	"encoding/json"
	"net/http"
)

// statsResponse is the JSON shape returned by GET /stats.
type statsResponse struct {
	Inserts   int64 `json:"inserts"`
	Entries   int64 `json:"entries"`
	Bytes     int64 `json:"bytes"`
	Evictions int64 `json:"evictions"`
}

func (h *objectHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.cache.Stats()
	resp := statsResponse{
		Inserts:   stats.Inserts,
		Entries:   stats.Entries,
		Bytes:     stats.Bytes,
		Evictions: stats.Evictions,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
