package app

import (
	"encoding/json"
	"net/http"
)

func writePluginInfo(w http.ResponseWriter, info map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(info)
}
