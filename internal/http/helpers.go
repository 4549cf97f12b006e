package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// decodeOneOrMany accepts either a single JSON object or a JSON array of
// them, returning a slice in both cases.
func decodeOneOrMany[T any](r *http.Request) ([]T, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	body = bytes.TrimSpace(body)

	if len(body) > 0 && body[0] == '[' {
		var many []T
		if err := json.Unmarshal(body, &many); err != nil {
			return nil, fmt.Errorf("decode request body: %w", err)
		}
		return many, nil
	}

	var one T
	if err := json.Unmarshal(body, &one); err != nil {
		return nil, fmt.Errorf("decode request body: %w", err)
	}
	return []T{one}, nil
}
