package middleware

import (
	"fmt"
	"net/http"
)

func requestIDFrom(r *http.Request) string {
	if id, ok := r.Context().Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// rejectJSON writes the same error envelope handlers produce through pkg/http.
func rejectJSON(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `{"success":false,"code":%q,"error":%q}`+"\n", code, message)
}
