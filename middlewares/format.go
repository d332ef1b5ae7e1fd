package middlewares

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
)

func RespondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		err := json.NewEncoder(w).Encode(data)
		if err != nil {
			log.Printf("failed to encode JSON response: %v", err)
		}
	}
}

func HttpError(w http.ResponseWriter, message string, status int, err error) {
	log.Printf("HTTP %d - %s: %v", status, message, err)
	http.Error(w, message, status)
}

// JSONError writes {"error": message} and logs the cause for server errors.
func JSONError(w http.ResponseWriter, message string, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Printf("HTTP %d - %s: %v", status, message, err)
	}
	RespondJSON(w, map[string]string{"error": message}, status)
}

// RenderHTML executes the named template into a buffer before anything
// is written to w.
func RenderHTML(w http.ResponseWriter, tpl *template.Template, name string, data interface{}, status int) {
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, name, data); err != nil {
		HttpError(w, "Failed to render page", http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("failed to write page %s: %v", name, err)
	}
}
