package middleware

import (
	"net/http"
	"strings"

	"github.com/tripgate/tripgate/internal/api/models"
)

// bodyMethods are the methods whose requests carry a JSON document.
var bodyMethods = map[string]bool{
	http.MethodPost:  true,
	http.MethodPut:   true,
	http.MethodPatch: true,
}

// ContentTypeJSON sets the default response content type. Handlers that set
// another type first, as problem responses do, win.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json")
		}
		next.ServeHTTP(w, r)
	})
}

// RequireJSON rejects body-carrying requests whose Content-Type is not JSON
// before any handler reads the document.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if bodyMethods[r.Method] {
			contentType := r.Header.Get("Content-Type")
			if contentType != "" && !strings.HasPrefix(contentType, "application/json") {
				problem := models.NewUnsupportedMediaType(GetRequestID(r.Context()),
					"request bodies must be application/json")
				problem.Instance = r.URL.Path
				problem.Write(w)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
