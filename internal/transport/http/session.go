package httptransport

import (
	"net/http"

	"github.com/google/uuid"
)

const sessionCookieName = "session_id"

// ensureSession returns the caller's session id, issuing a new one when the
// request has none. It must run before the response is written.
func ensureSession(w http.ResponseWriter, r *http.Request) string {
	id := ""
	if c, err := r.Cookie(sessionCookieName); err == nil {
		id = c.Value
	}
	if id == "" {
		id = uuid.NewString()
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
