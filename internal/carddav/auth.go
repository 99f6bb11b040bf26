package carddav

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// basicAuth checks r against the configured single-user credential. OPTIONS
// is exempt per §6.2; every other method requires it.
func (h *Handler) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		user, pass, ok := r.BasicAuth()
		if !ok || !h.checkCredential(user, pass) {
			w.Header().Set("WWW-Authenticate", `Basic realm="`+h.cfg.Server.Realm+`"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) checkCredential(user, pass string) bool {
	if user != h.cfg.Auth.Username {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(h.cfg.Auth.BcryptHash), []byte(pass)) == nil
}
