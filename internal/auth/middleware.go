package auth

import (
	"context"
	"net/http"

	"github.com/markbates/goth/gothic"
)

const SessionName = "_tagstock_session"

func UserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := gothic.Store.Get(r, SessionName)
		if err != nil {
			http.Error(w, "Not Authorized", http.StatusUnauthorized)
			return
		}

		userID, ok := session.Values["user_id"].(uint)
		if !ok || userID == 0 {
			http.Error(w, "Not Authorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), "userID", userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CommitSession re-saves the caller's session so the response carries a
// refreshed cookie with a renewed max-age.
func CommitSession(w http.ResponseWriter, r *http.Request) error {
	session, err := gothic.Store.Get(r, SessionName)
	if err != nil {
		return err
	}
	return session.Save(r, w)
}
