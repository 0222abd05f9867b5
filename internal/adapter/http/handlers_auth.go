// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"errors"
	"net/http"

	"fitlog/internal/app"
)

type loginPage struct {
	Error string
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, "login.html", loginPage{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	token, err := s.sessions.Login(r.Context(), r.PostFormValue("name"))
	if errors.Is(err, app.ErrEmptyName) {
		render(w, r, "login.html", loginPage{Error: "Please enter a name."})
		return
	}
	if err != nil {
		internalError(w, r, err, "login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.sessions.TTL().Seconds()),
	})
	http.Redirect(w, r, "/main", http.StatusFound)
}

// handleLogout is idempotent: with or without a session it ends on the login page.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := s.sessions.Logout(r.Context(), cookie.Value); err != nil {
			internalError(w, r, err, "logout")
			return
		}
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusFound)
}
