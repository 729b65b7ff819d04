package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/example/userboard/internal/account"
	"github.com/example/userboard/internal/domain/user"
)

type pageData struct {
	Title string
	Flash string
	Error string
	User  user.User
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, "home.html", pageData{Title: "Home", Flash: takeFlash(w, r)})
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, "register.html", pageData{Title: "Register", Flash: takeFlash(w, r)})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if username == "" || password == "" {
		s.render(w, "register.html", pageData{Title: "Register", Error: "Username and password are required"})
		return
	}

	_, err := s.accounts.Register(r.Context(), username, password)
	switch {
	case errors.Is(err, user.ErrDuplicateUsername):
		s.render(w, "register.html", pageData{Title: "Register", Error: "Username already exists"})
	case err != nil:
		s.internalError(w, err)
	default:
		setFlash(w, "Registration successful")
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, "login.html", pageData{Title: "Login", Flash: takeFlash(w, r)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	u, err := s.accounts.Login(r.Context(), username, password)
	switch {
	// One message for both unknown-user and wrong-password.
	case errors.Is(err, user.ErrInvalidCredentials):
		s.render(w, "login.html", pageData{Title: "Login", Error: "Invalid username or password"})
	case err != nil:
		s.internalError(w, err)
	default:
		if err := s.sessions.SetUserID(w, r, u.ID); err != nil {
			s.internalError(w, err)
			return
		}
		setFlash(w, "Login successful")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	u, err := s.accounts.Profile(r.Context(), userIDFromCtx(r))
	switch {
	case errors.Is(err, user.ErrNotFound):
		// Stale session: the account is gone, treat as unauthenticated.
		s.sessions.Clear(w)
		http.Redirect(w, r, "/login", http.StatusFound)
	case err != nil:
		s.internalError(w, err)
	default:
		s.render(w, "dashboard.html", pageData{Title: "Dashboard", Flash: takeFlash(w, r), User: u})
	}
}

func (s *Server) handleDashboardUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	uid := userIDFromCtx(r)
	upd := account.ProfileUpdate{
		AttributeInt: r.FormValue("attribute_int"),
		AttributeStr: r.FormValue("attribute_str"),
	}

	_, err := s.accounts.UpdateProfile(r.Context(), uid, upd)
	switch {
	case errors.Is(err, user.ErrNotFound):
		s.sessions.Clear(w)
		http.Redirect(w, r, "/login", http.StatusFound)
	case errors.Is(err, user.ErrInvalidAttribute):
		u, perr := s.accounts.Profile(r.Context(), uid)
		if perr != nil {
			s.internalError(w, perr)
			return
		}
		s.render(w, "dashboard.html", pageData{Title: "Dashboard", Error: "attribute_int must be a whole number", User: u})
	case err != nil:
		s.internalError(w, err)
	default:
		setFlash(w, "Profile updated")
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w)
	setFlash(w, "You have been logged out")
	http.Redirect(w, r, "/", http.StatusFound)
}
