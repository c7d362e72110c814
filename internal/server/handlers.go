package server

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"xunlei/internal/constants"
	"xunlei/internal/security"
	"xunlei/internal/session"
	"xunlei/internal/ui"
)

// handlePanel runs the per-request session dance around the routing
// policy: look up the session by cookie, route, then persist or evict the
// session depending on what routing left behind.
func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(constants.SessionCookieName)
	hadSID := err == nil && cookie.Value != ""

	sid := ""
	if hadSID {
		sid = cookie.Value
	} else {
		sid = uuid.New().String()
	}

	// The session cookie is refreshed on every response, authenticated
	// or not; only the store decides whether a sid means anything.
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   constants.SessionCookieMaxAge,
		HttpOnly: true,
		SameSite: constants.SessionCookieSameSite,
	})

	var sess *session.Session
	if hadSID {
		if stored, ok := s.store.Get(sid); ok {
			sess = stored
		}
	}
	if s.cfg.AuthDisabled() {
		sess = session.New(sid, constants.SessionTTL)
	}

	sess, routeErr := s.route(w, r, sid, sess)

	if sess != nil {
		sess.Touch(constants.SessionTTL)
		s.store.Put(sess)
	} else if hadSID {
		s.store.Remove(sid)
	}

	if routeErr != nil {
		log.Printf("❌ Request failed: %s %s: %v", r.Method, r.URL.Path, routeErr)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "An error occurred %v", routeErr)
	}
}

// route applies the routing policy and returns the session state the
// request ends with. A non-nil error means nothing was written yet and
// the caller renders a plaintext error response.
func (s *Server) route(w http.ResponseWriter, r *http.Request, sid string, sess *session.Session) (*session.Session, error) {
	if r.Method == http.MethodPost && r.URL.Path == constants.EndpointLogin {
		return s.handleLogin(w, r, sid, sess)
	}

	if sess != nil {
		return sess, s.routeLoggedIn(w, r)
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == constants.EndpointLogin:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(ui.LoginPage)
	case r.Method == http.MethodGet && r.URL.Path == constants.EndpointSHA3Script:
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Write(ui.SHA3Script)
	default:
		http.Redirect(w, r, constants.EndpointLogin, http.StatusSeeOther)
	}
	return nil, nil
}

// handleLogin validates the pre-hashed form credentials. A wrong pair is
// answered with a plain 200 page, not an auth failure status.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, sid string, sess *session.Session) (*session.Session, error) {
	clientIP := security.GetClientIP(r)

	if s.protector != nil && !s.protector.Check(clientIP) {
		s.audit.LogBruteForce(clientIP, constants.MaxAuthAttempts)
		http.Error(w, constants.MsgTooManyAttempts, http.StatusTooManyRequests)
		return sess, nil
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return sess, nil
	}
	user, okUser := r.PostForm["auth_user"]
	password, okPassword := r.PostForm["auth_password"]
	if !okUser || !okPassword {
		http.Error(w, "Missing auth_user/auth_password", http.StatusBadRequest)
		return sess, nil
	}

	if s.authenticate(user[0], password[0]) {
		if s.protector != nil {
			s.protector.RecordSuccess(clientIP)
		}
		s.audit.LogAuthSuccess(clientIP)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return session.New(sid, constants.SessionTTL), nil
	}

	if s.protector != nil {
		s.protector.RecordFailure(clientIP)
	}
	s.audit.LogAuthFailure(clientIP, "wrong login/password")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(constants.MsgWrongLogin))
	return sess, nil
}

// authenticate compares submitted hashes against the configured pair in
// constant time.
func (s *Server) authenticate(user, password string) bool {
	return session.Equal(user, s.authUser) && session.Equal(password, s.authPassword)
}

func (s *Server) routeLoggedIn(w http.ResponseWriter, r *http.Request) error {
	if r.Method == http.MethodGet && r.URL.Path == constants.EndpointWebmanShim {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(constants.WebmanShimPayload))
		return nil
	}

	if r.Method == http.MethodGet && r.URL.Path == constants.EndpointLauncherLogs {
		s.handleLauncherLogs(w, r)
		return nil
	}

	// Only the daemon's web UI sub-path is proxied; everything else is
	// pointed at the canonical root.
	if !strings.Contains(r.URL.RequestURI(), constants.WebUIHome) {
		http.Redirect(w, r, constants.WebUIHome, http.StatusTemporaryRedirect)
		return nil
	}

	resp, err := s.gateway.Proxy(r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.WriteHeader(resp.StatusCode)

	if flusher, ok := w.(http.Flusher); ok {
		buf := make([]byte, 32*1024)
		for {
			n, readErr := resp.Body.Read(buf)
			if n > 0 {
				if _, writeErr := w.Write(buf[:n]); writeErr != nil {
					break
				}
				flusher.Flush()
			}
			if readErr != nil {
				break
			}
		}
	} else {
		io.Copy(w, resp.Body)
	}
	return nil
}
