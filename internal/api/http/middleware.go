package httpapi

import (
	"context"
	"net/http"

	"hive-food/internal/domain"
)

const cookieName = "hive_food_session"

type contextKey string

const userContextKey contextKey = "current_user"

// authenticate resolves the acting user from the signed session cookie
// once per request and threads it through the request context. A
// missing, expired, or tampered cookie simply means anonymous; it never
// fails the request by itself.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(cookieName)
		if err == nil {
			if userID, ok := h.Tokens.Parse(cookie.Value); ok {
				if user, err := h.Users.Get(userID); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

func userFrom(r *http.Request) (*domain.User, bool) {
	user, ok := r.Context().Value(userContextKey).(*domain.User)
	return user, ok
}

func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := userFrom(r)
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return nil, false
	}
	return user, true
}

func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return nil, false
	}
	if !user.IsAdmin {
		http.Error(w, "admin access required", http.StatusForbidden)
		return nil, false
	}
	return user, true
}

func (h *Handler) setLoginCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.Tokens.TTL().Seconds()),
	})
}

func (h *Handler) clearLoginCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
