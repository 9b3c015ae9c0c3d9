package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"hive-food/internal/auth"
	"hive-food/internal/domain"
	"hive-food/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Users    service.UserServiceInterface
	Catalog  service.CatalogServiceInterface
	Sessions service.SessionServiceInterface
	Items    service.ItemServiceInterface
	Activity service.ActivityReader
	Tokens   *auth.TokenManager
}

func NewHandler(users service.UserServiceInterface, catalog service.CatalogServiceInterface,
	sessions service.SessionServiceInterface, items service.ItemServiceInterface,
	activity service.ActivityReader, tokens *auth.TokenManager) *Handler {
	return &Handler{
		Users:    users,
		Catalog:  catalog,
		Sessions: sessions,
		Items:    items,
		Activity: activity,
		Tokens:   tokens,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/login", h.login).Methods("POST")
	r.HandleFunc("/api/logout", h.logout).Methods("POST")
	r.HandleFunc("/api/change-password", h.changePassword).Methods("POST")

	r.HandleFunc("/api/admin/users", h.listUsers).Methods("GET")
	r.HandleFunc("/api/admin/users", h.createUser).Methods("POST")
	r.HandleFunc("/api/admin/users/{userId}", h.deleteUser).Methods("DELETE")
	r.HandleFunc("/api/admin/users/{userId}/toggle-admin", h.toggleAdmin).Methods("POST")

	r.HandleFunc("/api/restaurants", h.listRestaurants).Methods("GET")
	r.HandleFunc("/api/restaurants", h.createRestaurant).Methods("POST")
	r.HandleFunc("/api/restaurants/{id}", h.getRestaurant).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}", h.updateRestaurant).Methods("PUT")
	r.HandleFunc("/api/restaurants/{id}", h.deleteRestaurant).Methods("DELETE")
	r.HandleFunc("/api/restaurants/{id}/menu", h.listMenu).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}/menu", h.createMenuItem).Methods("POST")
	r.HandleFunc("/api/restaurants/{id}/menu/{itemId}", h.updateMenuItem).Methods("PUT")
	r.HandleFunc("/api/restaurants/{id}/menu/{itemId}", h.deleteMenuItem).Methods("DELETE")

	r.HandleFunc("/api/sessions", h.listSessions).Methods("GET")
	r.HandleFunc("/api/sessions", h.createSession).Methods("POST")
	r.HandleFunc("/api/sessions/{id}", h.getSession).Methods("GET")
	r.HandleFunc("/api/sessions/{id}/close", h.closeSession).Methods("POST")
	r.HandleFunc("/api/sessions/{id}/qrcode", h.sessionQRCode).Methods("GET")
	r.HandleFunc("/api/sessions/{id}/summary", h.sessionSummary).Methods("GET")
	r.HandleFunc("/api/sessions/{id}/order-text", h.sessionTranscript).Methods("GET")
	r.HandleFunc("/api/sessions/{id}/export.csv", h.sessionExport).Methods("GET")

	r.HandleFunc("/api/sessions/{id}/items", h.listItems).Methods("GET")
	r.HandleFunc("/api/sessions/{id}/items", h.createItem).Methods("POST")
	r.HandleFunc("/api/sessions/{id}/items/{itemId}", h.updateItem).Methods("PUT")
	r.HandleFunc("/api/sessions/{id}/items/{itemId}", h.deleteItem).Methods("DELETE")

	r.HandleFunc("/api/activity/top-items", h.topItems).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":    "healthy",
		"service":   "hive-food",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// ---- auth ----

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.Users.Authenticate(payload.Email, payload.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	token, err := h.Tokens.Mint(user.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.setLoginCookie(w, token)
	writeJSON(w, user)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.clearLoginCookie(w)
	writeJSON(w, map[string]string{"status": "logged out"})
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	var payload struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Users.ChangePassword(user.ID, payload.CurrentPassword, payload.NewPassword, payload.ConfirmPassword); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"status": "password changed"})
}

// ---- admin user management ----

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}
	users, err := h.Users.ListUsers()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, users)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}
	var payload struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		IsAdmin  bool   `json:"is_admin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.Users.CreateUser(payload.FullName, payload.Email, payload.Password, payload.IsAdmin)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, user)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	targetID, _ := strconv.Atoi(mux.Vars(r)["userId"])
	if err := h.Users.DeleteUser(actor, targetID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) toggleAdmin(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	targetID, _ := strconv.Atoi(mux.Vars(r)["userId"])
	target, err := h.Users.ToggleAdmin(actor, targetID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, target)
}

// ---- catalog ----

func (h *Handler) listRestaurants(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	restaurants, err := h.Catalog.ListRestaurants()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, restaurants)
}

func (h *Handler) createRestaurant(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}
	var rest domain.Restaurant
	if err := json.NewDecoder(r.Body).Decode(&rest); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Catalog.CreateRestaurant(&rest); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, rest)
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	rest, err := h.Catalog.GetRestaurant(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, rest)
}

func (h *Handler) updateRestaurant(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var rest domain.Restaurant
	if err := json.NewDecoder(r.Body).Decode(&rest); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rest.ID = id
	if err := h.Catalog.UpdateRestaurant(&rest); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, rest)
}

func (h *Handler) deleteRestaurant(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Catalog.DeleteRestaurant(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	restaurantID, _ := strconv.Atoi(mux.Vars(r)["id"])
	items, err := h.Catalog.ListMenu(r.Context(), restaurantID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, items)
}

type menuItemPayload struct {
	Name  string `json:"name"`
	Price string `json:"price_eur"`
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}
	restaurantID, _ := strconv.Atoi(mux.Vars(r)["id"])
	var payload menuItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	price, err := domain.ParsePrice(payload.Price)
	if err != nil {
		h.writeError(w, service.ErrInvalidPrice)
		return
	}

	item := domain.MenuItem{RestaurantID: restaurantID, Name: payload.Name, PriceCents: price}
	if err := h.Catalog.CreateMenuItem(r.Context(), &item); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, item)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}
	vars := mux.Vars(r)
	restaurantID, _ := strconv.Atoi(vars["id"])
	itemID, _ := strconv.Atoi(vars["itemId"])
	var payload menuItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	price, err := domain.ParsePrice(payload.Price)
	if err != nil {
		h.writeError(w, service.ErrInvalidPrice)
		return
	}

	item := domain.MenuItem{ID: itemID, RestaurantID: restaurantID, Name: payload.Name, PriceCents: price}
	if err := h.Catalog.UpdateMenuItem(r.Context(), &item); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, item)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}
	vars := mux.Vars(r)
	restaurantID, _ := strconv.Atoi(vars["id"])
	itemID, _ := strconv.Atoi(vars["itemId"])
	if err := h.Catalog.DeleteMenuItem(r.Context(), restaurantID, itemID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- order sessions ----

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	sessions, err := h.Sessions.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, sessions)
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	var input service.SessionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.Sessions.Create(user, input)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, session)
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	session, err := h.Sessions.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"session":   session,
		"editable":  service.IsEditable(session, time.Now().UTC()),
		"can_close": service.CanClose(user, session),
	})
}

func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	session, err := h.Sessions.Close(r.Context(), id, user)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, session)
}

func (h *Handler) sessionQRCode(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	png, err := h.Sessions.QRCode(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) sessionSummary(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	summary, err := h.Sessions.Summary(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"totals":          summary.Totals,
		"grand_count":     summary.GrandCount,
		"grand_total_eur": domain.FormatCents(summary.GrandTotalCents),
	})
}

func (h *Handler) sessionTranscript(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	text, err := h.Sessions.Transcript(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(text))
}

func (h *Handler) sessionExport(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	data, err := h.Sessions.ExportCSV(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="order_session_%d.csv"`, id))
	w.Write(data)
}

// ---- line items ----

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	sessionID, _ := strconv.Atoi(mux.Vars(r)["id"])
	items, err := h.Items.List(sessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, items)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	sessionID, _ := strconv.Atoi(mux.Vars(r)["id"])
	var input service.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.Items.Create(r.Context(), sessionID, user, input)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, item)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	sessionID, _ := strconv.Atoi(vars["id"])
	itemID, _ := strconv.Atoi(vars["itemId"])
	var input service.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.Items.Update(r.Context(), sessionID, itemID, user, input)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, item)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	sessionID, _ := strconv.Atoi(vars["id"])
	itemID, _ := strconv.Atoi(vars["itemId"])

	if err := h.Items.Delete(r.Context(), sessionID, itemID, user); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- activity ----

func (h *Handler) topItems(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	if h.Activity == nil {
		writeJSON(w, []domain.ItemActivity{})
		return
	}
	top, err := h.Activity.TopItemNames(r.Context(), limit)
	if err != nil {
		writeJSON(w, []domain.ItemActivity{})
		return
	}
	if top == nil {
		top = []domain.ItemActivity{}
	}
	writeJSON(w, top)
}

// ---- helpers ----

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrNotAllowed), errors.Is(err, service.ErrSelfTarget):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, service.ErrSessionLocked), errors.Is(err, service.ErrSessionClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrBadCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case service.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
