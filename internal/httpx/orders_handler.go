package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-inventory-orders/internal/orders"
	"github.com/ariefcatur/go-inventory-orders/internal/redisx"
	"github.com/ariefcatur/go-inventory-orders/internal/users"
)

type OrdersHandler struct {
	Orders *orders.Service
	Auth   *users.AuthService
	Redis  *redis.Client
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(Authenticator(h.Auth))
		r.Post("/", h.create)
		r.Get("/", h.listOwn)
		r.Get("/history", h.history)
		r.Get("/{id}", h.get)
		r.Get("/{id}/invoice", h.invoice)

		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Get("/all", h.listAll)
		})
	})
}

type createOrderReq struct {
	Items []orders.ItemInput `json:"items"`
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	order, err := h.Orders.CreateOrder(r.Context(), id.UserID, req.Items)
	if err != nil {
		writeError(w, err)
		return
	}

	// Cache purchase history user ini basi sekarang; projector yang mengisi
	// ulang dari event.
	if h.Redis != nil {
		_ = h.Redis.Del(r.Context(), fmt.Sprintf(redisx.KeyHistory, id.UserID)).Err()
	}

	writeJSON(w, http.StatusCreated, order)
}

// requester mengembalikan nil untuk admin: lolos cek ownership di service.
func requester(id Identity) *string {
	if id.IsAdmin() {
		return nil
	}
	uid := id.UserID
	return &uid
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	order, err := h.Orders.GetOrder(r.Context(), chi.URLParam(r, "id"), requester(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrdersHandler) listOwn(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	list, err := h.Orders.GetUserOrders(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) listAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.Orders.GetAllOrders(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) invoice(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	inv, err := h.Orders.GetInvoice(r.Context(), chi.URLParam(r, "id"), requester(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *OrdersHandler) history(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	key := fmt.Sprintf(redisx.KeyHistory, id.UserID)

	// 1) coba cache
	if h.Redis != nil {
		if s, err := h.Redis.Get(r.Context(), key).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	// 2) fallback agregasi dari DB
	entries, err := h.Orders.GetPurchaseHistory(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.Redis != nil {
		if b, err := json.Marshal(entries); err == nil {
			_ = h.Redis.Set(r.Context(), key, b, redisx.TTLHistoryCache).Err()
		}
	}
	writeJSON(w, http.StatusOK, entries)
}
