package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-inventory-orders/internal/catalog"
	"github.com/ariefcatur/go-inventory-orders/internal/orders"
	"github.com/ariefcatur/go-inventory-orders/internal/users"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError memetakan taksonomi error domain ke status HTTP. Error yang
// tidak dikenal dianggap kegagalan persistence/internal (500) dan tidak
// dibocorkan ke client.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": messageFor(err)})
}

func statusFor(err error) int {
	var stockErr *orders.InsufficientStockError
	var prodErr *orders.ProductNotFoundError
	switch {
	case errors.Is(err, users.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, orders.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, orders.ErrOrderNotFound),
		errors.Is(err, orders.ErrUserNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, users.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &prodErr):
		return http.StatusNotFound
	case errors.As(err, &stockErr),
		errors.Is(err, users.ErrEmailTaken),
		errors.Is(err, catalog.ErrBatchNumberExists):
		return http.StatusConflict
	case errors.Is(err, orders.ErrEmptyOrder),
		errors.Is(err, orders.ErrInvalidQty),
		errors.Is(err, orders.ErrMissingProductID),
		errors.Is(err, catalog.ErrInvalidProduct),
		errors.Is(err, users.ErrInvalidUser):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}
