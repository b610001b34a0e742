package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/example/ec-shop-core/internal/domain/cart"
	"github.com/example/ec-shop-core/internal/domain/catalog"
	"github.com/example/ec-shop-core/internal/domain/order"
)

type Handlers struct {
	catalog *catalog.Service
	carts   *cart.Service
	orders  *order.Service
	logger  logrus.FieldLogger
}

func NewHandlers(catalogSvc *catalog.Service, cartSvc *cart.Service, orderSvc *order.Service, logger logrus.FieldLogger) *Handlers {
	return &Handlers{
		catalog: catalogSvc,
		carts:   cartSvc,
		orders:  orderSvc,
		logger:  logger,
	}
}

// bodyInput decodes the request body into a raw map. An empty body yields an
// empty map so field-level validation can report what is missing.
func bodyInput(r *http.Request) map[string]any {
	input := map[string]any{}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&input)
	}
	return input
}

// queryInput collects single-valued query parameters into a raw map. Values
// stay strings; coercion happens during validation.
func queryInput(r *http.Request) map[string]any {
	input := map[string]any{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			input[key] = values[0]
		}
	}
	return input
}

// Product handlers

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.List(r.Context(), SessionFrom(r.Context()), queryInput(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	input := map[string]any{"id": chi.URLParam(r, "id")}
	product, err := h.catalog.GetByID(r.Context(), SessionFrom(r.Context()), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Create(r.Context(), SessionFrom(r.Context()), bodyInput(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	input := bodyInput(r)
	input["id"] = chi.URLParam(r, "id")
	product, err := h.catalog.Update(r.Context(), SessionFrom(r.Context()), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) UpdateProductStatus(w http.ResponseWriter, r *http.Request) {
	input := bodyInput(r)
	input["id"] = chi.URLParam(r, "id")
	product, err := h.catalog.UpdateStatus(r.Context(), SessionFrom(r.Context()), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	input := map[string]any{"id": chi.URLParam(r, "id")}
	if err := h.catalog.Delete(r.Context(), SessionFrom(r.Context()), input); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Cart handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(r.Context(), SessionFrom(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) AddCartItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.AddItem(r.Context(), SessionFrom(r.Context()), bodyInput(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	input := bodyInput(r)
	input["product_id"] = chi.URLParam(r, "productID")
	c, err := h.carts.UpdateItem(r.Context(), SessionFrom(r.Context()), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	input := map[string]any{"product_id": chi.URLParam(r, "productID")}
	c, err := h.carts.RemoveItem(r.Context(), SessionFrom(r.Context()), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// Order handlers

func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Create(r.Context(), SessionFrom(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, o)
}

func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.orders.List(r.Context(), SessionFrom(r.Context()), queryInput(r))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	input := map[string]any{"id": chi.URLParam(r, "id")}
	o, err := h.orders.GetByID(r.Context(), SessionFrom(r.Context()), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	input := bodyInput(r)
	input["id"] = chi.URLParam(r, "id")
	o, err := h.orders.UpdateStatus(r.Context(), SessionFrom(r.Context()), input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}
