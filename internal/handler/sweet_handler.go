package handler

import (
	"encoding/json"
	"net/http"

	"sweetshop/backend/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CreateSweetRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	ImageURL    string          `json:"image_url"`
}

func (h *Handler) ListSweets(w http.ResponseWriter, r *http.Request) {
	sweets, err := h.svc.ListSweets(r.Context())
	if err != nil {
		h.writeInventoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sweets)
}

func (h *Handler) SearchSweets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.SweetFilter{
		Name:     q.Get("name"),
		Category: q.Get("category"),
	}

	if raw := q.Get("min_price"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid min_price")
			return
		}
		filter.MinPrice = &min
	}
	if raw := q.Get("max_price"); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid max_price")
			return
		}
		filter.MaxPrice = &max
	}

	sweets, err := h.svc.SearchSweets(r.Context(), filter)
	if err != nil {
		h.writeInventoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sweets)
}

func (h *Handler) CreateSweet(w http.ResponseWriter, r *http.Request) {
	var req CreateSweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sweet, err := h.svc.CreateSweet(r.Context(), model.Sweet{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		h.writeInventoryError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sweet)
}

func (h *Handler) UpdateSweet(w http.ResponseWriter, r *http.Request) {
	var upd model.SweetUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sweet, err := h.svc.UpdateSweet(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		h.writeInventoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sweet)
}

func (h *Handler) DeleteSweet(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSweet(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeInventoryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) PurchaseSweet(w http.ResponseWriter, r *http.Request) {
	var req QuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, ok := callerProfile(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid authentication credentials")
		return
	}

	purchase, err := h.svc.Purchase(r.Context(), chi.URLParam(r, "id"), req.Quantity, profile.ID)
	if err != nil {
		h.writeInventoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, purchase)
}

func (h *Handler) RestockSweet(w http.ResponseWriter, r *http.Request) {
	var req QuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sweet, err := h.svc.Restock(r.Context(), chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		h.writeInventoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sweet)
}
