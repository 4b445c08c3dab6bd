package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/go-energy/internal/httpx"
	"github.com/diewo77/go-energy/internal/services"
)

// ConsommationHandler exposes consumption records through the consumption
// service; all tenant scoping and alert evaluation happen there.
type ConsommationHandler struct {
	Service *services.ConsumptionService
}

func NewConsommationHandler(service *services.ConsumptionService) *ConsommationHandler {
	return &ConsommationHandler{Service: service}
}

type consommationRequest struct {
	CategoryID       *uint    `json:"category_id"`
	Value            *float64 `json:"value"`
	UnitPrice        *float64 `json:"unit_price"`
	DateConsommation *string  `json:"date_consommation"`
}

func (req *consommationRequest) toInput() (services.ConsumptionInput, error) {
	in := services.ConsumptionInput{
		CategoryID: req.CategoryID,
		Value:      req.Value,
		UnitPrice:  req.UnitPrice,
	}
	if req.DateConsommation != nil {
		t, err := parseTimestamp(*req.DateConsommation)
		if err != nil {
			return in, err
		}
		in.DateConsommation = &t
	}
	return in, nil
}

func (h *ConsommationHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := parseConsumptionFilters(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	records, err := h.Service.List(r.Context(), callerID(r), filters)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, records)
}

func (h *ConsommationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req consommationRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		httpx.Detail(w, http.StatusBadRequest, "Invalid date_consommation.")
		return
	}
	record, err := h.Service.Create(r.Context(), callerID(r), in)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, record)
}

func (h *ConsommationHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	record, err := h.Service.Get(r.Context(), callerID(r), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, record)
}

func (h *ConsommationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	var req consommationRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		httpx.Detail(w, http.StatusBadRequest, "Invalid date_consommation.")
		return
	}
	record, err := h.Service.Update(r.Context(), callerID(r), id, in)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, record)
}

func (h *ConsommationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if err := h.Service.Delete(r.Context(), callerID(r), id); err != nil {
		httpx.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseConsumptionFilters(r *http.Request) (services.ConsumptionFilters, error) {
	var f services.ConsumptionFilters
	q := r.URL.Query()
	if raw := q.Get("id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return f, errBadFilter("id")
		}
		f.ID = uint(id)
	}
	if raw := q.Get("category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return f, errBadFilter("category")
		}
		f.CategoryID = uint(id)
	}
	if raw := q.Get("date_from"); raw != "" {
		t, err := parseTimestamp(raw)
		if err != nil {
			return f, errBadFilter("date_from")
		}
		f.DateFrom = &t
	}
	if raw := q.Get("date_to"); raw != "" {
		t, err := parseTimestamp(raw)
		if err != nil {
			return f, errBadFilter("date_to")
		}
		f.DateTo = &t
	}
	return f, nil
}
