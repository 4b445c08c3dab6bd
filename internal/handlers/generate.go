package handlers

import (
	"net/http"

	"github.com/diewo77/go-energy/internal/httpx"
	"github.com/diewo77/go-energy/internal/services"
)

// GenerateHandler exposes POST /generate-consumptions/.
type GenerateHandler struct {
	Generator *services.Generator
}

func NewGenerateHandler(generator *services.Generator) *GenerateHandler {
	return &GenerateHandler{Generator: generator}
}

func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Count     int    `json:"count"`
		UserID    uint   `json:"user_id"`
		StartDate string `json:"start_date"`
	}
	if err := decodeJSON(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	created, err := h.Generator.Generate(r.Context(), req.Count, req.UserID, req.StartDate)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]int{"created": created})
}
