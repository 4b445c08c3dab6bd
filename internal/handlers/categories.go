package handlers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/go-energy/internal/httpx"
	"github.com/diewo77/go-energy/internal/models"
	"github.com/diewo77/go-energy/internal/validation"
)

// CategoryHandler exposes the categories resource. Categories are global
// reference data, not tenant-scoped.
type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

type categoryRequest struct {
	Name *string `json:"name"`
	Unit *string `json:"unit"`
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	var categories []models.Category
	if err := h.DB.Order("name").Find(&categories).Error; err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	httpx.JSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	v := validation.Violations{}
	name, unit := "", ""
	if req.Name != nil {
		name = *req.Name
	}
	if req.Unit != nil {
		unit = *req.Unit
	}
	validation.Required("name", name, v)
	validation.Required("unit", unit, v)
	if !v.Empty() {
		httpx.Detail(w, http.StatusBadRequest, v.Detail())
		return
	}
	category := models.Category{Name: name, Unit: unit}
	if err := h.DB.Create(&category).Error; err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	httpx.JSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) load(w http.ResponseWriter, r *http.Request) (*models.Category, bool) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, err)
		return nil, false
	}
	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.Detail(w, http.StatusNotFound, "Category not found.")
		} else {
			httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		}
		return nil, false
	}
	return &category, true
}

func (h *CategoryHandler) Detail(w http.ResponseWriter, r *http.Request) {
	category, ok := h.load(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	category, ok := h.load(w, r)
	if !ok {
		return
	}
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	if req.Name != nil {
		v := validation.Violations{}
		validation.Required("name", *req.Name, v)
		if !v.Empty() {
			httpx.Detail(w, http.StatusBadRequest, v.Detail())
			return
		}
		category.Name = *req.Name
	}
	if req.Unit != nil {
		category.Unit = *req.Unit
	}
	if err := h.DB.Save(category).Error; err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	httpx.JSON(w, http.StatusOK, category)
}

// Delete refuses to remove a category still referenced by consumptions or
// alerts (PROTECT semantics).
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	category, ok := h.load(w, r)
	if !ok {
		return
	}
	var consumptions, alerts int64
	h.DB.Model(&models.Consommation{}).Where("category_id = ?", category.ID).Count(&consumptions)
	h.DB.Model(&models.Alert{}).Where("category_id = ?", category.ID).Count(&alerts)
	if consumptions > 0 || alerts > 0 {
		httpx.Detail(w, http.StatusConflict, "Category is referenced and cannot be deleted.")
		return
	}
	if err := h.DB.Delete(category).Error; err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
