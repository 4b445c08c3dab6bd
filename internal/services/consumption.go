package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/go-energy/internal/apperr"
	"github.com/diewo77/go-energy/internal/models"
	"github.com/diewo77/go-energy/internal/policy"
)

// ConsumptionFilters narrows a listing. Zero values impose no constraint.
// Date bounds are inclusive at day granularity.
type ConsumptionFilters struct {
	ID         uint
	CategoryID uint
	DateFrom   *time.Time
	DateTo     *time.Time
}

// ConsumptionInput carries the client-settable fields of a record. Pointer
// fields distinguish "absent" from zero on partial updates.
type ConsumptionInput struct {
	CategoryID       *uint
	Value            *float64
	UnitPrice        *float64
	DateConsommation *time.Time
}

// ConsumptionService owns consumption records: tenant-scoped queries,
// creation with synchronous alert evaluation, updates and deletes.
type ConsumptionService struct {
	db *gorm.DB
}

func NewConsumptionService(db *gorm.DB) *ConsumptionService {
	return &ConsumptionService{db: db}
}

// List returns the caller's records matching the filters, newest first.
// An absent identity yields an empty result, never foreign data.
func (s *ConsumptionService) List(ctx context.Context, userID uint, f ConsumptionFilters) ([]models.Consommation, error) {
	records := []models.Consommation{}
	if userID == 0 {
		return records, nil
	}
	q := s.db.WithContext(ctx).Where("user_id = ?", userID).Preload("Category")
	if f.ID != 0 {
		q = q.Where("id = ?", f.ID)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.DateFrom != nil {
		q = q.Where("date_consommation >= ?", startOfDay(*f.DateFrom))
	}
	if f.DateTo != nil {
		q = q.Where("date_consommation < ?", startOfDay(*f.DateTo).AddDate(0, 0, 1))
	}
	if err := q.Order("date_consommation DESC, id DESC").Find(&records).Error; err != nil {
		return nil, apperr.Internal("list consumptions", err)
	}
	return records, nil
}

// Get returns one record by id. Foreign records yield 403, absent ones 404.
func (s *ConsumptionService) Get(ctx context.Context, userID, id uint) (*models.Consommation, error) {
	var record models.Consommation
	err := s.db.WithContext(ctx).Preload("Category").First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Consumption not found.")
	}
	if err != nil {
		return nil, apperr.Internal("get consumption", err)
	}
	if !policy.OwnedBy(userID, &record) {
		return nil, apperr.Forbidden("You do not have access to this consumption.")
	}
	return &record, nil
}

// Create inserts a record owned by the caller (any client-supplied owner is
// ignored) and evaluates the owner's alerts in the same transaction, so an
// evaluation failure aborts the insert.
func (s *ConsumptionService) Create(ctx context.Context, userID uint, in ConsumptionInput) (*models.Consommation, error) {
	if in.CategoryID == nil || in.Value == nil || in.UnitPrice == nil || in.DateConsommation == nil {
		return nil, apperr.Validation("category_id, value, unit_price and date_consommation are required.")
	}
	var count int64
	s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", *in.CategoryID).Count(&count)
	if count == 0 {
		return nil, apperr.Validation("Unknown category.")
	}

	record := models.Consommation{
		UserID:           userID,
		CategoryID:       *in.CategoryID,
		Value:            *in.Value,
		UnitPrice:        *in.UnitPrice,
		DateConsommation: *in.DateConsommation,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return evaluateAlerts(tx, &record)
	})
	if err != nil {
		return nil, apperr.Internal("create consumption", err)
	}
	s.db.WithContext(ctx).Preload("Category").First(&record, record.ID)
	return &record, nil
}

// Update applies a partial update to one of the caller's records.
func (s *ConsumptionService) Update(ctx context.Context, userID, id uint, in ConsumptionInput) (*models.Consommation, error) {
	record, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if in.CategoryID != nil {
		var count int64
		s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", *in.CategoryID).Count(&count)
		if count == 0 {
			return nil, apperr.Validation("Unknown category.")
		}
		record.CategoryID = *in.CategoryID
		record.Category = nil
	}
	if in.Value != nil {
		record.Value = *in.Value
	}
	if in.UnitPrice != nil {
		record.UnitPrice = *in.UnitPrice
	}
	if in.DateConsommation != nil {
		record.DateConsommation = *in.DateConsommation
	}
	if err := s.db.WithContext(ctx).Save(record).Error; err != nil {
		return nil, apperr.Internal("update consumption", err)
	}
	s.db.WithContext(ctx).Preload("Category").First(record, record.ID)
	return record, nil
}

// Delete removes one of the caller's records.
func (s *ConsumptionService) Delete(ctx context.Context, userID, id uint) error {
	record, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(record).Error; err != nil {
		return apperr.Internal("delete consumption", err)
	}
	return nil
}

// evaluateAlerts runs the alert rule for a freshly inserted record: each of
// the owner's active alerts on the same category whose limit is met gets a
// notification, at most one per alert (get-or-create on the alert id).
// Bulk-generated records never pass through here.
func evaluateAlerts(tx *gorm.DB, record *models.Consommation) error {
	var alerts []models.Alert
	err := tx.
		Where("user_id = ? AND category_id = ? AND LOWER(status) = ?",
			record.UserID, record.CategoryID, models.AlertStatusActive).
		Find(&alerts).Error
	if err != nil {
		return err
	}
	for _, alert := range alerts {
		if record.Value < alert.Limit {
			continue
		}
		notification := models.Notification{}
		err := tx.
			Where(models.Notification{AlertID: alert.ID}).
			Attrs(models.Notification{UserID: record.UserID, Type: "alert"}).
			FirstOrCreate(&notification).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
