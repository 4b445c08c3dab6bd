package services

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/go-energy/internal/apperr"
	"github.com/diewo77/go-energy/internal/models"
)

// startDateLayout is the day/month/year form accepted by the generator.
const startDateLayout = "02/01/2006"

// rangeRule couples a category-name keyword with the value and unit-price
// ranges used when generating records for matching categories. Rules are
// evaluated top to bottom; the first keyword contained in the lowercased
// category name wins.
type rangeRule struct {
	keyword string
	value   func(day int) (lo, hi float64)
	price   [2]float64
}

var generationRules = []rangeRule{
	// Gas consumption starts high (heating season) and drops after 90 days.
	{"gaz", func(day int) (float64, float64) {
		if day < 90 {
			return 25, 50
		}
		return 5, 25
	}, [2]float64{0.05, 0.12}},
	{"eau", fixedRange(150, 500), [2]float64{0.001, 0.005}},
	{"electric", fixedRange(3.3, 6.7), [2]float64{0.12, 0.25}},
}

var defaultRule = rangeRule{"", fixedRange(100, 500), [2]float64{0.05, 0.2}}

func fixedRange(lo, hi float64) func(int) (float64, float64) {
	return func(int) (float64, float64) { return lo, hi }
}

func ruleFor(categoryName string) rangeRule {
	name := strings.ToLower(categoryName)
	for _, r := range generationRules {
		if strings.Contains(name, r.keyword) {
			return r
		}
	}
	return defaultRule
}

// Generator bulk-creates plausible randomized consumption history. Generated
// records are inserted in one bulk operation and deliberately bypass alert
// evaluation to avoid alert storms while seeding.
type Generator struct {
	db  *gorm.DB
	rnd func() float64
}

func NewGenerator(db *gorm.DB) *Generator {
	return &Generator{db: db, rnd: rand.Float64}
}

// Generate creates one record per category per day for count consecutive
// days starting at startDate (DD/MM/YYYY). Returns the number of records
// created: count × number of categories.
func (g *Generator) Generate(ctx context.Context, count int, userID uint, startDate string) (int, error) {
	if count <= 0 {
		return 0, apperr.Validation("count must be a positive integer.")
	}
	start, err := time.Parse(startDateLayout, startDate)
	if err != nil {
		return 0, apperr.Validation("start_date must be in DD/MM/YYYY form.")
	}

	var user models.User
	if err := g.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperr.NotFound("User not found.")
		}
		return 0, apperr.Internal("load user", err)
	}

	var categories []models.Category
	if err := g.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return 0, apperr.Internal("load categories", err)
	}
	if len(categories) == 0 {
		return 0, apperr.Validation("No categories exist; nothing to generate.")
	}

	records := make([]models.Consommation, 0, count*len(categories))
	for _, category := range categories {
		rule := ruleFor(category.Name)
		for day := 0; day < count; day++ {
			lo, hi := rule.value(day)
			records = append(records, models.Consommation{
				UserID:           user.ID,
				CategoryID:       category.ID,
				Value:            round2(lo + g.rnd()*(hi-lo)),
				UnitPrice:        round4(rule.price[0] + g.rnd()*(rule.price[1]-rule.price[0])),
				DateConsommation: start.AddDate(0, 0, day),
			})
		}
	}

	if err := g.db.WithContext(ctx).CreateInBatches(records, 500).Error; err != nil {
		return 0, apperr.Internal("bulk insert", err)
	}
	return len(records), nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
