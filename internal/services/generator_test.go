package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/diewo77/go-energy/internal/apperr"
	"github.com/diewo77/go-energy/internal/models"
)

func TestGenerateGas90Days(t *testing.T) {
	conn := setupTestDB(t)
	user := seedUser(t, conn, "gen@test")
	gas := seedCategory(t, conn, "Gaz", "m³")

	gen := NewGenerator(conn)
	created, err := gen.Generate(context.Background(), 90, user.ID, "01/01/2026")
	require.NoError(t, err)
	require.Equal(t, 90, created)

	var records []models.Consommation
	require.NoError(t, conn.Order("date_consommation").Find(&records).Error)
	require.Len(t, records, 90)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, record := range records {
		require.Equal(t, user.ID, record.UserID)
		require.Equal(t, gas.ID, record.CategoryID)
		// The first 90 generated days use the high heating-season range.
		require.GreaterOrEqual(t, record.Value, 25.0)
		require.LessOrEqual(t, record.Value, 50.0)
		require.GreaterOrEqual(t, record.UnitPrice, 0.05)
		require.LessOrEqual(t, record.UnitPrice, 0.12)
		require.True(t, record.DateConsommation.Equal(start.AddDate(0, 0, i)),
			"record %d has date %v", i, record.DateConsommation)
	}
}

func TestGenerateGasDropsAfter90Days(t *testing.T) {
	conn := setupTestDB(t)
	user := seedUser(t, conn, "gendrop@test")
	seedCategory(t, conn, "Gaz naturel", "m³")

	gen := NewGenerator(conn)
	created, err := gen.Generate(context.Background(), 120, user.ID, "01/01/2026")
	require.NoError(t, err)
	require.Equal(t, 120, created)

	var records []models.Consommation
	require.NoError(t, conn.Order("date_consommation").Find(&records).Error)
	for i, record := range records {
		if i < 90 {
			require.GreaterOrEqual(t, record.Value, 25.0)
			require.LessOrEqual(t, record.Value, 50.0)
		} else {
			require.GreaterOrEqual(t, record.Value, 5.0)
			require.LessOrEqual(t, record.Value, 25.0)
		}
	}
}

func TestGenerateCoversEveryCategory(t *testing.T) {
	conn := setupTestDB(t)
	user := seedUser(t, conn, "gencat@test")
	electricity := seedCategory(t, conn, "Electricité", "kWh")
	water := seedCategory(t, conn, "Eau", "m³")
	mystery := seedCategory(t, conn, "Chauffage urbain", "MWh")

	gen := NewGenerator(conn)
	created, err := gen.Generate(context.Background(), 7, user.ID, "15/03/2026")
	require.NoError(t, err)
	require.Equal(t, 21, created)

	check := func(categoryID uint, valueLo, valueHi, priceLo, priceHi float64) {
		var records []models.Consommation
		require.NoError(t, conn.Where("category_id = ?", categoryID).Find(&records).Error)
		require.Len(t, records, 7)
		for _, record := range records {
			require.GreaterOrEqual(t, record.Value, valueLo)
			require.LessOrEqual(t, record.Value, valueHi)
			require.GreaterOrEqual(t, record.UnitPrice, priceLo)
			require.LessOrEqual(t, record.UnitPrice, priceHi)
		}
	}
	check(electricity.ID, 3.3, 6.7, 0.12, 0.25)
	check(water.ID, 150, 500, 0.001, 0.005)
	// Unmatched names fall back to the default rule.
	check(mystery.ID, 100, 500, 0.05, 0.2)
}

func TestGenerateRoundsValues(t *testing.T) {
	conn := setupTestDB(t)
	user := seedUser(t, conn, "genround@test")
	seedCategory(t, conn, "Eau", "m³")

	gen := NewGenerator(conn)
	gen.rnd = func() float64 { return 0.123456789 }
	_, err := gen.Generate(context.Background(), 1, user.ID, "01/01/2026")
	require.NoError(t, err)

	var record models.Consommation
	require.NoError(t, conn.First(&record).Error)
	require.Equal(t, record.Value, math.Round(record.Value*100)/100)
	require.Equal(t, record.UnitPrice, math.Round(record.UnitPrice*10000)/10000)
}

func TestGenerateValidation(t *testing.T) {
	conn := setupTestDB(t)
	user := seedUser(t, conn, "genbad@test")
	seedCategory(t, conn, "Gaz", "m³")
	gen := NewGenerator(conn)
	ctx := context.Background()

	_, err := gen.Generate(ctx, 0, user.ID, "01/01/2026")
	require.Equal(t, 400, apperr.Status(err))

	_, err = gen.Generate(ctx, -3, user.ID, "01/01/2026")
	require.Equal(t, 400, apperr.Status(err))

	_, err = gen.Generate(ctx, 5, user.ID, "2026-01-01")
	require.Equal(t, 400, apperr.Status(err), "only DD/MM/YYYY is accepted")

	_, err = gen.Generate(ctx, 5, 9999, "01/01/2026")
	require.Equal(t, 404, apperr.Status(err))
}

func TestGenerateRequiresCategories(t *testing.T) {
	conn := setupTestDB(t)
	user := seedUser(t, conn, "gennocat@test")
	gen := NewGenerator(conn)

	_, err := gen.Generate(context.Background(), 5, user.ID, "01/01/2026")
	require.Equal(t, 400, apperr.Status(err))
}

func TestRuleForMatchesKeywordsCaseInsensitively(t *testing.T) {
	require.Equal(t, "gaz", ruleFor("GAZ de ville").keyword)
	require.Equal(t, "eau", ruleFor("Eau potable").keyword)
	require.Equal(t, "electric", ruleFor("electricité").keyword)
	require.Equal(t, "", ruleFor("Fioul").keyword)
}
