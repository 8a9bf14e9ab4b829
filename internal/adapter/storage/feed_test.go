package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/elianismedina/partfinder/internal/adapter/storage"
	"github.com/elianismedina/partfinder/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFeed(t *testing.T, name, data string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
	return p
}

func TestLoadParts(t *testing.T) {
	t.Run("Ordinary", func(t *testing.T) {
		p := writeFeed(t, "parts.json", `[
			{"id":"1","name":"Filtro de Aceite","category":"Mantenimiento",
			 "price":12.99,"currency":"USD","rating":4.5,"reviews":128,
			 "in_stock":true,"compatibility":["Toyota","Honda"]},
			{"id":"2","name":"Pastillas de Freno","category":"Frenos",
			 "price":45.50,"currency":"USD","rating":4.8,"reviews":89,
			 "in_stock":true}
		]`)

		ps, err := storage.LoadParts(p)
		require.NoError(t, err)
		require.Len(t, ps, 2)

		assert.Equal(t, "Filtro de Aceite", ps[0].Name)
		assert.Equal(t, "Mantenimiento", ps[0].Category)
		assert.Equal(t, 12.99, ps[0].Price.Amount)
		assert.Equal(t, []string{"Toyota", "Honda"}, ps[0].Compatibility)
		assert.Equal(t, "Pastillas de Freno", ps[1].Name)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := storage.LoadParts(filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		p := writeFeed(t, "parts.json", `{"not":"a list"`)
		_, err := storage.LoadParts(p)
		require.Error(t, err)
	})
}

func TestLoadProviders(t *testing.T) {
	p := writeFeed(t, "providers.json", `[
		{"id":"1","name":"Taller Mecánico Express","type":"Taller",
		 "rating":4.7,"reviews":234,"distance":"1.2 km","open_now":true,
		 "services":["Cambio de aceite","Frenos"]}
	]`)

	ps, err := storage.LoadProviders(p)
	require.NoError(t, err)
	require.Len(t, ps, 1)

	assert.Equal(t, "Taller Mecánico Express", ps[0].Name)
	assert.True(t, ps[0].OpenNow)
	assert.Equal(t, []string{"Cambio de aceite", "Frenos"}, ps[0].Services)
}

func TestLoadRules(t *testing.T) {
	p := writeFeed(t, "rules.json", `[
		{"id":"oil","title":"Cambio de aceite","priority":"high",
		 "category":"maintenance","estimated_cost":"$40-60",
		 "when":{"min_mileage":40000}},
		{"id":"timing","title":"Correa de distribución","priority":"medium",
		 "category":"repair",
		 "when":{"min_age_years":7,"makes":["Toyota","Honda"]}}
	]`)

	rs, err := storage.LoadRules(p)
	require.NoError(t, err)
	require.Len(t, rs, 2)

	assert.Equal(t, domain.PriorityHigh, rs[0].Recommendation.Priority)
	assert.Equal(t, 40000, rs[0].When.MinMileage)
	assert.Equal(t, 7, rs[1].When.MinAgeYears)
	assert.Equal(t, []string{"Toyota", "Honda"}, rs[1].When.Makes)
}
