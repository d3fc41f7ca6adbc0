//go:build !integration

package catalog

import (
	"testing"

	"github.com/guttosm/green-haven/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	require.Equal(t, 3, c.Len())
	products := c.All()
	assert.Equal(t, "Aloe Vera", products[0].Name)
	assert.Equal(t, 10.0, products[0].Price)
	assert.Equal(t, "Snake Plant", products[1].Name)
	assert.Equal(t, 15.0, products[1].Price)
	assert.Equal(t, "Peace Lily", products[2].Name)
	assert.Equal(t, 20.0, products[2].Price)
}

func TestCatalog_Get(t *testing.T) {
	c := Default()

	tests := []struct {
		name     string
		id       int
		wantName string
		wantOK   bool
	}{
		{name: "first product", id: 1, wantName: "Aloe Vera", wantOK: true},
		{name: "last product", id: 3, wantName: "Peace Lily", wantOK: true},
		{name: "unknown id", id: 42, wantOK: false},
		{name: "zero id", id: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := c.Get(tt.id)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, p.Name)
		})
	}
}

func TestCatalog_IsImmutable(t *testing.T) {
	source := []model.Product{{ID: 1, Name: "Fern", Price: 5}}
	c := New(source)

	source[0].Name = "changed"
	listed := c.All()
	listed[0].Price = 999

	p, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Fern", p.Name)
	assert.Equal(t, 5.0, p.Price)
}

func TestCatalog_DuplicateIDsResolveToFirst(t *testing.T) {
	c := New([]model.Product{
		{ID: 7, Name: "first"},
		{ID: 7, Name: "second"},
	})

	p, ok := c.Get(7)
	require.True(t, ok)
	assert.Equal(t, "first", p.Name)
	assert.Equal(t, 2, c.Len())
}
