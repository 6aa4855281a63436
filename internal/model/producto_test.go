package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalcularCantidad_SumaTalles(t *testing.T) {
	p := &Producto{Cantidad: 99, Talles: []ProductoTalle{
		{Talle: "S", Cantidad: 3},
		{Talle: "M", Cantidad: 5},
	}}
	p.RecalcularCantidad()
	assert.Equal(t, 8, p.Cantidad)
}

func TestRecalcularCantidad_SinTallesConservaCantidad(t *testing.T) {
	p := &Producto{Cantidad: 4}
	p.RecalcularCantidad()
	assert.Equal(t, 4, p.Cantidad)
}

func TestBuscarTalle(t *testing.T) {
	p := &Producto{Talles: []ProductoTalle{{Talle: "S", Cantidad: 3}}}
	tl := p.BuscarTalle("S")
	require.NotNil(t, tl)
	tl.Cantidad = 1
	assert.Equal(t, 1, p.Talles[0].Cantidad, "BuscarTalle must return a pointer into the slice")
	assert.Nil(t, p.BuscarTalle("XL"))
}

func TestEsTalleValido(t *testing.T) {
	assert.True(t, EsTalleValido("XXL"))
	assert.False(t, EsTalleValido("xl"))
	assert.False(t, EsTalleValido(""))
}
