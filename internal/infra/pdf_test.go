package infra

import (
	"bytes"
	"testing"
	"time"

	"github.com/tomasvarela21/ChapulinaApp/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerarComprobanteVenta(t *testing.T) {
	cliente, tel := "Lucía", "3815551234"
	v := &model.Venta{
		ID:         uuid.New(),
		Cliente:    &cliente,
		Telefono:   &tel,
		Snapshot:   model.SnapshotProducto{ProductoNombre: "Vestido Lino", ProductoCategoria: "Vestidos"},
		Talle:      "S",
		Cantidad:   2,
		Monto:      decimal.NewFromInt(240),
		Estado:     model.EstadoReservada,
		MetodoPago: model.MetodoNinguno,
		CreatedAt:  time.Date(2024, 3, 10, 16, 30, 0, 0, time.UTC),
	}
	cfg := &model.Configuracion{NombreNegocio: "Chapulina", Telefono: "381 555-0000", Direccion: "San Martín 123"}

	out, err := GenerarComprobanteVenta(v, cfg)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestGenerarComprobanteVenta_SinNegocio(t *testing.T) {
	v := &model.Venta{
		ID:         uuid.New(),
		Snapshot:   model.SnapshotProducto{ProductoNombre: "Remera básica de algodón peinado extra larga"},
		Cantidad:   1,
		Monto:      decimal.NewFromInt(100),
		Estado:     model.EstadoVendida,
		MetodoPago: model.MetodoEfectivo,
		CreatedAt:  time.Now(),
	}
	out, err := GenerarComprobanteVenta(v, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
