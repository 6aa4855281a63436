package service_test

import (
	"context"
	"testing"

	"github.com/tomasvarela21/ChapulinaApp/internal/dto"
	"github.com/tomasvarela21/ChapulinaApp/internal/model"
	"github.com/tomasvarela21/ChapulinaApp/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func producto(nombre string, activo bool, talles ...model.ProductoTalle) model.Producto {
	p := model.Producto{ID: uuid.New(), Nombre: nombre, Activo: activo, Talles: talles, PrecioContado: decimal.NewFromInt(100)}
	p.RecalcularCantidad()
	return p
}

func TestFiltrarStockBajo(t *testing.T) {
	sinTalles := producto("Cartera", true)
	sinTalles.Cantidad = 1

	productos := []model.Producto{
		producto("Vestido", true, talle("S", 3), talle("M", 5)),
		producto("Remera", true, talle("S", 2), talle("M", 0), talle("L", 9)),
		producto("Pollera", true, talle("XS", 1)),
		producto("Inactivo", false, talle("S", 0)),
		sinTalles,
	}

	got := service.FiltrarStockBajo(productos, 2)
	require.Len(t, got, 3)

	assert.Equal(t, "Remera", got[0].Nombre)
	assert.Equal(t, 0, got[0].Minimo)
	assert.Equal(t, []dto.TalleResponse{{Talle: "S", Cantidad: 2}, {Talle: "M", Cantidad: 0}}, got[0].TallesBajos)

	// ties keep input order
	assert.Equal(t, "Pollera", got[1].Nombre)
	assert.Equal(t, "Cartera", got[2].Nombre)
	assert.Equal(t, 1, got[2].Minimo)
}

func TestFiltrarStockBajo_UmbralCero(t *testing.T) {
	productos := []model.Producto{
		producto("Vestido", true, talle("S", 1)),
		producto("Remera", true, talle("S", 0)),
	}
	got := service.FiltrarStockBajo(productos, 0)
	require.Len(t, got, 1)
	assert.Equal(t, "Remera", got[0].Nombre)
}

func TestStockBajo_UsaProductosActivos(t *testing.T) {
	repo := newStubProductoRepo()
	seedProducto(repo, "Vestido", 100, talle("S", 1))
	svc := service.NewInventarioService(repo, &stubMovimientoRepo{})

	got, err := svc.StockBajo(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Vestido", got[0].Nombre)
}

func TestListarMovimientos(t *testing.T) {
	movs := &stubMovimientoRepo{}
	pid := uuid.New()
	require.NoError(t, movs.CreateTx(nil, &model.MovimientoStock{ProductoID: pid, Talle: "M", Tipo: model.MovVenta, Cantidad: -1, StockAnterior: 3, StockNuevo: 2}))
	require.NoError(t, movs.CreateTx(nil, &model.MovimientoStock{ProductoID: uuid.New(), Talle: "S", Tipo: model.MovReserva, Cantidad: -1}))

	svc := service.NewInventarioService(newStubProductoRepo(), movs)
	resp, err := svc.ListarMovimientos(context.Background(), dto.MovimientoFilter{ProductoID: pid.String(), Page: 1, Limit: 100})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, model.MovVenta, resp.Data[0].Tipo)
	assert.Equal(t, 2, resp.Data[0].StockNuevo)
}
