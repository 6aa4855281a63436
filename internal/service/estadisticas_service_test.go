package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/tomasvarela21/ChapulinaApp/internal/apierror"
	"github.com/tomasvarela21/ChapulinaApp/internal/dto"
	"github.com/tomasvarela21/ChapulinaApp/internal/model"
	"github.com/tomasvarela21/ChapulinaApp/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func venta(estado, metodo string, monto int64, at time.Time, vendedor *uuid.UUID) model.Venta {
	return model.Venta{
		ID:           uuid.New(),
		Estado:       estado,
		MetodoPago:   metodo,
		Monto:        decimal.NewFromInt(monto),
		Cantidad:     1,
		CreatedAt:    at,
		VendidoPorID: vendedor,
	}
}

func TestResumirVentas(t *testing.T) {
	now := time.Now()
	r := service.ResumirVentas([]model.Venta{
		venta(model.EstadoVendida, model.MetodoEfectivo, 100, now, nil),
		venta(model.EstadoRetirada, model.MetodoTarjeta, 130, now, nil),
		venta(model.EstadoVendida, model.MetodoEfectivo, 50, now, nil),
	})
	assert.True(t, decimal.NewFromInt(280).Equal(r.TotalVendido))
	assert.Equal(t, 3, r.Ordenes)
	assert.Equal(t, "93.33", r.TicketPromedio.StringFixed(2))

	vacio := service.ResumirVentas(nil)
	assert.True(t, vacio.TicketPromedio.IsZero())
	assert.Equal(t, 0, vacio.Ordenes)
}

func TestAgruparPorMes(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	ventas := []model.Venta{
		venta(model.EstadoVendida, model.MetodoEfectivo, 100, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), nil),
		venta(model.EstadoRetirada, model.MetodoTarjeta, 130, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), nil),
		venta(model.EstadoVendida, model.MetodoEfectivo, 70, time.Date(2024, time.October, 31, 23, 0, 0, 0, time.UTC), nil),
		// outside the window
		venta(model.EstadoVendida, model.MetodoEfectivo, 999, time.Date(2024, time.September, 30, 0, 0, 0, 0, time.UTC), nil),
		// not revenue
		venta(model.EstadoReservada, model.MetodoNinguno, 500, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), nil),
		venta(model.EstadoCancelada, model.MetodoEfectivo, 500, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), nil),
	}

	got := service.AgruparPorMes(ventas, now)
	require.Len(t, got, 6)

	etiquetas := make([]string, len(got))
	for i, m := range got {
		etiquetas[i] = m.Etiqueta
	}
	assert.Equal(t, []string{"2024-10", "2024-11", "2024-12", "2025-01", "2025-02", "2025-03"}, etiquetas)

	assert.True(t, decimal.NewFromInt(70).Equal(got[0].Total))
	assert.Equal(t, 1, got[0].Ventas)
	assert.True(t, got[4].Total.IsZero(), "february only has non-revenue sales")
	assert.True(t, decimal.NewFromInt(230).Equal(got[5].Total))
	assert.Equal(t, 2, got[5].Ventas)
	assert.Equal(t, 2025, got[5].Anio)
	assert.Equal(t, 3, got[5].Mes)
}

func TestResumirVendedor(t *testing.T) {
	now := time.Date(2025, time.March, 15, 18, 0, 0, 0, time.UTC)
	u := &model.Usuario{ID: uuid.New(), Nombre: "Vero", Email: "vero@chapulina.com", Rol: model.RolVendedor}
	ventas := []model.Venta{
		venta(model.EstadoVendida, model.MetodoEfectivo, 100, now.Add(-time.Hour), &u.ID),
		venta(model.EstadoVendida, model.MetodoTarjeta, 130, now.AddDate(0, 0, -3), &u.ID),
		venta(model.EstadoVendida, model.MetodoTransferencia, 80, now.AddDate(0, -1, 0), &u.ID),
		venta(model.EstadoRetirada, model.MetodoEfectivo, 500, now, &u.ID),
	}

	r := service.ResumirVendedor(u, ventas, now)
	assert.Equal(t, u.ID.String(), r.UsuarioID)
	assert.Equal(t, 3, r.Ventas)
	assert.True(t, decimal.NewFromInt(310).Equal(r.Recaudado))
	assert.True(t, decimal.NewFromInt(100).Equal(r.PorMetodoPago[model.MetodoEfectivo]))
	assert.True(t, decimal.NewFromInt(130).Equal(r.PorMetodoPago[model.MetodoTarjeta]))
	assert.True(t, decimal.NewFromInt(80).Equal(r.PorMetodoPago[model.MetodoTransferencia]))
	assert.Equal(t, 2, r.Mes.Ventas)
	assert.True(t, decimal.NewFromInt(230).Equal(r.Mes.Recaudado))
	assert.Equal(t, 1, r.Hoy.Ventas)
	assert.True(t, decimal.NewFromInt(100).Equal(r.Hoy.Recaudado))
}

func TestEstadisticas_ResumenYVendedores(t *testing.T) {
	ventas := newStubVentaRepo()
	usuarios := newStubUsuarioRepo()
	vero := &model.Usuario{Nombre: "Vero", Email: "vero@chapulina.com", Rol: model.RolVendedor, Activo: true}
	admin := &model.Usuario{Nombre: "Admin", Email: "admin@chapulina.com", Rol: model.RolAdmin, Activo: true}
	require.NoError(t, usuarios.Create(context.Background(), vero))
	require.NoError(t, usuarios.Create(context.Background(), admin))

	now := time.Now()
	for _, v := range []model.Venta{
		venta(model.EstadoVendida, model.MetodoEfectivo, 100, now, &vero.ID),
		venta(model.EstadoVendida, model.MetodoEfectivo, 200, now, &admin.ID),
		venta(model.EstadoReservada, model.MetodoNinguno, 999, now, &vero.ID),
	} {
		v := v
		require.NoError(t, ventas.Create(context.Background(), nil, &v))
	}

	svc := service.NewEstadisticasService(ventas, usuarios)

	resumen, err := svc.Resumen(context.Background(), dto.EstadisticasFilter{})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(300).Equal(resumen.TotalVendido))
	assert.Equal(t, 2, resumen.Ordenes)

	vendedores, err := svc.Vendedores(context.Background())
	require.NoError(t, err)
	require.Len(t, vendedores, 1, "only sellers are listed")
	assert.Equal(t, "Vero", vendedores[0].Nombre)
	assert.True(t, decimal.NewFromInt(100).Equal(vendedores[0].Recaudado))

	uno, err := svc.Vendedor(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, uno.Ventas)

	_, err = svc.Vendedor(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apierror.ErrNotFound)

	_, err = svc.Resumen(context.Background(), dto.EstadisticasFilter{Desde: "15/03/2025"})
	assert.ErrorIs(t, err, apierror.ErrArgumentoInvalido)
}
