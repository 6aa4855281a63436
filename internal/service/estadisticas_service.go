package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tomasvarela21/ChapulinaApp/internal/dto"
	"github.com/tomasvarela21/ChapulinaApp/internal/model"
	"github.com/tomasvarela21/ChapulinaApp/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// mesesResumen is the width of the dashboard's monthly chart.
const mesesResumen = 6

// estadosFacturados are the states that count as revenue on the dashboard.
var estadosFacturados = []string{model.EstadoVendida, model.EstadoRetirada}

type EstadisticasService interface {
	Resumen(ctx context.Context, filter dto.EstadisticasFilter) (*dto.EstadisticasResponse, error)
	ResumenMensual(ctx context.Context) ([]dto.ResumenMensualItem, error)
	Vendedor(ctx context.Context, usuarioID uuid.UUID) (*dto.EstadisticasVendedorResponse, error)
	Vendedores(ctx context.Context) ([]dto.EstadisticasVendedorResponse, error)
}

type estadisticasService struct {
	ventas   repository.VentaRepository
	usuarios repository.UsuarioRepository
	now      func() time.Time
}

func NewEstadisticasService(ventas repository.VentaRepository, usuarios repository.UsuarioRepository) EstadisticasService {
	return &estadisticasService{ventas: ventas, usuarios: usuarios, now: time.Now}
}

// parseRango turns the optional YYYY-MM-DD bounds into [desde, hasta+1day).
func parseRango(desde, hasta string) (*time.Time, *time.Time, error) {
	var d, h *time.Time
	if desde != "" {
		t, err := time.ParseInLocation("2006-01-02", desde, time.Local)
		if err != nil {
			return nil, nil, invalido("Fecha desde invalida")
		}
		d = &t
	}
	if hasta != "" {
		t, err := time.ParseInLocation("2006-01-02", hasta, time.Local)
		if err != nil {
			return nil, nil, invalido("Fecha hasta invalida")
		}
		t = t.AddDate(0, 0, 1)
		h = &t
	}
	return d, h, nil
}

func (s *estadisticasService) Resumen(ctx context.Context, filter dto.EstadisticasFilter) (*dto.EstadisticasResponse, error) {
	desde, hasta, err := parseRango(filter.Desde, filter.Hasta)
	if err != nil {
		return nil, err
	}
	ventas, err := s.ventas.List(ctx, repository.VentaQuery{Estados: estadosFacturados, Desde: desde, Hasta: hasta})
	if err != nil {
		return nil, err
	}
	r := ResumirVentas(ventas)
	return &r, nil
}

// ResumirVentas totals revenue and order count. TicketPromedio is rounded to
// cents and zero when there are no sales.
func ResumirVentas(ventas []model.Venta) dto.EstadisticasResponse {
	total := decimal.Zero
	for _, v := range ventas {
		total = total.Add(v.Monto)
	}
	promedio := decimal.Zero
	if len(ventas) > 0 {
		promedio = total.Div(decimal.NewFromInt(int64(len(ventas)))).Round(2)
	}
	return dto.EstadisticasResponse{TotalVendido: total, Ordenes: len(ventas), TicketPromedio: promedio}
}

func (s *estadisticasService) ResumenMensual(ctx context.Context) ([]dto.ResumenMensualItem, error) {
	now := s.now()
	inicio := inicioDeMes(now).AddDate(0, -(mesesResumen - 1), 0)
	ventas, err := s.ventas.List(ctx, repository.VentaQuery{Estados: estadosFacturados, Desde: &inicio})
	if err != nil {
		return nil, err
	}
	return AgruparPorMes(ventas, now), nil
}

func inicioDeMes(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// AgruparPorMes buckets vendida/retirada sales into the six calendar months
// ending with now's month, oldest first. Months without sales are zero.
// Sales outside the window are ignored.
func AgruparPorMes(ventas []model.Venta, now time.Time) []dto.ResumenMensualItem {
	loc := now.Location()
	primero := inicioDeMes(now).AddDate(0, -(mesesResumen - 1), 0)

	items := make([]dto.ResumenMensualItem, mesesResumen)
	for i := range items {
		m := primero.AddDate(0, i, 0)
		items[i] = dto.ResumenMensualItem{
			Anio:     m.Year(),
			Mes:      int(m.Month()),
			Etiqueta: fmt.Sprintf("%04d-%02d", m.Year(), int(m.Month())),
			Total:    decimal.Zero,
		}
	}

	for _, v := range ventas {
		if v.Estado != model.EstadoVendida && v.Estado != model.EstadoRetirada {
			continue
		}
		t := v.CreatedAt.In(loc)
		idx := (t.Year()-primero.Year())*12 + int(t.Month()) - int(primero.Month())
		if idx < 0 || idx >= mesesResumen {
			continue
		}
		items[idx].Total = items[idx].Total.Add(v.Monto)
		items[idx].Ventas++
	}
	return items
}

func (s *estadisticasService) Vendedor(ctx context.Context, usuarioID uuid.UUID) (*dto.EstadisticasVendedorResponse, error) {
	u, err := s.usuarios.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, notFound(err, "Usuario no encontrado")
	}
	ventas, err := s.ventas.List(ctx, repository.VentaQuery{
		Estados:      []string{model.EstadoVendida},
		VendidoPorID: &usuarioID,
	})
	if err != nil {
		return nil, err
	}
	r := ResumirVendedor(u, ventas, s.now())
	return &r, nil
}

func (s *estadisticasService) Vendedores(ctx context.Context) ([]dto.EstadisticasVendedorResponse, error) {
	vendedores, err := s.usuarios.ListByRol(ctx, model.RolVendedor)
	if err != nil {
		return nil, err
	}
	ventas, err := s.ventas.List(ctx, repository.VentaQuery{Estados: []string{model.EstadoVendida}})
	if err != nil {
		return nil, err
	}

	porVendedor := make(map[uuid.UUID][]model.Venta, len(vendedores))
	for _, v := range ventas {
		if v.VendidoPorID != nil {
			porVendedor[*v.VendidoPorID] = append(porVendedor[*v.VendidoPorID], v)
		}
	}

	now := s.now()
	out := make([]dto.EstadisticasVendedorResponse, 0, len(vendedores))
	for i := range vendedores {
		u := &vendedores[i]
		out = append(out, ResumirVendedor(u, porVendedor[u.ID], now))
	}
	return out, nil
}

// ResumirVendedor summarizes the vendida sales of one seller: lifetime totals,
// revenue per payment method, month-to-date and today, in now's location.
func ResumirVendedor(u *model.Usuario, ventas []model.Venta, now time.Time) dto.EstadisticasVendedorResponse {
	r := dto.EstadisticasVendedorResponse{
		UsuarioID: u.ID.String(),
		Nombre:    u.Nombre,
		Email:     u.Email,
		Recaudado: decimal.Zero,
		PorMetodoPago: map[string]decimal.Decimal{
			model.MetodoEfectivo:      decimal.Zero,
			model.MetodoTarjeta:       decimal.Zero,
			model.MetodoTransferencia: decimal.Zero,
		},
		Mes: dto.VentanaVentas{Recaudado: decimal.Zero},
		Hoy: dto.VentanaVentas{Recaudado: decimal.Zero},
	}

	loc := now.Location()
	mes := inicioDeMes(now)
	hoy := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	for _, v := range ventas {
		if v.Estado != model.EstadoVendida {
			continue
		}
		r.Ventas++
		r.Recaudado = r.Recaudado.Add(v.Monto)
		if acum, ok := r.PorMetodoPago[v.MetodoPago]; ok {
			r.PorMetodoPago[v.MetodoPago] = acum.Add(v.Monto)
		}

		t := v.CreatedAt.In(loc)
		if !t.Before(mes) {
			r.Mes.Ventas++
			r.Mes.Recaudado = r.Mes.Recaudado.Add(v.Monto)
		}
		if !t.Before(hoy) {
			r.Hoy.Ventas++
			r.Hoy.Recaudado = r.Hoy.Recaudado.Add(v.Monto)
		}
	}
	return r
}
