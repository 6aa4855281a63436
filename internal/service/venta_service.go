package service

import (
	"context"
	"strings"
	"time"

	"github.com/tomasvarela21/ChapulinaApp/internal/apierror"
	"github.com/tomasvarela21/ChapulinaApp/internal/dto"
	"github.com/tomasvarela21/ChapulinaApp/internal/model"
	"github.com/tomasvarela21/ChapulinaApp/internal/repository"
	"github.com/tomasvarela21/ChapulinaApp/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AlertaEncolador is implemented by worker.Dispatcher.
type AlertaEncolador interface {
	EnqueueAlertaStock(ctx context.Context, p worker.AlertaStockPayload) error
}

type VentaService interface {
	Crear(ctx context.Context, usuarioID *uuid.UUID, req dto.CrearVentaRequest) (*dto.VentaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	Listar(ctx context.Context, filter dto.VentaFilter) ([]dto.VentaResponse, error)
	Completar(ctx context.Context, id uuid.UUID, metodoPago string) (*dto.VentaResponse, error)
	// Cancelar, Actualizar and Eliminar attribute the stock they give back
	// to usuarioID.
	Cancelar(ctx context.Context, usuarioID *uuid.UUID, id uuid.UUID) (*dto.VentaResponse, error)
	Actualizar(ctx context.Context, usuarioID *uuid.UUID, id uuid.UUID, req dto.ActualizarVentaRequest) (*dto.VentaResponse, error)
	Eliminar(ctx context.Context, usuarioID *uuid.UUID, id uuid.UUID) error
	// Comprobante renders the sale's PDF receipt.
	Comprobante(ctx context.Context, id uuid.UUID) ([]byte, error)
}

// Renderer builds a receipt PDF; infra.GenerarComprobanteVenta in production.
type Renderer func(v *model.Venta, negocio *model.Configuracion) ([]byte, error)

type ventaService struct {
	repo         repository.VentaRepository
	productoRepo repository.ProductoRepository
	movimientos  repository.MovimientoStockRepository
	catalogo     CatalogoService
	config       ConfiguracionService
	alertas      AlertaEncolador // nil disables low-stock alerts
	umbral       int
	render       Renderer
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	movimientos repository.MovimientoStockRepository,
	catalogo CatalogoService,
	config ConfiguracionService,
	alertas AlertaEncolador,
	umbralAlerta int,
	render Renderer,
) VentaService {
	return &ventaService{
		repo:         repo,
		productoRepo: productoRepo,
		movimientos:  movimientos,
		catalogo:     catalogo,
		config:       config,
		alertas:      alertas,
		umbral:       umbralAlerta,
		render:       render,
	}
}

func vacio(s *string) bool { return s == nil || strings.TrimSpace(*s) == "" }

// ── Crear ─────────────────────────────────────────────────────────────────────
// Pre-flight reads (product, size) happen outside the transaction to give
// precise errors. The transaction itself relies on the conditional decrement,
// so two concurrent requests can never both take the last unit:
//   1. decrement size (fails with InsufficientStock when short)
//   2. insert sale with the product snapshot
//   3. insert stock movement
// After commit: invalidate catalog cache, enqueue low-stock alert.

func (s *ventaService) Crear(ctx context.Context, usuarioID *uuid.UUID, req dto.CrearVentaRequest) (*dto.VentaResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, invalido("producto_id invalido")
	}
	if req.Cantidad < 1 {
		return nil, invalido("La cantidad debe ser al menos 1")
	}

	metodo := req.MetodoPago
	switch req.Estado {
	case model.EstadoReservada:
		if vacio(req.Cliente) || vacio(req.Telefono) {
			return nil, invalido("Cliente y telefono son obligatorios para una reserva")
		}
		metodo = model.MetodoNinguno
	case model.EstadoVendida:
		if metodo == "" {
			metodo = model.MetodoEfectivo
		}
		if metodo == model.MetodoNinguno {
			return nil, invalido("Una venta requiere metodo de pago")
		}
	default:
		return nil, invalido("Estado inicial invalido: " + req.Estado)
	}

	tipoPrecio := req.TipoPrecio
	if tipoPrecio == "" {
		tipoPrecio = model.TipoPrecioContado
	}

	p, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, notFound(err, "Producto no encontrado")
	}
	if !p.Activo {
		return nil, apierror.Wrap(apierror.ErrNotFound, "Producto no encontrado")
	}

	if len(p.Talles) > 0 {
		if req.Talle == "" {
			return nil, invalido("Debe indicar el talle")
		}
		t := p.BuscarTalle(req.Talle)
		if t == nil || t.Cantidad < req.Cantidad {
			return nil, apierror.Wrap(apierror.ErrStockInsuficiente, "Stock insuficiente para esta talla")
		}
	} else {
		if req.Talle != "" {
			return nil, apierror.Wrap(apierror.ErrStockInsuficiente, "Stock insuficiente para esta talla")
		}
		if p.Cantidad < req.Cantidad {
			return nil, apierror.Wrap(apierror.ErrStockInsuficiente, "Stock insuficiente para este producto")
		}
	}

	monto := req.Monto
	if monto.IsZero() {
		monto = precioUnitario(p.PrecioContado, p.PrecioLista, tipoPrecio).Mul(decimal.NewFromInt(int64(req.Cantidad)))
	}

	venta := &model.Venta{
		ID:           uuid.New(),
		Cliente:      req.Cliente,
		Telefono:     req.Telefono,
		ProductoID:   p.ID,
		Snapshot:     model.SnapshotProducto{ProductoNombre: p.Nombre, ProductoCategoria: p.Categoria},
		Talle:        req.Talle,
		Cantidad:     req.Cantidad,
		TipoPrecio:   tipoPrecio,
		Monto:        monto,
		Estado:       req.Estado,
		MetodoPago:   metodo,
		Notas:        req.Notas,
		VendidoPorID: usuarioID,
	}

	tipoMov := model.MovVenta
	if venta.Estado == model.EstadoReservada {
		tipoMov = model.MovReserva
	}

	var restante int
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		n, err := s.productoRepo.DescontarTalleTx(tx, p.ID, venta.Talle, venta.Cantidad)
		if err != nil {
			return err
		}
		restante = n
		if err := s.repo.Create(ctx, tx, venta); err != nil {
			return err
		}
		return s.movimientos.CreateTx(tx, &model.MovimientoStock{
			ProductoID:    p.ID,
			Talle:         venta.Talle,
			Tipo:          tipoMov,
			Cantidad:      -venta.Cantidad,
			StockAnterior: n + venta.Cantidad,
			StockNuevo:    n,
			ReferenciaID:  &venta.ID,
			UsuarioID:     usuarioID,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	s.catalogo.Invalidar(ctx)
	s.alertarSiBajo(ctx, p, venta.Talle, restante)

	log.Info().
		Str("venta_id", venta.ID.String()).
		Str("estado", venta.Estado).
		Str("producto", p.Nombre).
		Str("talle", venta.Talle).
		Int("cantidad", venta.Cantidad).
		Msg("venta registrada")

	if venta.CreatedAt.IsZero() {
		venta.CreatedAt = time.Now()
	}
	resp := ventaToResponse(venta)
	return &resp, nil
}

func (s *ventaService) alertarSiBajo(ctx context.Context, p *model.Producto, talle string, restante int) {
	if s.alertas == nil || restante > s.umbral {
		return
	}
	err := s.alertas.EnqueueAlertaStock(ctx, worker.AlertaStockPayload{
		ProductoID:     p.ID.String(),
		ProductoNombre: p.Nombre,
		Talle:          talle,
		Cantidad:       restante,
		Umbral:         s.umbral,
	})
	if err != nil {
		log.Warn().Err(err).Str("producto_id", p.ID.String()).Msg("alerta de stock no encolada")
	}
}

// ── Lectura ───────────────────────────────────────────────────────────────────

func (s *ventaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Venta no encontrada")
	}
	resp := ventaToResponse(v)
	return &resp, nil
}

func (s *ventaService) Listar(ctx context.Context, filter dto.VentaFilter) ([]dto.VentaResponse, error) {
	desde, hasta, err := parseRango(filter.Desde, filter.Hasta)
	if err != nil {
		return nil, err
	}
	q := repository.VentaQuery{Desde: desde, Hasta: hasta}
	if filter.Estado != "" && filter.Estado != "all" {
		q.Estados = []string{filter.Estado}
	}
	ventas, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		out = append(out, ventaToResponse(&ventas[i]))
	}
	return out, nil
}

// ── Completar ─────────────────────────────────────────────────────────────────
// reservada → retirada. The amount is re-priced from the product's current
// prices: tarjeta charges the list price, everything else the cash price.

func (s *ventaService) Completar(ctx context.Context, id uuid.UUID, metodoPago string) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Venta no encontrada")
	}
	if err := s.completarTx(ctx, nil, v, metodoPago); err != nil {
		return nil, err
	}
	resp := ventaToResponse(v)
	return &resp, nil
}

// completarTx applies the completion rule to v. When tx is nil it opens its
// own transaction.
func (s *ventaService) completarTx(ctx context.Context, tx *gorm.DB, v *model.Venta, metodoPago string) error {
	if v.Estado != model.EstadoReservada {
		return invalido("Solo se puede completar una reserva")
	}
	switch metodoPago {
	case model.MetodoEfectivo, model.MetodoTransferencia, model.MetodoTarjeta:
	default:
		return invalido("Metodo de pago invalido para completar la reserva")
	}

	p, err := s.productoRepo.FindByID(ctx, v.ProductoID)
	if err != nil {
		return notFound(err, "Producto no encontrado")
	}

	tipo := model.TipoPrecioContado
	if metodoPago == model.MetodoTarjeta {
		tipo = model.TipoPrecioLista
	}
	v.MetodoPago = metodoPago
	v.TipoPrecio = tipo
	v.Monto = precioUnitario(p.PrecioContado, p.PrecioLista, tipo).Mul(decimal.NewFromInt(int64(v.Cantidad)))

	aplicar := func(tx *gorm.DB) error {
		ok, err := s.repo.CompletarTx(tx, v)
		if err != nil {
			return err
		}
		if !ok {
			return invalido("La reserva ya no esta pendiente")
		}
		return nil
	}
	if tx != nil {
		err = aplicar(tx)
	} else {
		err = runTx(ctx, s.repo.DB(), aplicar)
	}
	if err != nil {
		return err
	}
	v.Estado = model.EstadoRetirada
	log.Info().Str("venta_id", v.ID.String()).Str("metodo", metodoPago).Str("monto", v.Monto.String()).Msg("reserva retirada")
	return nil
}

// ── Cancelar ──────────────────────────────────────────────────────────────────

func (s *ventaService) Cancelar(ctx context.Context, usuarioID *uuid.UUID, id uuid.UUID) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Venta no encontrada")
	}
	if v.Cancelada() {
		return nil, invalido("La venta ya esta cancelada")
	}
	if v.Estado != model.EstadoReservada {
		return nil, invalido("Solo se puede cancelar una reserva")
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.cancelarTx(tx, v, model.MovCancelacion, usuarioID)
	})
	if err != nil {
		return nil, err
	}
	v.Estado = model.EstadoCancelada
	s.catalogo.Invalidar(ctx)

	resp := ventaToResponse(v)
	return &resp, nil
}

// cancelarTx flips the sale to cancelada and gives its stock back. The status
// update is conditional, so stock is restored at most once per sale even under
// concurrent cancels.
func (s *ventaService) cancelarTx(tx *gorm.DB, v *model.Venta, tipoMov string, usuarioID *uuid.UUID) error {
	ok, err := s.repo.CancelarTx(tx, v.ID)
	if err != nil {
		return err
	}
	if !ok {
		return invalido("La venta ya esta cancelada")
	}
	return s.restaurarTx(tx, v, tipoMov, usuarioID)
}

// restaurarTx adds the sale's quantity back to its size. A product or size
// that no longer exists is skipped: the sale transition still goes through.
func (s *ventaService) restaurarTx(tx *gorm.DB, v *model.Venta, tipoMov string, usuarioID *uuid.UUID) error {
	n, ok, err := s.productoRepo.RestaurarTalleTx(tx, v.ProductoID, v.Talle, v.Cantidad)
	if err != nil {
		return err
	}
	if !ok {
		log.Warn().
			Str("venta_id", v.ID.String()).
			Str("producto_id", v.ProductoID.String()).
			Str("talle", v.Talle).
			Msg("restauracion de stock omitida: producto o talle inexistente")
		return nil
	}
	return s.movimientos.CreateTx(tx, &model.MovimientoStock{
		ProductoID:    v.ProductoID,
		Talle:         v.Talle,
		Tipo:          tipoMov,
		Cantidad:      v.Cantidad,
		StockAnterior: n - v.Cantidad,
		StockNuevo:    n,
		ReferenciaID:  &v.ID,
		UsuarioID:     usuarioID,
	})
}

// ── Actualizar ────────────────────────────────────────────────────────────────
// Partial edit. Status changes are limited to the state machine: any
// non-cancelled sale may become cancelada (restoring stock), a reservada may
// become retirada (completion rule). Everything else is rejected.

func (s *ventaService) Actualizar(ctx context.Context, usuarioID *uuid.UUID, id uuid.UUID, req dto.ActualizarVentaRequest) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Venta no encontrada")
	}

	if req.Cliente != nil {
		v.Cliente = req.Cliente
	}
	if req.Telefono != nil {
		v.Telefono = req.Telefono
	}
	if req.Notas != nil {
		v.Notas = *req.Notas
	}

	nuevoEstado := v.Estado
	if req.Estado != nil {
		nuevoEstado = *req.Estado
	}

	metodo := v.MetodoPago
	if req.MetodoPago != nil {
		metodo = *req.MetodoPago
	}

	switch {
	case nuevoEstado == v.Estado:
		if req.MetodoPago != nil {
			if v.Estado == model.EstadoReservada && metodo != model.MetodoNinguno {
				return nil, invalido("Una reserva no tiene metodo de pago hasta ser retirada")
			}
			if v.Estado != model.EstadoReservada && metodo == model.MetodoNinguno {
				return nil, invalido("Una venta requiere metodo de pago")
			}
			v.MetodoPago = metodo
		}
		if v.Estado == model.EstadoReservada && (vacio(v.Cliente) || vacio(v.Telefono)) {
			return nil, invalido("Cliente y telefono son obligatorios para una reserva")
		}
		err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error { return s.repo.UpdateTx(tx, v) })

	case nuevoEstado == model.EstadoCancelada:
		if v.Cancelada() {
			return nil, invalido("La venta ya esta cancelada")
		}
		if metodo != v.MetodoPago {
			return nil, invalido("No se puede cambiar el metodo de pago al cancelar")
		}
		err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			if err := s.repo.UpdateTx(tx, v); err != nil {
				return err
			}
			return s.cancelarTx(tx, v, model.MovCancelacion, usuarioID)
		})
		if err == nil {
			v.Estado = model.EstadoCancelada
			s.catalogo.Invalidar(ctx)
		}

	case nuevoEstado == model.EstadoRetirada && v.Estado == model.EstadoReservada:
		err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			if err := s.repo.UpdateTx(tx, v); err != nil {
				return err
			}
			return s.completarTx(ctx, tx, v, metodo)
		})

	default:
		return nil, invalido("Transicion de estado invalida: " + v.Estado + " a " + nuevoEstado)
	}
	if err != nil {
		return nil, err
	}

	resp := ventaToResponse(v)
	return &resp, nil
}

// ── Eliminar ──────────────────────────────────────────────────────────────────
// Hard delete. A sale that still holds stock gives it back first; a cancelled
// sale already did, so it is just removed.

func (s *ventaService) Eliminar(ctx context.Context, usuarioID *uuid.UUID, id uuid.UUID) error {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "Venta no encontrada")
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		borrada, err := s.repo.DeleteTx(tx, v.ID, true)
		if err != nil {
			return err
		}
		if borrada {
			return s.restaurarTx(tx, v, model.MovEliminacion, usuarioID)
		}
		borrada, err = s.repo.DeleteTx(tx, v.ID, false)
		if err != nil {
			return err
		}
		if !borrada {
			return apierror.Wrap(apierror.ErrNotFound, "Venta no encontrada")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.catalogo.Invalidar(ctx)
	log.Info().Str("venta_id", v.ID.String()).Str("estado", v.Estado).Msg("venta eliminada")
	return nil
}

// ── Comprobante ───────────────────────────────────────────────────────────────

func (s *ventaService) Comprobante(ctx context.Context, id uuid.UUID) ([]byte, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Venta no encontrada")
	}
	negocio, err := s.config.Negocio(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("comprobante: configuracion no disponible, usando valores por defecto")
		negocio = nil
	}
	return s.render(v, negocio)
}
