package service

import (
	"context"
	"time"

	"github.com/tomasvarela21/ChapulinaApp/internal/dto"
	"github.com/tomasvarela21/ChapulinaApp/internal/model"
	"github.com/tomasvarela21/ChapulinaApp/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, error)
	// Actualizar edits a product. Stock changes made by the edit are recorded
	// as ajuste_manual movements attributed to usuarioID.
	Actualizar(ctx context.Context, usuarioID *uuid.UUID, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
	// RecalcularPreciosLista rewrites every product's list price with the
	// given markup. Products are persisted one by one; a failure on one
	// product is logged and does not undo the others.
	RecalcularPreciosLista(ctx context.Context, recargoPct decimal.Decimal) (*dto.RecalcularPreciosResponse, error)
	HistorialPrecios(ctx context.Context, id uuid.UUID, page, limit int) (*dto.HistorialPrecioListResponse, error)
}

type productoService struct {
	repo        repository.ProductoRepository
	historial   repository.HistorialPrecioRepository
	movimientos repository.MovimientoStockRepository
	config      ConfiguracionService
	catalogo    CatalogoService
}

func NewProductoService(
	repo repository.ProductoRepository,
	historial repository.HistorialPrecioRepository,
	movimientos repository.MovimientoStockRepository,
	config ConfiguracionService,
	catalogo CatalogoService,
) ProductoService {
	return &productoService{repo: repo, historial: historial, movimientos: movimientos, config: config, catalogo: catalogo}
}

func tallesDesdeRequest(req []dto.TalleRequest) ([]model.ProductoTalle, error) {
	vistos := make(map[string]bool, len(req))
	talles := make([]model.ProductoTalle, 0, len(req))
	for i, t := range req {
		if !model.EsTalleValido(t.Talle) {
			return nil, invalido("Talle invalido: " + t.Talle)
		}
		if vistos[t.Talle] {
			return nil, invalido("Talle repetido: " + t.Talle)
		}
		if t.Cantidad < 0 {
			return nil, invalido("La cantidad no puede ser negativa")
		}
		vistos[t.Talle] = true
		talles = append(talles, model.ProductoTalle{Talle: t.Talle, Cantidad: t.Cantidad, Orden: i})
	}
	return talles, nil
}

// recargoPara returns the override when given, else the configured markup.
func (s *productoService) recargoPara(ctx context.Context, override *decimal.Decimal) (decimal.Decimal, error) {
	if override != nil {
		return *override, validarRecargo(*override)
	}
	return s.config.RecargoActual(ctx)
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	talles, err := tallesDesdeRequest(req.Talles)
	if err != nil {
		return nil, err
	}
	recargo, err := s.recargoPara(ctx, req.RecargoPct)
	if err != nil {
		return nil, err
	}

	p := &model.Producto{
		Nombre:        req.Nombre,
		Categoria:     req.Categoria,
		Detalle:       req.Detalle,
		Talles:        talles,
		Cantidad:      req.Cantidad,
		PrecioCosto:   req.PrecioCosto,
		PrecioContado: req.PrecioContado,
		PrecioLista:   CalcularPrecioLista(req.PrecioContado, recargo),
		ImagenURL:     req.ImagenURL,
		Activo:        true,
	}
	p.RecalcularCantidad()

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.catalogo.Invalidar(ctx)

	log.Info().Str("producto_id", p.ID.String()).Str("nombre", p.Nombre).Msg("producto creado")
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Producto no encontrado")
	}
	resp := productoToResponse(p)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		out = append(out, productoToResponse(&productos[i]))
	}
	return out, nil
}

// ── Actualizar ────────────────────────────────────────────────────────────────
// The product is re-read inside the transaction so stock taken by a sale
// committed meanwhile is neither overwritten nor missing from the adjustment
// rows.

func (s *productoService) Actualizar(ctx context.Context, usuarioID *uuid.UUID, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	var talles []model.ProductoTalle
	reemplazar := req.Talles != nil
	if reemplazar {
		var err error
		if talles, err = tallesDesdeRequest(req.Talles); err != nil {
			return nil, err
		}
	}
	recargo, err := s.recargoPara(ctx, req.RecargoPct)
	if err != nil {
		return nil, err
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return notFound(err, "Producto no encontrado")
		}
		antes := clonarStock(p)
		contadoAntes, listaAntes := p.PrecioContado, p.PrecioLista

		if req.Nombre != nil {
			p.Nombre = *req.Nombre
		}
		if req.Categoria != nil {
			p.Categoria = *req.Categoria
		}
		if req.Detalle != nil {
			p.Detalle = *req.Detalle
		}
		if req.ImagenURL != nil {
			p.ImagenURL = *req.ImagenURL
		}
		if req.PrecioCosto != nil {
			p.PrecioCosto = *req.PrecioCosto
		}
		if req.PrecioContado != nil {
			p.PrecioContado = *req.PrecioContado
		}
		if reemplazar {
			p.Talles = talles
		}
		// A product that loses its sizes keeps its total as sizeless stock
		// unless a quantity is given.
		fijarCantidad := len(p.Talles) == 0 && (req.Cantidad != nil || len(antes.Talles) > 0)
		if req.Cantidad != nil && len(p.Talles) == 0 {
			p.Cantidad = *req.Cantidad
		}
		p.RecalcularCantidad()
		p.PrecioLista = CalcularPrecioLista(p.PrecioContado, recargo)

		if err := s.repo.UpdateTx(tx, p, reemplazar); err != nil {
			return err
		}
		if fijarCantidad {
			if err := s.repo.FijarCantidadTx(tx, p.ID, p.Cantidad); err != nil {
				return err
			}
		}

		for _, m := range ajustesDeStock(antes, p, reemplazar, fijarCantidad) {
			m.UsuarioID = usuarioID
			if err := s.movimientos.CreateTx(tx, &m); err != nil {
				return err
			}
		}

		if p.PrecioContado.Equal(contadoAntes) && p.PrecioLista.Equal(listaAntes) {
			return nil
		}
		return s.historial.CreateTx(tx, &model.HistorialPrecio{
			ProductoID:     p.ID,
			ContadoAntes:   contadoAntes,
			ContadoDespues: p.PrecioContado,
			ListaAntes:     listaAntes,
			ListaDespues:   p.PrecioLista,
			RecargoPct:     recargo,
			Motivo:         "manual",
		})
	})
	if err != nil {
		return nil, err
	}
	s.catalogo.Invalidar(ctx)

	return s.ObtenerPorID(ctx, id)
}

// clonarStock copies the stock fields of p before they are edited.
func clonarStock(p *model.Producto) model.Producto {
	return model.Producto{
		ID:       p.ID,
		Cantidad: p.Cantidad,
		Talles:   append([]model.ProductoTalle(nil), p.Talles...),
	}
}

// ajustesDeStock returns one ajuste_manual movement per size whose quantity
// the edit changed, plus one for the aggregate of a sizeless product.
func ajustesDeStock(antes model.Producto, despues *model.Producto, reemplazar, fijarCantidad bool) []model.MovimientoStock {
	const motivo = "edicion de producto"
	var out []model.MovimientoStock
	ajuste := func(talle string, anterior, nuevo int) {
		if anterior == nuevo {
			return
		}
		out = append(out, model.MovimientoStock{
			ProductoID:    despues.ID,
			Talle:         talle,
			Tipo:          model.MovAjuste,
			Cantidad:      nuevo - anterior,
			StockAnterior: anterior,
			StockNuevo:    nuevo,
			Motivo:        motivo,
		})
	}

	if reemplazar {
		for _, t := range despues.Talles {
			anterior := 0
			if previo := antes.BuscarTalle(t.Talle); previo != nil {
				anterior = previo.Cantidad
			}
			ajuste(t.Talle, anterior, t.Cantidad)
		}
		for _, t := range antes.Talles {
			if despues.BuscarTalle(t.Talle) == nil {
				ajuste(t.Talle, t.Cantidad, 0)
			}
		}
	}
	if fijarCantidad {
		anterior := antes.Cantidad
		if len(antes.Talles) > 0 {
			// the sizes were removed above; the aggregate starts from zero
			anterior = 0
		}
		ajuste("", anterior, despues.Cantidad)
	}
	return out
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound(err, "Producto no encontrado")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.catalogo.Invalidar(ctx)
	return nil
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound(err, "Producto no encontrado")
	}
	if err := s.repo.Reactivar(ctx, id); err != nil {
		return err
	}
	s.catalogo.Invalidar(ctx)
	return nil
}

func (s *productoService) RecalcularPreciosLista(ctx context.Context, recargoPct decimal.Decimal) (*dto.RecalcularPreciosResponse, error) {
	if err := validarRecargo(recargoPct); err != nil {
		return nil, err
	}
	productos, err := s.repo.ListTodos(ctx)
	if err != nil {
		return nil, err
	}

	actualizados := 0
	for i := range productos {
		p := &productos[i]
		nuevo := CalcularPrecioLista(p.PrecioContado, recargoPct)

		err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			if err := s.repo.UpdatePrecioListaTx(tx, p.ID, nuevo); err != nil {
				return err
			}
			if nuevo.Equal(p.PrecioLista) {
				return nil
			}
			return s.historial.CreateTx(tx, &model.HistorialPrecio{
				ProductoID:     p.ID,
				ContadoAntes:   p.PrecioContado,
				ContadoDespues: p.PrecioContado,
				ListaAntes:     p.PrecioLista,
				ListaDespues:   nuevo,
				RecargoPct:     recargoPct,
				Motivo:         "recalculo_masivo",
			})
		})
		if err != nil {
			log.Warn().Err(err).Str("producto_id", p.ID.String()).Msg("recalculo: producto omitido")
			continue
		}
		actualizados++
	}

	s.catalogo.Invalidar(ctx)
	log.Info().
		Int("actualizados", actualizados).
		Int("total", len(productos)).
		Str("recargo_pct", recargoPct.String()).
		Msg("precios de lista recalculados")

	return &dto.RecalcularPreciosResponse{Actualizados: actualizados, RecargoPct: recargoPct}, nil
}

func (s *productoService) HistorialPrecios(ctx context.Context, id uuid.UUID, page, limit int) (*dto.HistorialPrecioListResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFound(err, "Producto no encontrado")
	}
	rows, total, err := s.historial.ListByProducto(ctx, id, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.HistorialPrecioItem, 0, len(rows))
	for _, h := range rows {
		items = append(items, dto.HistorialPrecioItem{
			ID:             h.ID.String(),
			ProductoID:     h.ProductoID.String(),
			ContadoAntes:   h.ContadoAntes,
			ContadoDespues: h.ContadoDespues,
			ListaAntes:     h.ListaAntes,
			ListaDespues:   h.ListaDespues,
			RecargoPct:     h.RecargoPct,
			Motivo:         h.Motivo,
			CreatedAt:      h.CreatedAt.Format(time.RFC3339),
		})
	}
	if page < 1 {
		page = 1
	}
	return &dto.HistorialPrecioListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}
