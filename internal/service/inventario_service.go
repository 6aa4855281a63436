package service

import (
	"context"
	"sort"
	"time"

	"github.com/tomasvarela21/ChapulinaApp/internal/dto"
	"github.com/tomasvarela21/ChapulinaApp/internal/model"
	"github.com/tomasvarela21/ChapulinaApp/internal/repository"

	"github.com/google/uuid"
)

// InventarioService answers stock questions: which products are running
// low, and the audit trail of every stock change.
type InventarioService interface {
	StockBajo(ctx context.Context, umbral int) ([]dto.StockBajoResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error)
}

type inventarioService struct {
	repo        repository.ProductoRepository
	movimientos repository.MovimientoStockRepository
}

func NewInventarioService(repo repository.ProductoRepository, movimientos repository.MovimientoStockRepository) InventarioService {
	return &inventarioService{repo: repo, movimientos: movimientos}
}

func (s *inventarioService) StockBajo(ctx context.Context, umbral int) ([]dto.StockBajoResponse, error) {
	productos, err := s.repo.ListActivos(ctx)
	if err != nil {
		return nil, err
	}
	return FiltrarStockBajo(productos, umbral), nil
}

// FiltrarStockBajo keeps active products with at least one size at or below
// umbral (or, for sizeless products, an aggregate at or below umbral). The
// result is ordered by the lowest qualifying quantity; ties keep input order.
func FiltrarStockBajo(productos []model.Producto, umbral int) []dto.StockBajoResponse {
	out := make([]dto.StockBajoResponse, 0)
	for i := range productos {
		p := &productos[i]
		if !p.Activo {
			continue
		}

		var bajos []dto.TalleResponse
		minimo := -1
		if len(p.Talles) == 0 {
			if p.Cantidad <= umbral {
				bajos = []dto.TalleResponse{{Talle: "", Cantidad: p.Cantidad}}
				minimo = p.Cantidad
			}
		} else {
			for _, t := range p.Talles {
				if t.Cantidad > umbral {
					continue
				}
				bajos = append(bajos, dto.TalleResponse{Talle: t.Talle, Cantidad: t.Cantidad})
				if minimo < 0 || t.Cantidad < minimo {
					minimo = t.Cantidad
				}
			}
		}
		if minimo < 0 {
			continue
		}
		out = append(out, dto.StockBajoResponse{
			ProductoResponse: productoToResponse(p),
			TallesBajos:      bajos,
			Minimo:           minimo,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Minimo < out[j].Minimo })
	return out
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	f := repository.MovimientoStockFilter{Tipo: filter.Tipo, Page: filter.Page, Limit: filter.Limit}
	if filter.ProductoID != "" {
		pid, err := uuid.Parse(filter.ProductoID)
		if err != nil {
			return nil, invalido("producto_id invalido")
		}
		f.ProductoID = &pid
	}

	movs, total, err := s.movimientos.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovimientoStockResponse, 0, len(movs))
	for _, m := range movs {
		item := dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			ProductoID:    m.ProductoID.String(),
			Talle:         m.Talle,
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		}
		if m.ReferenciaID != nil {
			ref := m.ReferenciaID.String()
			item.ReferenciaID = &ref
		}
		items = append(items, item)
	}
	return &dto.MovimientoListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}
