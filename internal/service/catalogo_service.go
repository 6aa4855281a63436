package service

import (
	"context"

	"github.com/tomasvarela21/ChapulinaApp/internal/dto"
	"github.com/tomasvarela21/ChapulinaApp/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const catalogoKey = "catalogo"

// CatalogCache is implemented by infra.Cache.
type CatalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

// CatalogoService serves the public catalog: active products with stock,
// without cost prices. Reads are cache-aside; every mutation of products,
// prices or stock calls Invalidar.
type CatalogoService interface {
	Listar(ctx context.Context) ([]dto.CatalogoItem, error)
	Invalidar(ctx context.Context)
}

type catalogoService struct {
	repo  repository.ProductoRepository
	cache CatalogCache // nil disables caching
	sf    singleflight.Group
}

func NewCatalogoService(repo repository.ProductoRepository, cache CatalogCache) CatalogoService {
	return &catalogoService{repo: repo, cache: cache}
}

func (s *catalogoService) Listar(ctx context.Context) ([]dto.CatalogoItem, error) {
	if s.cache != nil {
		var items []dto.CatalogoItem
		hit, err := s.cache.Get(ctx, catalogoKey, &items)
		if err != nil {
			log.Warn().Err(err).Msg("catalogo: cache get failed, reading from DB")
		}
		if hit {
			return items, nil
		}
	}

	// collapse concurrent misses into one DB read
	v, err, _ := s.sf.Do(catalogoKey, func() (interface{}, error) {
		items, err := s.construir(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, catalogoKey, items); err != nil {
				log.Warn().Err(err).Msg("catalogo: cache set failed")
			}
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dto.CatalogoItem), nil
}

func (s *catalogoService) construir(ctx context.Context) ([]dto.CatalogoItem, error) {
	productos, err := s.repo.ListActivos(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CatalogoItem, 0, len(productos))
	for i := range productos {
		p := &productos[i]
		if p.Cantidad <= 0 {
			continue
		}
		disponibles := make([]dto.TalleResponse, 0, len(p.Talles))
		for _, t := range p.Talles {
			if t.Cantidad > 0 {
				disponibles = append(disponibles, dto.TalleResponse{Talle: t.Talle, Cantidad: t.Cantidad})
			}
		}
		items = append(items, dto.CatalogoItem{
			ID:                p.ID.String(),
			Nombre:            p.Nombre,
			Categoria:         p.Categoria,
			Detalle:           p.Detalle,
			ImagenURL:         p.ImagenURL,
			PrecioContado:     p.PrecioContado,
			PrecioLista:       p.PrecioLista,
			TallesDisponibles: disponibles,
			Cantidad:          p.Cantidad,
		})
	}
	return items, nil
}

func (s *catalogoService) Invalidar(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, catalogoKey); err != nil {
		log.Warn().Err(err).Msg("catalogo: cache invalidation failed")
	}
}
