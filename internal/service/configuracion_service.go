package service

import (
	"context"

	"github.com/tomasvarela21/ChapulinaApp/internal/dto"
	"github.com/tomasvarela21/ChapulinaApp/internal/model"
	"github.com/tomasvarela21/ChapulinaApp/internal/repository"

	"github.com/shopspring/decimal"
)

// ConfiguracionService owns the business profile and the global markup.
// Changing the markup never rewrites product prices on its own; that is
// ProductoService.RecalcularPreciosLista.
type ConfiguracionService interface {
	Obtener(ctx context.Context) (*dto.ConfiguracionResponse, error)
	RecargoActual(ctx context.Context) (decimal.Decimal, error)
	Negocio(ctx context.Context) (*model.Configuracion, error)
	Actualizar(ctx context.Context, req dto.ActualizarConfiguracionRequest) (*dto.ConfiguracionResponse, error)
}

type configuracionService struct {
	repo repository.ConfiguracionRepository
}

func NewConfiguracionService(repo repository.ConfiguracionRepository) ConfiguracionService {
	return &configuracionService{repo: repo}
}

func configuracionToResponse(c *model.Configuracion) *dto.ConfiguracionResponse {
	return &dto.ConfiguracionResponse{
		RecargoPct:    c.RecargoPct,
		NombreNegocio: c.NombreNegocio,
		Telefono:      c.Telefono,
		Email:         c.Email,
		Direccion:     c.Direccion,
		UpdatedAt:     c.UpdatedAt,
	}
}

func (s *configuracionService) Obtener(ctx context.Context) (*dto.ConfiguracionResponse, error) {
	c, err := s.repo.Obtener(ctx)
	if err != nil {
		return nil, err
	}
	return configuracionToResponse(c), nil
}

func (s *configuracionService) Negocio(ctx context.Context) (*model.Configuracion, error) {
	return s.repo.Obtener(ctx)
}

func (s *configuracionService) RecargoActual(ctx context.Context) (decimal.Decimal, error) {
	c, err := s.repo.Obtener(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return c.RecargoPct, nil
}

func (s *configuracionService) Actualizar(ctx context.Context, req dto.ActualizarConfiguracionRequest) (*dto.ConfiguracionResponse, error) {
	c, err := s.repo.Obtener(ctx)
	if err != nil {
		return nil, err
	}
	if req.RecargoPct != nil {
		if err := validarRecargo(*req.RecargoPct); err != nil {
			return nil, err
		}
		c.RecargoPct = *req.RecargoPct
	}
	if req.NombreNegocio != nil {
		c.NombreNegocio = *req.NombreNegocio
	}
	if req.Telefono != nil {
		c.Telefono = *req.Telefono
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Direccion != nil {
		c.Direccion = *req.Direccion
	}
	if err := s.repo.Guardar(ctx, c); err != nil {
		return nil, err
	}
	return configuracionToResponse(c), nil
}
