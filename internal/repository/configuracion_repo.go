package repository

import (
	"context"

	"github.com/tomasvarela21/ChapulinaApp/internal/model"

	"gorm.io/gorm"
)

type ConfiguracionRepository interface {
	// Obtener returns the singleton row, creating it with defaults on first use.
	Obtener(ctx context.Context) (*model.Configuracion, error)
	Guardar(ctx context.Context, c *model.Configuracion) error
}

type configuracionRepo struct{ db *gorm.DB }

func NewConfiguracionRepository(db *gorm.DB) ConfiguracionRepository {
	return &configuracionRepo{db: db}
}

func (r *configuracionRepo) Obtener(ctx context.Context) (*model.Configuracion, error) {
	c := model.Configuracion{
		ID:            model.ConfiguracionID,
		RecargoPct:    model.RecargoPorDefecto,
		NombreNegocio: "Chapulina",
	}
	err := r.db.WithContext(ctx).
		Where(model.Configuracion{ID: model.ConfiguracionID}).
		FirstOrCreate(&c).Error
	return &c, err
}

func (r *configuracionRepo) Guardar(ctx context.Context, c *model.Configuracion) error {
	c.ID = model.ConfiguracionID
	return r.db.WithContext(ctx).Save(c).Error
}
