package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HistorialPrecio registra cada cambio de precio de un producto.
// Los registros son inmutables: nunca se eliminan ni modifican.
type HistorialPrecio struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ContadoAntes   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ContadoDespues decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ListaAntes     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ListaDespues   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	RecargoPct     decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Motivo         string          `gorm:"not null;default:'manual'"` // recalculo_masivo | manual
	CreatedAt      time.Time
}

func (h *HistorialPrecio) BeforeCreate(_ *gorm.DB) error {
	ensureID(&h.ID)
	return nil
}
