package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tipos de movimiento de stock.
const (
	MovVenta       = "venta"
	MovReserva     = "reserva"
	MovCancelacion = "cancelacion"
	MovEliminacion = "eliminacion"
	MovAjuste      = "ajuste_manual"
)

// MovimientoStock registra cada cambio de stock de un talle.
// Los registros son inmutables.
type MovimientoStock struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductoID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Talle         string    `gorm:"type:varchar(4);not null;default:''"`
	Tipo          string    `gorm:"type:varchar(20);not null"`
	Cantidad      int       `gorm:"not null"` // positive = entrada, negative = salida
	StockAnterior int       `gorm:"not null"`
	StockNuevo    int       `gorm:"not null"`
	Motivo        string
	ReferenciaID  *uuid.UUID `gorm:"type:uuid;index"` // venta_id
	UsuarioID     *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }

func (m *MovimientoStock) BeforeCreate(_ *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
