package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Estados de una venta. vendida and reservada are initial; retirada and
// cancelada are terminal.
const (
	EstadoVendida   = "vendida"
	EstadoReservada = "reservada"
	EstadoRetirada  = "retirada"
	EstadoCancelada = "cancelada"
)

const (
	MetodoEfectivo      = "efectivo"
	MetodoTransferencia = "transferencia"
	MetodoTarjeta       = "tarjeta"
	MetodoNinguno       = "none"
)

const (
	TipoPrecioContado = "contado"
	TipoPrecioLista   = "lista"
)

// SnapshotProducto captures the product name and category at sale time.
// It is written once on creation and never resynced with the live product.
type SnapshotProducto struct {
	ProductoNombre    string `gorm:"not null"`
	ProductoCategoria string `gorm:"not null;default:''"`
}

// Venta is either a direct sale or a reservation, distinguished by Estado.
// Monto is recorded explicitly and is not re-derived from current prices,
// except when a reservation is completed.
type Venta struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Cliente    *string
	Telefono   *string
	ProductoID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Snapshot   SnapshotProducto `gorm:"embedded"`
	Talle      string           `gorm:"type:varchar(4);not null"`
	Cantidad   int              `gorm:"not null"`
	TipoPrecio string           `gorm:"type:varchar(10);not null;default:'contado'"`
	Monto      decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Estado     string           `gorm:"type:varchar(20);not null;index"`
	MetodoPago string           `gorm:"type:varchar(20);not null"`
	Notas      string           `gorm:"not null;default:''"`
	// VendidoPorID is nil for sales recorded before the user existed or
	// whose author was removed.
	VendidoPorID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt    time.Time  `gorm:"index"`
	UpdatedAt    time.Time
}

func (v *Venta) BeforeCreate(_ *gorm.DB) error {
	ensureID(&v.ID)
	return nil
}

// Cancelada reports whether the sale already gave its stock back.
func (v *Venta) Cancelada() bool { return v.Estado == EstadoCancelada }
