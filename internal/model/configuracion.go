package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConfiguracionID is the primary key of the only configuration row.
const ConfiguracionID = 1

// RecargoPorDefecto is the markup a fresh installation starts with.
var RecargoPorDefecto = decimal.NewFromInt(30)

// Configuracion is the business profile plus the global list-price markup.
// The markup is read by the pricing path at call time and passed in
// explicitly; products never observe it reactively.
type Configuracion struct {
	ID            uint            `gorm:"primaryKey"`
	RecargoPct    decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	NombreNegocio string          `gorm:"not null;default:'Chapulina'"`
	Telefono      string
	Email         string
	Direccion     string
	UpdatedAt     time.Time
}

func (Configuracion) TableName() string { return "configuracion" }
