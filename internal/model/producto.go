package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Talles admitidos, en el orden en que se muestran.
var TallesValidos = []string{"XS", "S", "M", "L", "XL", "XXL"}

// EsTalleValido reports whether t is one of TallesValidos.
func EsTalleValido(t string) bool {
	for _, v := range TallesValidos {
		if v == t {
			return true
		}
	}
	return false
}

// Producto is a catalog item with optional per-size stock.
// Cantidad is the denormalized sum of Talles[].Cantidad whenever Talles is
// non-empty; for sizeless products it is the stock itself.
type Producto struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Nombre        string          `gorm:"index;not null"`
	Categoria     string          `gorm:"index;not null"`
	Detalle       string          `gorm:"not null;default:''"`
	Cantidad      int             `gorm:"not null;default:0"`
	PrecioCosto   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioContado decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioLista   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ImagenURL     string
	Activo        bool `gorm:"not null;default:true;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Talles []ProductoTalle `gorm:"foreignKey:ProductoID;constraint:OnDelete:CASCADE"`
}

func (p *Producto) BeforeCreate(_ *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// ProductoTalle is one (size, quantity) entry of a product.
type ProductoTalle struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_producto_talle"`
	Talle      string    `gorm:"type:varchar(4);not null;uniqueIndex:idx_producto_talle"`
	Cantidad   int       `gorm:"not null;default:0"`
	// Orden preserves the position the size had in the product form.
	Orden int `gorm:"not null;default:0"`
}

func (ProductoTalle) TableName() string { return "producto_talles" }

func (t *ProductoTalle) BeforeCreate(_ *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

// SumaTalles returns the total units across all sizes.
func (p *Producto) SumaTalles() int {
	total := 0
	for _, t := range p.Talles {
		total += t.Cantidad
	}
	return total
}

// RecalcularCantidad re-derives Cantidad from the sizes, leaving sizeless
// products untouched.
func (p *Producto) RecalcularCantidad() {
	if len(p.Talles) > 0 {
		p.Cantidad = p.SumaTalles()
	}
}

// BuscarTalle returns the entry for size t, or nil.
func (p *Producto) BuscarTalle(t string) *ProductoTalle {
	for i := range p.Talles {
		if p.Talles[i].Talle == t {
			return &p.Talles[i]
		}
	}
	return nil
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
