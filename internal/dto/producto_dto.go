package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type TalleRequest struct {
	Talle    string `json:"talle"    validate:"required,oneof=XS S M L XL XXL"`
	Cantidad int    `json:"cantidad" validate:"min=0"`
}

type CrearProductoRequest struct {
	Nombre        string          `json:"nombre"         validate:"required,min=2,max=120"`
	Categoria     string          `json:"categoria"      validate:"required"`
	Detalle       string          `json:"detalle"        validate:"max=500"`
	Talles        []TalleRequest  `json:"talles"         validate:"unique=Talle,dive"`
	Cantidad      int             `json:"cantidad"       validate:"min=0"`
	PrecioCosto   decimal.Decimal `json:"precio_costo"   validate:"min=0"`
	PrecioContado decimal.Decimal `json:"precio_contado" validate:"min=0"`
	ImagenURL     string          `json:"imagen_url"     validate:"omitempty,url"`
	// RecargoPct overrides the configured markup for this save only.
	RecargoPct *decimal.Decimal `json:"recargo_pct" validate:"omitempty,min=0,max=100"`
}

// ActualizarProductoRequest is a partial update. A nil Talles leaves the sizes
// untouched; an empty, non-nil Talles turns the product sizeless.
type ActualizarProductoRequest struct {
	Nombre        *string          `json:"nombre"         validate:"omitempty,min=2,max=120"`
	Categoria     *string          `json:"categoria"      validate:"omitempty,min=1"`
	Detalle       *string          `json:"detalle"        validate:"omitempty,max=500"`
	Talles        []TalleRequest   `json:"talles"         validate:"unique=Talle,dive"`
	Cantidad      *int             `json:"cantidad"       validate:"omitempty,min=0"`
	PrecioCosto   *decimal.Decimal `json:"precio_costo"   validate:"omitempty,min=0"`
	PrecioContado *decimal.Decimal `json:"precio_contado" validate:"omitempty,min=0"`
	ImagenURL     *string          `json:"imagen_url"     validate:"omitempty,url"`
	RecargoPct    *decimal.Decimal `json:"recargo_pct"    validate:"omitempty,min=0,max=100"`
}

type RecalcularPreciosRequest struct {
	RecargoPct *decimal.Decimal `json:"recargo_pct" validate:"required"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type ProductoFilter struct {
	Categoria string `form:"categoria"`
	Busqueda  string `form:"search"`
	// Orden: nombre | precio | cantidad; default is newest first.
	Orden string `form:"sort" validate:"omitempty,oneof=nombre precio cantidad"`
	// Activo: "false" = inactivos, "all" = todos, anything else = activos.
	Activo string `form:"activo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TalleResponse struct {
	Talle    string `json:"talle"`
	Cantidad int    `json:"cantidad"`
}

type ProductoResponse struct {
	ID            string          `json:"id"`
	Nombre        string          `json:"nombre"`
	Categoria     string          `json:"categoria"`
	Detalle       string          `json:"detalle"`
	Talles        []TalleResponse `json:"talles"`
	Cantidad      int             `json:"cantidad"`
	PrecioCosto   decimal.Decimal `json:"precio_costo"`
	PrecioContado decimal.Decimal `json:"precio_contado"`
	PrecioLista   decimal.Decimal `json:"precio_lista"`
	ImagenURL     string          `json:"imagen_url"`
	Activo        bool            `json:"activo"`
	CreatedAt     time.Time       `json:"created_at"`
}

type RecalcularPreciosResponse struct {
	Actualizados int             `json:"actualizados"`
	RecargoPct   decimal.Decimal `json:"recargo_pct"`
}

// CatalogoItem is the public view of a product: no cost price, only sizes in stock.
type CatalogoItem struct {
	ID                string          `json:"id"`
	Nombre            string          `json:"nombre"`
	Categoria         string          `json:"categoria"`
	Detalle           string          `json:"detalle"`
	ImagenURL         string          `json:"imagen_url"`
	PrecioContado     decimal.Decimal `json:"precio_contado"`
	PrecioLista       decimal.Decimal `json:"precio_lista"`
	TallesDisponibles []TalleResponse `json:"talles_disponibles"`
	Cantidad          int             `json:"cantidad"`
}
