package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearVentaRequest creates a direct sale (estado=vendida) or a reservation
// (estado=reservada). Talle may be empty only for sizeless products.
// A zero Monto is filled in server-side from the product's current price.
type CrearVentaRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Talle      string          `json:"talle"       validate:"omitempty,oneof=XS S M L XL XXL"`
	Cantidad   int             `json:"cantidad"    validate:"required,min=1"`
	TipoPrecio string          `json:"tipo_precio" validate:"required,oneof=contado lista"`
	Estado     string          `json:"estado"      validate:"required,oneof=vendida reservada"`
	MetodoPago string          `json:"metodo_pago" validate:"omitempty,oneof=efectivo transferencia tarjeta none"`
	Cliente    *string         `json:"cliente"     validate:"omitempty,max=120"`
	Telefono   *string         `json:"telefono"    validate:"omitempty,max=40"`
	Notas      string          `json:"notas"       validate:"max=500"`
	Monto      decimal.Decimal `json:"monto"       validate:"min=0"`
}

type CompletarReservaRequest struct {
	MetodoPago string `json:"metodo_pago" validate:"required,oneof=efectivo transferencia tarjeta"`
}

// ActualizarVentaRequest is a partial update. Changing Estado to cancelada
// restores stock; changing it to retirada completes the reservation.
type ActualizarVentaRequest struct {
	Cliente    *string `json:"cliente"     validate:"omitempty,max=120"`
	Telefono   *string `json:"telefono"    validate:"omitempty,max=40"`
	Notas      *string `json:"notas"       validate:"omitempty,max=500"`
	MetodoPago *string `json:"metodo_pago" validate:"omitempty,oneof=efectivo transferencia tarjeta none"`
	Estado     *string `json:"estado"      validate:"omitempty,oneof=vendida reservada retirada cancelada"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

type VentaFilter struct {
	Estado string `form:"estado" validate:"omitempty,oneof=vendida reservada retirada cancelada all"`
	Desde  string `form:"desde"  validate:"omitempty,datetime=2006-01-02"`
	Hasta  string `form:"hasta"  validate:"omitempty,datetime=2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VentaResponse struct {
	ID                string          `json:"id"`
	Cliente           *string         `json:"cliente"`
	Telefono          *string         `json:"telefono"`
	ProductoID        string          `json:"producto_id"`
	ProductoNombre    string          `json:"producto_nombre"`
	ProductoCategoria string          `json:"producto_categoria"`
	Talle             string          `json:"talle"`
	Cantidad          int             `json:"cantidad"`
	TipoPrecio        string          `json:"tipo_precio"`
	Monto             decimal.Decimal `json:"monto"`
	Estado            string          `json:"estado"`
	MetodoPago        string          `json:"metodo_pago"`
	Notas             string          `json:"notas"`
	VendidoPorID      *string         `json:"vendido_por_id"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
