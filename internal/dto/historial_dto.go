package dto

import "github.com/shopspring/decimal"

// HistorialPrecioItem is one row in the price-history list.
type HistorialPrecioItem struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	ContadoAntes   decimal.Decimal `json:"contado_antes"`
	ContadoDespues decimal.Decimal `json:"contado_despues"`
	ListaAntes     decimal.Decimal `json:"lista_antes"`
	ListaDespues   decimal.Decimal `json:"lista_despues"`
	RecargoPct     decimal.Decimal `json:"recargo_pct"`
	Motivo         string          `json:"motivo"`
	CreatedAt      string          `json:"created_at"`
}

// HistorialPrecioListResponse is returned by GET /v1/productos/:id/historial-precios.
type HistorialPrecioListResponse struct {
	Data  []HistorialPrecioItem `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
