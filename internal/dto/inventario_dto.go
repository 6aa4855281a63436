package dto

type StockBajoFilter struct {
	Umbral int `form:"umbral,default=2" validate:"min=0"`
}

// StockBajoResponse annotates a product with the sizes at or below the threshold.
// Minimo is the lowest qualifying quantity and drives the sort order.
type StockBajoResponse struct {
	ProductoResponse
	TallesBajos []TalleResponse `json:"talles_bajos"`
	Minimo      int             `json:"minimo"`
}

type MovimientoFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	Tipo       string `form:"tipo"        validate:"omitempty,oneof=venta reserva cancelacion eliminacion ajuste_manual"`
	Page       int    `form:"page,default=1"    validate:"min=1"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type MovimientoStockResponse struct {
	ID            string  `json:"id"`
	ProductoID    string  `json:"producto_id"`
	Talle         string  `json:"talle"`
	Tipo          string  `json:"tipo"`
	Cantidad      int     `json:"cantidad"`
	StockAnterior int     `json:"stock_anterior"`
	StockNuevo    int     `json:"stock_nuevo"`
	Motivo        string  `json:"motivo"`
	ReferenciaID  *string `json:"referencia_id"`
	CreatedAt     string  `json:"created_at"`
}

type MovimientoListResponse struct {
	Data  []MovimientoStockResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}
