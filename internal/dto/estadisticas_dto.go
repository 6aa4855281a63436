package dto

import "github.com/shopspring/decimal"

type ResumenMensualItem struct {
	Anio     int             `json:"anio"`
	Mes      int             `json:"mes"`
	Etiqueta string          `json:"etiqueta"` // YYYY-MM
	Total    decimal.Decimal `json:"total"`
	Ventas   int             `json:"ventas"`
}

type EstadisticasFilter struct {
	Desde string `form:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
}

type EstadisticasResponse struct {
	TotalVendido   decimal.Decimal `json:"total_vendido"`
	Ordenes        int             `json:"ordenes"`
	TicketPromedio decimal.Decimal `json:"ticket_promedio"`
}

type VentanaVentas struct {
	Ventas    int             `json:"ventas"`
	Recaudado decimal.Decimal `json:"recaudado"`
}

type EstadisticasVendedorResponse struct {
	UsuarioID     string                     `json:"usuario_id"`
	Nombre        string                     `json:"nombre"`
	Email         string                     `json:"email"`
	Ventas        int                        `json:"ventas"`
	Recaudado     decimal.Decimal            `json:"recaudado"`
	PorMetodoPago map[string]decimal.Decimal `json:"por_metodo_pago"`
	Mes           VentanaVentas              `json:"mes"`
	Hoy           VentanaVentas              `json:"hoy"`
}
