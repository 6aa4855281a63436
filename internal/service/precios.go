package service

import (
	"github.com/tomasvarela21/ChapulinaApp/internal/model"

	"github.com/shopspring/decimal"
)

var (
	cien          = decimal.NewFromInt(100)
	recargoMaximo = cien
)

// CalcularPrecioLista returns contado × (1 + recargoPct/100) rounded to whole
// pesos, halves away from zero.
func CalcularPrecioLista(contado, recargoPct decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(recargoPct.Div(cien))
	return contado.Mul(factor).Round(0)
}

func validarRecargo(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(recargoMaximo) {
		return invalido("El recargo debe estar entre 0 y 100")
	}
	return nil
}

// precioUnitario picks the price a sale is charged at.
func precioUnitario(contado, lista decimal.Decimal, tipoPrecio string) decimal.Decimal {
	if tipoPrecio == model.TipoPrecioLista {
		return lista
	}
	return contado
}
