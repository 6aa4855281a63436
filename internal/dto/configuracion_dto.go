package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ActualizarConfiguracionRequest struct {
	RecargoPct    *decimal.Decimal `json:"recargo_pct"`
	NombreNegocio *string          `json:"nombre_negocio" validate:"omitempty,min=1,max=120"`
	Telefono      *string          `json:"telefono"       validate:"omitempty,max=40"`
	Email         *string          `json:"email"          validate:"omitempty,email"`
	Direccion     *string          `json:"direccion"      validate:"omitempty,max=200"`
}

type ConfiguracionResponse struct {
	RecargoPct    decimal.Decimal `json:"recargo_pct"`
	NombreNegocio string          `json:"nombre_negocio"`
	Telefono      string          `json:"telefono"`
	Email         string          `json:"email"`
	Direccion     string          `json:"direccion"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
