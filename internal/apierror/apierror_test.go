package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_MapsWrappedErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: producto", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: talle S", ErrStockInsuficiente), http.StatusConflict},
		{fmt.Errorf("%w: recargo", ErrArgumentoInvalido), http.StatusBadRequest},
		{ErrNoAutorizado, http.StatusUnauthorized},
		{ErrProhibido, http.StatusForbidden},
		{fmt.Errorf("%w: email", ErrConflicto), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}

func TestNew_SuccessFalse(t *testing.T) {
	e := New("Producto no encontrado")
	assert.False(t, e.Success)
	assert.Equal(t, "Producto no encontrado", e.Message)
}

func TestWrap_KeepsMessageAndKind(t *testing.T) {
	err := Wrap(ErrStockInsuficiente, "Stock insuficiente para esta talla")
	assert.Equal(t, "Stock insuficiente para esta talla", err.Error())
	assert.ErrorIs(t, err, ErrStockInsuficiente)
	assert.Equal(t, http.StatusConflict, Status(fmt.Errorf("venta: %w", err)))
}

func TestMessage_HidesInternalErrors(t *testing.T) {
	assert.Equal(t, "Producto no encontrado", Message(Wrap(ErrNotFound, "Producto no encontrado")))
	assert.Equal(t, "Error interno del servidor", Message(errors.New("pq: connection reset")))
}
