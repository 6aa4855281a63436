package service_test

import (
	"context"
	"testing"

	"github.com/tomasvarela21/ChapulinaApp/internal/apierror"
	"github.com/tomasvarela21/ChapulinaApp/internal/dto"
	"github.com/tomasvarela21/ChapulinaApp/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorias_CrearListarDesactivar(t *testing.T) {
	svc := service.NewCategoriaService(newStubCategoriaRepo())
	ctx := context.Background()

	vestidos, err := svc.Crear(ctx, dto.CrearCategoriaRequest{Nombre: "Vestidos"})
	require.NoError(t, err)
	_, err = svc.Crear(ctx, dto.CrearCategoriaRequest{Nombre: "Accesorios"})
	require.NoError(t, err)

	_, err = svc.Crear(ctx, dto.CrearCategoriaRequest{Nombre: "vestidos"})
	assert.ErrorIs(t, err, apierror.ErrConflicto)

	require.NoError(t, svc.Desactivar(ctx, vestidos.ID))

	activas, err := svc.Listar(ctx, false)
	require.NoError(t, err)
	require.Len(t, activas, 1)
	assert.Equal(t, "Accesorios", activas[0].Nombre)

	todas, err := svc.Listar(ctx, true)
	require.NoError(t, err)
	assert.Len(t, todas, 2)
}

func TestCategorias_Actualizar(t *testing.T) {
	svc := service.NewCategoriaService(newStubCategoriaRepo())
	ctx := context.Background()

	a, err := svc.Crear(ctx, dto.CrearCategoriaRequest{Nombre: "Vestidos"})
	require.NoError(t, err)
	_, err = svc.Crear(ctx, dto.CrearCategoriaRequest{Nombre: "Remeras"})
	require.NoError(t, err)

	otro := "Remeras"
	_, err = svc.Actualizar(ctx, a.ID, dto.ActualizarCategoriaRequest{Nombre: &otro})
	assert.ErrorIs(t, err, apierror.ErrConflicto)

	nuevo := "Vestidos de fiesta"
	got, err := svc.Actualizar(ctx, a.ID, dto.ActualizarCategoriaRequest{Nombre: &nuevo})
	require.NoError(t, err)
	assert.Equal(t, nuevo, got.Nombre)

	_, err = svc.Actualizar(ctx, uuid.New(), dto.ActualizarCategoriaRequest{Nombre: &nuevo})
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}
