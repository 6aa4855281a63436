package service_test

import (
	"context"
	"testing"

	"github.com/tomasvarela21/ChapulinaApp/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogo_SoloProductosConStock(t *testing.T) {
	repo := newStubProductoRepo()
	seedProducto(repo, "Vestido", 100, talle("S", 0), talle("M", 2))
	seedProducto(repo, "Agotado", 100, talle("S", 0))
	inactivo := seedProducto(repo, "Inactivo", 100, talle("L", 4))
	inactivo.Activo = false

	svc := service.NewCatalogoService(repo, nil)
	items, err := svc.Listar(context.Background())
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "Vestido", items[0].Nombre)
	require.Len(t, items[0].TallesDisponibles, 1)
	assert.Equal(t, "M", items[0].TallesDisponibles[0].Talle)
	assert.Equal(t, 2, items[0].Cantidad)
}

func TestCatalogo_CacheAsideEInvalidacion(t *testing.T) {
	repo := newStubProductoRepo()
	p := seedProducto(repo, "Vestido", 100, talle("M", 2))
	cache := newStubCache()
	svc := service.NewCatalogoService(repo, cache)
	ctx := context.Background()

	first, err := svc.Listar(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, cache.sets)

	// stale until invalidated
	repo.productos[p.ID].Nombre = "Vestido largo"
	cached, err := svc.Listar(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Vestido", cached[0].Nombre)
	assert.Equal(t, 1, cache.sets, "hit must not rewrite the cache")

	svc.Invalidar(ctx)
	fresh, err := svc.Listar(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Vestido largo", fresh[0].Nombre)
	assert.Equal(t, 2, cache.sets)
}
