package service

import (
	"context"
	"errors"

	"github.com/tomasvarela21/ChapulinaApp/internal/apierror"
	"github.com/tomasvarela21/ChapulinaApp/internal/dto"
	"github.com/tomasvarela21/ChapulinaApp/internal/model"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// notFound converts gorm.ErrRecordNotFound into a client-facing NotFound
// and passes other errors through.
func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.Wrap(apierror.ErrNotFound, msg)
	}
	return err
}

func invalido(msg string) error { return apierror.Wrap(apierror.ErrArgumentoInvalido, msg) }

func productoToResponse(p *model.Producto) dto.ProductoResponse {
	talles := make([]dto.TalleResponse, 0, len(p.Talles))
	for _, t := range p.Talles {
		talles = append(talles, dto.TalleResponse{Talle: t.Talle, Cantidad: t.Cantidad})
	}
	return dto.ProductoResponse{
		ID:            p.ID.String(),
		Nombre:        p.Nombre,
		Categoria:     p.Categoria,
		Detalle:       p.Detalle,
		Talles:        talles,
		Cantidad:      p.Cantidad,
		PrecioCosto:   p.PrecioCosto,
		PrecioContado: p.PrecioContado,
		PrecioLista:   p.PrecioLista,
		ImagenURL:     p.ImagenURL,
		Activo:        p.Activo,
		CreatedAt:     p.CreatedAt,
	}
}

func ventaToResponse(v *model.Venta) dto.VentaResponse {
	resp := dto.VentaResponse{
		ID:                v.ID.String(),
		Cliente:           v.Cliente,
		Telefono:          v.Telefono,
		ProductoID:        v.ProductoID.String(),
		ProductoNombre:    v.Snapshot.ProductoNombre,
		ProductoCategoria: v.Snapshot.ProductoCategoria,
		Talle:             v.Talle,
		Cantidad:          v.Cantidad,
		TipoPrecio:        v.TipoPrecio,
		Monto:             v.Monto,
		Estado:            v.Estado,
		MetodoPago:        v.MetodoPago,
		Notas:             v.Notas,
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
	}
	if v.VendidoPorID != nil {
		s := v.VendidoPorID.String()
		resp.VendidoPorID = &s
	}
	return resp
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:        u.ID.String(),
		Nombre:    u.Nombre,
		Email:     u.Email,
		Rol:       u.Rol,
		Activo:    u.Activo,
		CreatedAt: u.CreatedAt,
	}
}
