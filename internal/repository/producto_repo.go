package repository

import (
	"context"
	"strings"

	"github.com/tomasvarela21/ChapulinaApp/internal/apierror"
	"github.com/tomasvarela21/ChapulinaApp/internal/dto"
	"github.com/tomasvarela21/ChapulinaApp/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, error)
	ListActivos(ctx context.Context) ([]model.Producto, error)
	// ListTodos includes inactive products; used by the bulk price recompute.
	ListTodos(ctx context.Context) ([]model.Producto, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error

	// Used inside transactions; callers must pass the tx instance.

	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)
	// UpdateTx persists scalar fields. Cantidad is never written from p: a
	// product with sizes gets it re-derived from the stored sizes, a sizeless
	// one only changes through FijarCantidadTx. When reemplazarTalles is true
	// the size list is replaced wholesale by p.Talles.
	UpdateTx(tx *gorm.DB, p *model.Producto, reemplazarTalles bool) error
	// FijarCantidadTx sets the aggregate of a sizeless product.
	FijarCantidadTx(tx *gorm.DB, id uuid.UUID, cantidad int) error

	// DescontarTalleTx atomically subtracts cantidad from the size only if
	// enough units remain, and returns the size's new quantity. An empty talle
	// targets the aggregate of a sizeless product.
	DescontarTalleTx(tx *gorm.DB, id uuid.UUID, talle string, cantidad int) (int, error)
	// RestaurarTalleTx adds cantidad back. ok is false when the product or the
	// size no longer exists; that is not an error.
	RestaurarTalleTx(tx *gorm.DB, id uuid.UUID, talle string, cantidad int) (nuevo int, ok bool, err error)
	UpdatePrecioListaTx(tx *gorm.DB, id uuid.UUID, precioLista decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func preloadTalles(db *gorm.DB) *gorm.DB {
	return db.Preload("Talles", func(q *gorm.DB) *gorm.DB { return q.Order("orden ASC") })
}

func numerarTalles(p *model.Producto) {
	for i := range p.Talles {
		p.Talles[i].ProductoID = p.ID
		p.Talles[i].Orden = i
	}
}

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	numerarTalles(p)
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := preloadTalles(r.db.WithContext(ctx)).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, error) {
	q := r.db.WithContext(ctx).Model(&model.Producto{})

	switch filter.Activo {
	case "false":
		q = q.Where("activo = ?", false)
	case "all":
		// no filter
	default:
		q = q.Where("activo = ?", true)
	}

	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}
	if filter.Busqueda != "" {
		like := "%" + strings.ToLower(filter.Busqueda) + "%"
		q = q.Where("LOWER(nombre) LIKE ? OR LOWER(detalle) LIKE ?", like, like)
	}

	switch filter.Orden {
	case "nombre":
		q = q.Order("nombre ASC")
	case "precio":
		q = q.Order("precio_contado ASC")
	case "cantidad":
		q = q.Order("cantidad ASC")
	default:
		q = q.Order("created_at DESC")
	}

	var productos []model.Producto
	err := preloadTalles(q).Find(&productos).Error
	return productos, err
}

func (r *productoRepo) ListActivos(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := preloadTalles(r.db.WithContext(ctx)).
		Where("activo = ?", true).
		Order("nombre ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) ListTodos(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := preloadTalles(tx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) UpdateTx(tx *gorm.DB, p *model.Producto, reemplazarTalles bool) error {
	if err := tx.Omit("Talles", "CreatedAt", "Cantidad").Save(p).Error; err != nil {
		return err
	}
	if reemplazarTalles {
		if err := tx.Where("producto_id = ?", p.ID).Delete(&model.ProductoTalle{}).Error; err != nil {
			return err
		}
		numerarTalles(p)
		for i := range p.Talles {
			p.Talles[i].ID = uuid.Nil
		}
		if len(p.Talles) > 0 {
			if err := tx.Create(&p.Talles).Error; err != nil {
				return err
			}
		}
	}
	if len(p.Talles) == 0 {
		return nil
	}
	return r.recalcularCantidadTx(tx, p.ID)
}

func (r *productoRepo) FijarCantidadTx(tx *gorm.DB, id uuid.UUID, cantidad int) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).Update("cantidad", cantidad).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *productoRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", true).Error
}

func (r *productoRepo) DescontarTalleTx(tx *gorm.DB, id uuid.UUID, talle string, cantidad int) (int, error) {
	if talle == "" {
		res := tx.Model(&model.Producto{}).
			Where("id = ? AND cantidad >= ?", id, cantidad).
			Update("cantidad", gorm.Expr("cantidad - ?", cantidad))
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected == 0 {
			return 0, apierror.Wrap(apierror.ErrStockInsuficiente, "Stock insuficiente para este producto")
		}
		return r.cantidadProductoTx(tx, id)
	}

	res := tx.Model(&model.ProductoTalle{}).
		Where("producto_id = ? AND talle = ? AND cantidad >= ?", id, talle, cantidad).
		Update("cantidad", gorm.Expr("cantidad - ?", cantidad))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, apierror.Wrap(apierror.ErrStockInsuficiente, "Stock insuficiente para esta talla")
	}
	if err := r.recalcularCantidadTx(tx, id); err != nil {
		return 0, err
	}
	return r.cantidadTalleTx(tx, id, talle)
}

func (r *productoRepo) RestaurarTalleTx(tx *gorm.DB, id uuid.UUID, talle string, cantidad int) (int, bool, error) {
	if talle == "" {
		res := tx.Model(&model.Producto{}).
			Where("id = ?", id).
			Update("cantidad", gorm.Expr("cantidad + ?", cantidad))
		if res.Error != nil || res.RowsAffected == 0 {
			return 0, false, res.Error
		}
		n, err := r.cantidadProductoTx(tx, id)
		return n, err == nil, err
	}

	res := tx.Model(&model.ProductoTalle{}).
		Where("producto_id = ? AND talle = ?", id, talle).
		Update("cantidad", gorm.Expr("cantidad + ?", cantidad))
	if res.Error != nil || res.RowsAffected == 0 {
		return 0, false, res.Error
	}
	if err := r.recalcularCantidadTx(tx, id); err != nil {
		return 0, false, err
	}
	n, err := r.cantidadTalleTx(tx, id, talle)
	return n, err == nil, err
}

func (r *productoRepo) UpdatePrecioListaTx(tx *gorm.DB, id uuid.UUID, precioLista decimal.Decimal) error {
	return tx.Model(&model.Producto{}).Where("id = ?", id).Update("precio_lista", precioLista).Error
}

// recalcularCantidadTx keeps productos.cantidad equal to the sum of its sizes.
func (r *productoRepo) recalcularCantidadTx(tx *gorm.DB, id uuid.UUID) error {
	suma := tx.Model(&model.ProductoTalle{}).Select("COALESCE(SUM(cantidad), 0)").Where("producto_id = ?", id)
	return tx.Model(&model.Producto{}).Where("id = ?", id).Update("cantidad", suma).Error
}

func (r *productoRepo) cantidadTalleTx(tx *gorm.DB, id uuid.UUID, talle string) (int, error) {
	var n int
	err := tx.Model(&model.ProductoTalle{}).
		Select("cantidad").
		Where("producto_id = ? AND talle = ?", id, talle).
		Scan(&n).Error
	return n, err
}

func (r *productoRepo) cantidadProductoTx(tx *gorm.DB, id uuid.UUID) (int, error) {
	var n int
	err := tx.Model(&model.Producto{}).Select("cantidad").Where("id = ?", id).Scan(&n).Error
	return n, err
}
