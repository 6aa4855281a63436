package repository

import (
	"context"
	"time"

	"github.com/tomasvarela21/ChapulinaApp/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VentaQuery filters sales. Nil bounds are open; Hasta is exclusive.
type VentaQuery struct {
	Estados      []string
	Desde        *time.Time
	Hasta        *time.Time
	VendidoPorID *uuid.UUID
}

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	List(ctx context.Context, q VentaQuery) ([]model.Venta, error)
	// UpdateTx persists the editable fields (cliente, telefono, notas, metodo_pago).
	UpdateTx(tx *gorm.DB, v *model.Venta) error
	// CancelarTx flips estado to cancelada unless it already is. The returned
	// bool says whether this call performed the transition.
	CancelarTx(tx *gorm.DB, id uuid.UUID) (bool, error)
	// CompletarTx moves a reservada sale to retirada with its final pricing.
	CompletarTx(tx *gorm.DB, v *model.Venta) (bool, error)
	// DeleteTx removes the sale. With soloActivas it only deletes a sale that
	// is not cancelada.
	DeleteTx(tx *gorm.DB, id uuid.UUID, soloActivas bool) (bool, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	return &v, err
}

func (r *ventaRepo) List(ctx context.Context, q VentaQuery) ([]model.Venta, error) {
	db := r.db.WithContext(ctx).Model(&model.Venta{})
	if len(q.Estados) > 0 {
		db = db.Where("estado IN ?", q.Estados)
	}
	if q.Desde != nil {
		db = db.Where("created_at >= ?", *q.Desde)
	}
	if q.Hasta != nil {
		db = db.Where("created_at < ?", *q.Hasta)
	}
	if q.VendidoPorID != nil {
		db = db.Where("vendido_por_id = ?", *q.VendidoPorID)
	}

	var ventas []model.Venta
	err := db.Order("created_at DESC").Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) UpdateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Model(&model.Venta{}).Where("id = ?", v.ID).Updates(map[string]interface{}{
		"cliente":     v.Cliente,
		"telefono":    v.Telefono,
		"notas":       v.Notas,
		"metodo_pago": v.MetodoPago,
	}).Error
}

func (r *ventaRepo) CancelarTx(tx *gorm.DB, id uuid.UUID) (bool, error) {
	res := tx.Model(&model.Venta{}).
		Where("id = ? AND estado <> ?", id, model.EstadoCancelada).
		Update("estado", model.EstadoCancelada)
	return res.RowsAffected == 1, res.Error
}

func (r *ventaRepo) CompletarTx(tx *gorm.DB, v *model.Venta) (bool, error) {
	res := tx.Model(&model.Venta{}).
		Where("id = ? AND estado = ?", v.ID, model.EstadoReservada).
		Updates(map[string]interface{}{
			"estado":      model.EstadoRetirada,
			"metodo_pago": v.MetodoPago,
			"tipo_precio": v.TipoPrecio,
			"monto":       v.Monto,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *ventaRepo) DeleteTx(tx *gorm.DB, id uuid.UUID, soloActivas bool) (bool, error) {
	q := tx.Where("id = ?", id)
	if soloActivas {
		q = q.Where("estado <> ?", model.EstadoCancelada)
	}
	res := q.Delete(&model.Venta{})
	return res.RowsAffected == 1, res.Error
}
