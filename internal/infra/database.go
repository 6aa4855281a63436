package infra

import (
	"fmt"

	"github.com/tomasvarela21/ChapulinaApp/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// modelos lists every table managed by AutoMigrate, parents first.
var modelos = []interface{}{
	&model.Usuario{},
	&model.Categoria{},
	&model.Configuracion{},
	&model.Producto{},
	&model.ProductoTalle{},
	&model.Venta{},
	&model.MovimientoStock{},
	&model.HistorialPrecio{},
}

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (CHECK constraints, composite indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every table. Schema patches are
// Postgres-specific and skipped on other dialects (SQLite in tests).
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(modelos...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// handle on its own. Each statement is guarded by an existence check so
// re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Last line of defence for the conditional decrement in DescontarTalleTx.
		{"chk_producto_talles_cantidad", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_producto_talles_cantidad') THEN
    ALTER TABLE producto_talles ADD CONSTRAINT chk_producto_talles_cantidad CHECK (cantidad >= 0);
  END IF;
END $$`},
		{"chk_productos_cantidad", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_productos_cantidad') THEN
    ALTER TABLE productos ADD CONSTRAINT chk_productos_cantidad CHECK (cantidad >= 0);
  END IF;
END $$`},
		{"chk_ventas_cantidad", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_ventas_cantidad') THEN
    ALTER TABLE ventas ADD CONSTRAINT chk_ventas_cantidad CHECK (cantidad >= 1);
  END IF;
END $$`},
		{"chk_configuracion_recargo", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_configuracion_recargo') THEN
    ALTER TABLE configuracion ADD CONSTRAINT chk_configuracion_recargo CHECK (recargo_pct BETWEEN 0 AND 100);
  END IF;
END $$`},
		// Dashboard and per-seller statistics filter by estado and date.
		{"idx_ventas_estado_fecha",
			`CREATE INDEX IF NOT EXISTS idx_ventas_estado_fecha ON ventas (estado, created_at DESC)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
