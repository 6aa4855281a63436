package service_test

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tomasvarela21/ChapulinaApp/internal/apierror"
	"github.com/tomasvarela21/ChapulinaApp/internal/dto"
	"github.com/tomasvarela21/ChapulinaApp/internal/model"
	"github.com/tomasvarela21/ChapulinaApp/internal/repository"
	"github.com/tomasvarela21/ChapulinaApp/internal/service"
	"github.com/tomasvarela21/ChapulinaApp/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Producto ──────────────────────────────────────────────────────────────────

// stubProductoRepo is an in-memory ProductoRepository. FindByID returns a
// copy so services cannot mutate stored state without going through the
// repository.
type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
	failLista map[uuid.UUID]bool
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: map[uuid.UUID]*model.Producto{}, failLista: map[uuid.UUID]bool{}}
}

func clonarProducto(p *model.Producto) *model.Producto {
	c := *p
	c.Talles = append([]model.ProductoTalle(nil), p.Talles...)
	return &c
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	r.productos[p.ID] = clonarProducto(p)
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return clonarProducto(p), nil
}

func (r *stubProductoRepo) ordenados() []model.Producto {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, *clonarProducto(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out
}

func (r *stubProductoRepo) List(_ context.Context, f dto.ProductoFilter) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.ordenados() {
		if f.Activo != "all" && p.Activo != (f.Activo != "false") {
			continue
		}
		if f.Categoria != "" && p.Categoria != f.Categoria {
			continue
		}
		if f.Busqueda != "" && !strings.Contains(strings.ToLower(p.Nombre), strings.ToLower(f.Busqueda)) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *stubProductoRepo) ListActivos(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.ordenados() {
		if p.Activo {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) ListTodos(_ context.Context) ([]model.Producto, error) {
	return r.ordenados(), nil
}

func (r *stubProductoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return r.FindByID(context.Background(), id)
}

// UpdateTx mirrors the GORM repository: Cantidad is never copied from p.
func (r *stubProductoRepo) UpdateTx(_ *gorm.DB, p *model.Producto, reemplazarTalles bool) error {
	stored, ok := r.productos[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c := clonarProducto(p)
	c.Cantidad = stored.Cantidad
	if !reemplazarTalles {
		c.Talles = stored.Talles
	}
	c.RecalcularCantidad()
	r.productos[p.ID] = c
	return nil
}

func (r *stubProductoRepo) FijarCantidadTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	r.productos[id].Cantidad = cantidad
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.productos[id].Activo = false
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	r.productos[id].Activo = true
	return nil
}

func (r *stubProductoRepo) DescontarTalleTx(_ *gorm.DB, id uuid.UUID, talle string, cantidad int) (int, error) {
	p, ok := r.productos[id]
	if !ok {
		return 0, apierror.Wrap(apierror.ErrStockInsuficiente, "Stock insuficiente para este producto")
	}
	if talle == "" {
		if p.Cantidad < cantidad {
			return 0, apierror.Wrap(apierror.ErrStockInsuficiente, "Stock insuficiente para este producto")
		}
		p.Cantidad -= cantidad
		return p.Cantidad, nil
	}
	t := p.BuscarTalle(talle)
	if t == nil || t.Cantidad < cantidad {
		return 0, apierror.Wrap(apierror.ErrStockInsuficiente, "Stock insuficiente para esta talla")
	}
	t.Cantidad -= cantidad
	p.RecalcularCantidad()
	return t.Cantidad, nil
}

func (r *stubProductoRepo) RestaurarTalleTx(_ *gorm.DB, id uuid.UUID, talle string, cantidad int) (int, bool, error) {
	p, ok := r.productos[id]
	if !ok {
		return 0, false, nil
	}
	if talle == "" {
		p.Cantidad += cantidad
		return p.Cantidad, true, nil
	}
	t := p.BuscarTalle(talle)
	if t == nil {
		return 0, false, nil
	}
	t.Cantidad += cantidad
	p.RecalcularCantidad()
	return t.Cantidad, true, nil
}

func (r *stubProductoRepo) UpdatePrecioListaTx(_ *gorm.DB, id uuid.UUID, precio decimal.Decimal) error {
	if r.failLista[id] {
		return gorm.ErrInvalidTransaction
	}
	r.productos[id].PrecioLista = precio
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// talle returns the stored quantity of a size, or -1.
func (r *stubProductoRepo) talle(id uuid.UUID, t string) int {
	if tt := r.productos[id].BuscarTalle(t); tt != nil {
		return tt.Cantidad
	}
	return -1
}

// ── Venta ─────────────────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: map[uuid.UUID]*model.Venta{}}
}

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	c := *v
	r.ventas[v.ID] = &c
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *v
	return &c, nil
}

func (r *stubVentaRepo) List(_ context.Context, q repository.VentaQuery) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if len(q.Estados) > 0 {
			match := false
			for _, e := range q.Estados {
				if v.Estado == e {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		if q.Desde != nil && v.CreatedAt.Before(*q.Desde) {
			continue
		}
		if q.Hasta != nil && !v.CreatedAt.Before(*q.Hasta) {
			continue
		}
		if q.VendidoPorID != nil && (v.VendidoPorID == nil || *v.VendidoPorID != *q.VendidoPorID) {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubVentaRepo) UpdateTx(_ *gorm.DB, v *model.Venta) error {
	s := r.ventas[v.ID]
	s.Cliente, s.Telefono, s.Notas, s.MetodoPago = v.Cliente, v.Telefono, v.Notas, v.MetodoPago
	return nil
}

func (r *stubVentaRepo) CancelarTx(_ *gorm.DB, id uuid.UUID) (bool, error) {
	v, ok := r.ventas[id]
	if !ok || v.Estado == model.EstadoCancelada {
		return false, nil
	}
	v.Estado = model.EstadoCancelada
	return true, nil
}

func (r *stubVentaRepo) CompletarTx(_ *gorm.DB, v *model.Venta) (bool, error) {
	s, ok := r.ventas[v.ID]
	if !ok || s.Estado != model.EstadoReservada {
		return false, nil
	}
	s.Estado = model.EstadoRetirada
	s.MetodoPago, s.TipoPrecio, s.Monto = v.MetodoPago, v.TipoPrecio, v.Monto
	return true, nil
}

func (r *stubVentaRepo) DeleteTx(_ *gorm.DB, id uuid.UUID, soloActivas bool) (bool, error) {
	v, ok := r.ventas[id]
	if !ok || (soloActivas && v.Estado == model.EstadoCancelada) {
		return false, nil
	}
	delete(r.ventas, id)
	return true, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── Movimientos / historial ───────────────────────────────────────────────────

type stubMovimientoRepo struct {
	movs []model.MovimientoStock
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	r.movs = append(r.movs, *m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, f repository.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	var out []model.MovimientoStock
	for _, m := range r.movs {
		if f.ProductoID != nil && m.ProductoID != *f.ProductoID {
			continue
		}
		if f.Tipo != "" && m.Tipo != f.Tipo {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

var _ repository.MovimientoStockRepository = (*stubMovimientoRepo)(nil)

type stubHistorialRepo struct {
	rows []model.HistorialPrecio
}

func (r *stubHistorialRepo) CreateTx(_ *gorm.DB, h *model.HistorialPrecio) error {
	h.ID = uuid.New()
	h.CreatedAt = time.Now()
	r.rows = append(r.rows, *h)
	return nil
}

func (r *stubHistorialRepo) ListByProducto(_ context.Context, id uuid.UUID, _, _ int) ([]model.HistorialPrecio, int64, error) {
	var out []model.HistorialPrecio
	for _, h := range r.rows {
		if h.ProductoID == id {
			out = append(out, h)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.HistorialPrecioRepository = (*stubHistorialRepo)(nil)

// ── Configuracion ─────────────────────────────────────────────────────────────

type stubConfigRepo struct {
	c *model.Configuracion
}

func newStubConfigRepo(recargo int64) *stubConfigRepo {
	return &stubConfigRepo{c: &model.Configuracion{
		ID:            model.ConfiguracionID,
		RecargoPct:    decimal.NewFromInt(recargo),
		NombreNegocio: "Chapulina",
	}}
}

func (r *stubConfigRepo) Obtener(_ context.Context) (*model.Configuracion, error) {
	c := *r.c
	return &c, nil
}

func (r *stubConfigRepo) Guardar(_ context.Context, c *model.Configuracion) error {
	cp := *c
	r.c = &cp
	return nil
}

var _ repository.ConfiguracionRepository = (*stubConfigRepo)(nil)

// ── Usuarios ──────────────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	users map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{users: map[uuid.UUID]*model.Usuario{}}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = strings.ToLower(u.Email)
	c := *u
	r.users[u.ID] = &c
	return nil
}

func (r *stubUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			c := *u
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *u
	return &c, nil
}

func (r *stubUsuarioRepo) filtrar(fn func(*model.Usuario) bool) []model.Usuario {
	var out []model.Usuario
	for _, u := range r.users {
		if fn(u) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	return r.filtrar(func(u *model.Usuario) bool { return u.Activo }), nil
}

func (r *stubUsuarioRepo) ListAll(_ context.Context) ([]model.Usuario, error) {
	return r.filtrar(func(*model.Usuario) bool { return true }), nil
}

func (r *stubUsuarioRepo) ListByRol(_ context.Context, rol string) ([]model.Usuario, error) {
	return r.filtrar(func(u *model.Usuario) bool { return u.Activo && u.Rol == rol }), nil
}

func (r *stubUsuarioRepo) CountAdminsActivos(_ context.Context) (int64, error) {
	return int64(len(r.filtrar(func(u *model.Usuario) bool { return u.Activo && u.Rol == model.RolAdmin }))), nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	c := *u
	r.users[u.ID] = &c
	return nil
}

func (r *stubUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.users[id].Activo = false
	return nil
}

func (r *stubUsuarioRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	r.users[id].Activo = true
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── Categorias ────────────────────────────────────────────────────────────────

type stubCategoriaRepo struct {
	cats map[uuid.UUID]*model.Categoria
}

func newStubCategoriaRepo() *stubCategoriaRepo {
	return &stubCategoriaRepo{cats: map[uuid.UUID]*model.Categoria{}}
}

func (r *stubCategoriaRepo) Crear(_ context.Context, c *model.Categoria) error {
	c.ID = uuid.New()
	cp := *c
	r.cats[c.ID] = &cp
	return nil
}

func (r *stubCategoriaRepo) Listar(_ context.Context, incluirInactivas bool) ([]model.Categoria, error) {
	var out []model.Categoria
	for _, c := range r.cats {
		if c.Activo || incluirInactivas {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *stubCategoriaRepo) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Categoria, error) {
	c, ok := r.cats[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCategoriaRepo) ObtenerPorNombre(_ context.Context, nombre string) (*model.Categoria, error) {
	for _, c := range r.cats {
		if strings.EqualFold(c.Nombre, nombre) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoriaRepo) Actualizar(_ context.Context, c *model.Categoria) error {
	cp := *c
	r.cats[c.ID] = &cp
	return nil
}

func (r *stubCategoriaRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	r.cats[id].Activo = false
	return nil
}

var _ repository.CategoriaRepository = (*stubCategoriaRepo)(nil)

// ── Colaboradores ─────────────────────────────────────────────────────────────

type stubCatalogo struct {
	invalidaciones int
}

func (c *stubCatalogo) Listar(context.Context) ([]dto.CatalogoItem, error) { return nil, nil }
func (c *stubCatalogo) Invalidar(context.Context)                         { c.invalidaciones++ }

var _ service.CatalogoService = (*stubCatalogo)(nil)

type stubAlertas struct {
	mu       sync.Mutex
	payloads []worker.AlertaStockPayload
}

func (a *stubAlertas) EnqueueAlertaStock(_ context.Context, p worker.AlertaStockPayload) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.payloads = append(a.payloads, p)
	return nil
}

var _ service.AlertaEncolador = (*stubAlertas)(nil)

// stubCache is a JSON round-tripping in-memory CatalogCache.
type stubCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
	sets int
}

func newStubCache() *stubCache { return &stubCache{data: map[string][]byte{}} }

func (c *stubCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (c *stubCache) Set(_ context.Context, key string, value interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.sets++
	c.data[key] = b
	return nil
}

func (c *stubCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

var _ service.CatalogCache = (*stubCache)(nil)

// ── Seeds ─────────────────────────────────────────────────────────────────────

func seedProducto(r *stubProductoRepo, nombre string, contado int64, talles ...model.ProductoTalle) *model.Producto {
	p := &model.Producto{
		ID:            uuid.New(),
		Nombre:        nombre,
		Categoria:     "Vestidos",
		PrecioCosto:   decimal.NewFromInt(contado / 2),
		PrecioContado: decimal.NewFromInt(contado),
		PrecioLista:   service.CalcularPrecioLista(decimal.NewFromInt(contado), decimal.NewFromInt(30)),
		Activo:        true,
		Talles:        talles,
	}
	p.RecalcularCantidad()
	r.productos[p.ID] = p
	return p
}

func talle(t string, n int) model.ProductoTalle {
	return model.ProductoTalle{ID: uuid.New(), Talle: t, Cantidad: n}
}

func strPtr(s string) *string { return &s }
