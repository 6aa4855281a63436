package router

import (
	"context"
	"time"

	"github.com/tomasvarela21/ChapulinaApp/internal/config"
	"github.com/tomasvarela21/ChapulinaApp/internal/handler"
	"github.com/tomasvarela21/ChapulinaApp/internal/infra"
	"github.com/tomasvarela21/ChapulinaApp/internal/middleware"
	"github.com/tomasvarela21/ChapulinaApp/internal/model"
	"github.com/tomasvarela21/ChapulinaApp/internal/repository"
	"github.com/tomasvarela21/ChapulinaApp/internal/service"
	"github.com/tomasvarela21/ChapulinaApp/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
//
// rdb may be nil: the catalog is then served uncached and low-stock alerts
// are only logged. ctx bounds the rate limiter janitors.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(ctx, 1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	// Typed nils must not reach the service interfaces, so the optional
	// collaborators are only assigned when Redis is up.
	var (
		cache     *infra.Cache
		catCache  service.CatalogCache
		encolador service.AlertaEncolador
	)
	if rdb != nil {
		cache = infra.NewCache(rdb, "chapulina:", time.Duration(cfg.CatalogCacheTTLSeconds)*time.Second)
		catCache = cache
		encolador = worker.NewDispatcher(rdb)
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	historialPrecioRepo := repository.NewHistorialPrecioRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	configuracionRepo := repository.NewConfiguracionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	configSvc := service.NewConfiguracionService(configuracionRepo)
	catalogoSvc := service.NewCatalogoService(productoRepo, catCache)
	productoSvc := service.NewProductoService(productoRepo, historialPrecioRepo, movimientoStockRepo, configSvc, catalogoSvc)
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoStockRepo)
	ventaSvc := service.NewVentaService(
		ventaRepo, productoRepo, movimientoStockRepo,
		catalogoSvc, configSvc, encolador,
		cfg.StockAlertThreshold, infra.GenerarComprobanteVenta,
	)
	estadisticasSvc := service.NewEstadisticasService(ventaRepo, usuarioRepo)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	estadisticasH := handler.NewEstadisticasHandler(estadisticasSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	configuracionH := handler.NewConfiguracionHandler(configSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailCB, cache))
	r.GET("/v1/catalogo", catalogoH.Listar)

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(ctx), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		todos := middleware.RequireRole(model.RolAdmin, model.RolVendedor)
		admin := middleware.RequireRole(model.RolAdmin)

		v1.GET("/auth/me", authH.Me)
		v1.PUT("/auth/password", authH.CambiarPassword)

		v1.GET("/productos", todos, productosH.Listar)
		v1.GET("/productos/:id", todos, productosH.ObtenerPorID)
		v1.GET("/productos/:id/historial-precios", todos, productosH.HistorialPrecios)
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
			prods.POST("/recalcular-precios", productosH.RecalcularPrecios)
		}

		ventas := v1.Group("/ventas", todos)
		{
			ventas.POST("", ventasH.Crear)
			ventas.GET("", ventasH.Listar)
			ventas.GET("/:id", ventasH.ObtenerPorID)
			ventas.PUT("/:id", ventasH.Actualizar)
			ventas.POST("/:id/completar", ventasH.Completar)
			ventas.POST("/:id/cancelar", ventasH.Cancelar)
			ventas.GET("/:id/comprobante", ventasH.Comprobante)
			ventas.DELETE("/:id", admin, ventasH.Eliminar)
		}

		inv := v1.Group("/inventario", todos)
		{
			inv.GET("/stock-bajo", inventarioH.StockBajo)
			inv.GET("/movimientos", admin, inventarioH.ListarMovimientos)
		}

		est := v1.Group("/estadisticas")
		{
			est.GET("", admin, estadisticasH.Resumen)
			est.GET("/mensual", admin, estadisticasH.Mensual)
			est.GET("/vendedores", admin, estadisticasH.Vendedores)
			est.GET("/vendedores/:id", todos, estadisticasH.Vendedor)
			est.GET("/mias", todos, estadisticasH.Mias)
		}

		v1.GET("/categorias", todos, categoriasH.Listar)
		categorias := v1.Group("/categorias", admin)
		{
			categorias.POST("", categoriasH.Crear)
			categorias.PUT("/:id", categoriasH.Actualizar)
			categorias.DELETE("/:id", categoriasH.Desactivar)
		}

		v1.GET("/configuracion", todos, configuracionH.Obtener)
		v1.PUT("/configuracion", admin, configuracionH.Actualizar)

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
