package router

import (
	"time"

	"github.com/matiasfgonzalez/negocios-app-sub001/internal/config"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/handler"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/middleware"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/model"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/repository"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/service"
	"github.com/matiasfgonzalez/negocios-app-sub001/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	negocioRepo := repository.NewNegocioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	pagoRepo := repository.NewPagoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	negocioSvc := service.NewNegocioService(negocioRepo)
	productoSvc := service.NewProductoService(productoRepo, negocioRepo)
	pedidoSvc := service.NewPedidoService(pedidoRepo, productoRepo, negocioRepo, dispatcher)
	suscripcionSvc := service.NewSuscripcionService(usuarioRepo, pagoRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	negociosH := handler.NewNegociosHandler(negocioSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	suscripcionH := handler.NewSuscripcionHandler(suscripcionSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/registro", authH.Registrar)
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Public catalog — customers browse without a session
	r.GET("/v1/negocios", negociosH.Listar)
	r.GET("/v1/negocios/:id", negociosH.ObtenerPorID)
	r.GET("/v1/productos", productosH.Listar)
	r.GET("/v1/productos/:id", productosH.ObtenerPorID)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	suscripcionMW := middleware.RequireSuscripcionActiva(suscripcionSvc)
	v1 := r.Group("/v1", jwtMW)
	{
		rolCliente := string(model.RolCliente)
		rolProp := string(model.RolPropietario)
		rolAdmin := string(model.RolAdministrador)

		// Usuarios
		v1.POST("/usuarios/hacerse-propietario", middleware.RequireRole(rolCliente), authH.HacersePropietario)
		usuarios := v1.Group("/usuarios", middleware.RequireRole(rolAdmin))
		{
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PATCH("/:id/rol", authH.CambiarRol)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
			usuarios.PATCH("/:id/reactivar", authH.ReactivarUsuario)
		}

		// Negocio del propietario — writes require an active subscription
		v1.GET("/negocios/mio", middleware.RequireRole(rolProp), negociosH.ObtenerPropio)
		mio := v1.Group("/negocios", middleware.RequireRole(rolProp), suscripcionMW)
		{
			mio.POST("", negociosH.Crear)
			mio.PUT("/mio", negociosH.Actualizar)
			mio.PUT("/mio/horarios", negociosH.ConfigurarHorarios)
			mio.PUT("/mio/rangos-envio", negociosH.ConfigurarRangos)
			mio.DELETE("/mio", negociosH.Desactivar)
		}

		// Productos — owner writes, gated by subscription
		prods := v1.Group("/productos", middleware.RequireRole(rolProp), suscripcionMW)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.PATCH("/:id/stock", productosH.AjustarStock)
			prods.DELETE("/:id", productosH.Desactivar)
		}

		// Pedidos — any authenticated role; the service enforces per-order permissions
		v1.POST("/pedidos", pedidosH.Crear)
		v1.GET("/pedidos", pedidosH.Listar)
		v1.GET("/pedidos/:id", pedidosH.ObtenerPorID)
		v1.PATCH("/pedidos/:id/estado", pedidosH.CambiarEstado)
		v1.DELETE("/pedidos/:id", pedidosH.Eliminar)

		// Suscripción
		v1.GET("/suscripcion/estado", middleware.RequireRole(rolProp, rolAdmin), suscripcionH.ObtenerEstado)
		v1.POST("/suscripcion/pagos", middleware.RequireRole(rolProp, rolAdmin), suscripcionH.RegistrarPago)
		v1.GET("/suscripcion/pagos", middleware.RequireRole(rolProp, rolAdmin), suscripcionH.ListarPagos)
		v1.GET("/suscripcion/pagos/pendientes", middleware.RequireRole(rolAdmin), suscripcionH.ListarPendientes)
		v1.PATCH("/suscripcion/pagos/:id/revision", middleware.RequireRole(rolAdmin), suscripcionH.RevisarPago)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
