package router

import (
	"time"

	"filialpos/internal/config"
	"filialpos/internal/handler"
	"filialpos/internal/middleware"
	"filialpos/internal/model"
	"filialpos/internal/repository"
	"filialpos/internal/service"
	"filialpos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis.
// rdb may be nil: cache, job queue and locks are then disabled.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Production(), cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	filialRepo := repository.NewFilialRepository(db)
	armazemRepo := repository.NewArmazemRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	produtoRepo := repository.NewProdutoEstoqueRepository(db)
	movimentoRepo := repository.NewMovimentoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)
	vendaRepo := repository.NewVendaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	dispatcher := worker.NewDispatcher(rdb)

	authSvc := service.NewAuthService(usuarioRepo, cfg)
	filialSvc := service.NewFilialService(filialRepo)
	armazemSvc := service.NewArmazemService(armazemRepo, filialRepo, produtoRepo)
	categoriaSvc := service.NewCategoriaService(categoriaRepo, produtoRepo)
	clienteSvc := service.NewClienteService(clienteRepo)
	estoqueSvc := service.NewEstoqueService(produtoRepo, armazemRepo, categoriaRepo, movimentoRepo, rdb,
		time.Duration(cfg.SubstituicaoLockSeconds)*time.Second)
	vendaSvc := service.NewVendaService(vendaRepo, produtoRepo, movimentoRepo, clienteRepo, dispatcher, rdb, cfg.NomeLoja)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	filiaisH := handler.NewFiliaisHandler(filialSvc)
	armazensH := handler.NewArmazensHandler(armazemSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	estoqueH := handler.NewEstoqueHandler(estoqueSvc)
	vendasH := handler.NewVendasHandler(vendaSvc)
	consultaH := handler.NewConsultaPrecosHandler(produtoRepo, rdb, time.Duration(cfg.PrecoCacheTTLMinutes)*time.Minute)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(20), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check, no auth
	r.GET("/v1/preco/:armazem_id/:codigo", consultaH.PorCodigo)

	// Protected routes. Every role reads; data is scoped to the caller's
	// filial in the services.
	todos := middleware.RequireRole(model.RoleAdmin, model.RoleAfiliado, model.RoleVendedor)
	gestores := middleware.RequireRole(model.RoleAdmin, model.RoleAfiliado)
	soAdmin := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		filiais := v1.Group("/filiais")
		{
			filiais.GET("", todos, filiaisH.Listar)
			filiais.GET("/:id", todos, filiaisH.ObterPorID)
			filiais.POST("", soAdmin, filiaisH.Criar)
			filiais.PUT("/:id", soAdmin, filiaisH.Atualizar)
			filiais.DELETE("/:id", soAdmin, filiaisH.Excluir)
		}

		armazens := v1.Group("/armazens")
		{
			armazens.GET("", todos, armazensH.Listar)
			armazens.POST("", gestores, armazensH.Criar)
			armazens.PUT("/:id", gestores, armazensH.Atualizar)
			armazens.DELETE("/:id", gestores, armazensH.Excluir)
		}

		categorias := v1.Group("/categorias")
		{
			categorias.GET("", todos, categoriasH.Listar)
			categorias.POST("", gestores, categoriasH.Criar)
			categorias.DELETE("/:id", gestores, categoriasH.Excluir)
		}

		estoque := v1.Group("/estoque")
		{
			estoque.GET("", todos, estoqueH.Listar)
			estoque.GET("/exportar", todos, estoqueH.Exportar)
			estoque.GET("/:id", todos, estoqueH.ObterPorID)
			estoque.GET("/:id/movimentos", todos, estoqueH.ListarMovimentos)
			estoque.POST("", gestores, estoqueH.Criar)
			estoque.PATCH("/:id", gestores, estoqueH.Atualizar)
			estoque.DELETE("/:id", gestores, estoqueH.Excluir)
			estoque.DELETE("", gestores, estoqueH.ExcluirPorCategoria)
			estoque.PUT("/armazem", gestores, estoqueH.SubstituirPorArmazem)
			estoque.POST("/importar", gestores, estoqueH.Importar)
		}

		clientes := v1.Group("/clientes", todos)
		{
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.ObterPorID)
			clientes.POST("", clientesH.Criar)
			clientes.PUT("/:id", clientesH.Atualizar)
			clientes.DELETE("/:id", gestores, clientesH.Excluir)
		}

		vendas := v1.Group("/vendas", todos)
		{
			vendas.GET("", vendasH.Listar)
			vendas.GET("/:id", vendasH.ObterPorID)
			vendas.GET("/:id/recibo", vendasH.Recibo)
			vendas.POST("", vendasH.Registrar)
		}

		usuarios := v1.Group("/usuarios", gestores)
		{
			usuarios.GET("", usuariosH.Listar)
			usuarios.POST("", usuariosH.Criar)
			usuarios.PUT("/:id", usuariosH.Atualizar)
			usuarios.DELETE("/:id", usuariosH.Excluir)
		}
	}

	// Swagger UI, only outside production
	if !cfg.Production() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
