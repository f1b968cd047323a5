package router

import (
	"time"

	"caixapos/internal/config"
	"caixapos/internal/handler"
	"caixapos/internal/infra"
	"caixapos/internal/middleware"
	"caixapos/internal/repository"
	"caixapos/internal/service"
	"caixapos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, metrics *infra.Metrics) *gin.Engine {
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
	fechamentoRepo := repository.NewFechamentoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	fechamentoSvc := service.NewFechamentoService(fechamentoRepo, rdb, cacheTTL, metrics)

	// Worker dispatcher — injected into the write path to warm snapshots
	dispatcher := worker.NewDispatcher(rdb)
	movimentoSvc := service.NewMovimentoService(fechamentoRepo, rdb, dispatcher, metrics)

	// ── Handlers ─────────────────────────────────────────────────────────────
	fechamentoH := handler.NewFechamentoHandler(fechamentoSvc)
	movimentosH := handler.NewMovimentosHandler(movimentoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Papéis: operador, gerente, administrador — declared per-endpoint
		v1.GET("/fechamento", middleware.RequirePapel("operador", "gerente", "administrador"), fechamentoH.Obter)
		v1.POST("/caixa/movimento", middleware.RequirePapel("operador", "gerente", "administrador"), movimentosH.RegistrarCaixa)
		v1.POST("/tesouraria/movimento", middleware.RequirePapel("gerente", "administrador"), movimentosH.RegistrarTesouraria)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
