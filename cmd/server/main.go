package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social_feed/internal/pkg/config"
	"social_feed/internal/pkg/middleware"
	"social_feed/internal/pkg/registry"
	"social_feed/pkg/cache"
	"social_feed/pkg/database"
	"social_feed/pkg/logger"
	"social_feed/pkg/metrics"
	"social_feed/pkg/response"

	_ "social_feed/docs"
	// 领域模块通过 init 注册
	_ "social_feed/internal/domain/asset"
	_ "social_feed/internal/domain/post"
	_ "social_feed/internal/domain/user"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// @title Social Feed API
// @version 1.0
// @description 帖子、评论、点赞与图片托管
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	configFile := pflag.StringP("config", "c", "", "config file, defaults to ./configs/config[.APP_ENV].yaml")
	pflag.Parse()

	config.LoadConfig(*configFile)
	cfg := &config.GlobalConfig

	if err := logger.InitLogger(cfg.App.Env, cfg.App.LogLevel); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Log

	db, err := database.InitDatabase(cfg.Database, cfg.App.Debug, log)
	if err != nil {
		log.Fatal("Failed to connect database", zap.Error(err))
	}
	rdb, err := database.InitRedis(cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect redis", zap.Error(err))
	}
	defer rdb.Close()

	collector := metrics.NewCollector(prometheus.DefaultRegisterer)

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(
		middleware.RecoveryMiddleware(),
		middleware.TraceMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.MetricsMiddleware(collector),
		middleware.CORSMiddleware(cfg.Server.AllowOrigins),
		middleware.RateLimitMiddleware(middleware.NewIPRateLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst)),
	)

	r.GET("/health", health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	moduleCtx := &registry.ModuleContext{
		Config:  cfg,
		DB:      db,
		Cache:   cache.NewRedisCache(rdb, "social-feed:"),
		Router:  r,
		Logger:  log,
		Metrics: collector,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		log.Fatal("Failed to init modules", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting", zap.String("port", cfg.Server.Port), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}

// health 存活探针，使用统一信封
func health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}
