// Package router assembles the Gin engine and mounts all module routes.
package router

import (
	"net/http"

	"github.com/Lugier/M-A-CRM-sub001/internal/config"
	apphttp "github.com/Lugier/M-A-CRM-sub001/internal/http"
	"github.com/Lugier/M-A-CRM-sub001/platform/httpkit"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// New builds the engine, applies the shared middleware stack and registers
// every module's routes.
func New(cfg *config.Config, log *logger.Logger, modules ...apphttp.Module) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestLogger(log))
	engine.Use(cors.New(corsConfig(cfg)))

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limiter := httpkit.NewIPRateLimiter(rate.Limit(20), 40, log)

	v1 := engine.Group("/api/v1")
	v1.Use(limiter.RateLimit())
	protected := v1.Group("")
	protected.Use(httpkit.ActorRequired(cfg.ActorTokenSecret))

	ctx := &apphttp.RouterContext{
		Engine:    engine,
		V1:        v1,
		Protected: protected,
	}

	for _, m := range modules {
		m.RegisterRoutes(ctx)
		log.Info("module routes registered", "module", m.Name())
	}

	return engine
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	if cfg.CORSAllowAll {
		corsCfg.AllowAllOrigins = true
		return corsCfg
	}
	corsCfg.AllowOrigins = cfg.CORSOrigins
	return corsCfg
}
