// Package handlers serves the fish-sales REST API over a store.Store.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/fish_backend/appctx"
	"github.com/mmdatafocus/fish_backend/store"
	"github.com/mmdatafocus/fish_backend/utils"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the engine with the request middlewares and every route
// under /api. Extra middlewares (CORS, rate limiting) run before the routes.
func NewRouter(s store.Store, logger *logrus.Logger, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(CorrelationMiddleware())
	r.Use(RequestLogger(logger))
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())
	r.Use(extra...)

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	Register(r.Group("/api"), s)
	r.NoRoute(customNotFoundHandler)
	return r
}

func Register(api gin.IRouter, s store.Store) {
	api.GET("/fish-entries", ListFishEntriesHandler(s))
	api.POST("/fish-entries", AddFishEntriesHandler(s))
	api.DELETE("/fish-entries/:id", DeleteFishEntryHandler(s))

	api.GET("/orders", ListOrdersHandler(s))
	api.POST("/orders", CreateOrderHandler(s))
	api.GET("/orders/totals", TotalsHandler(s))
	api.PUT("/orders/:id", UpdateOrderStatusHandler(s))
}

// CorrelationMiddleware reuses the caller's correlation id or makes one,
// and echoes it on the response.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader(appctx.CorrelationHeader)
		ctx := c.Request.Context()
		if cid != "" {
			ctx = utils.SetCorrelationIdInContext(ctx, cid)
		} else {
			ctx, cid = utils.EnsureCorrelationId(ctx)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Header(appctx.CorrelationHeader, cid)
		c.Next()
	}
}

func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		logger.WithFields(logrus.Fields{
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"status":         c.Writer.Status(),
			"latency_ms":     time.Since(start).Milliseconds(),
			"correlation_id": cid,
		}).Info("request")
	}
}

// customErrorLogger logs only requests that recorded errors.
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}
