package router

import (
	"time"

	"campus-events/internal/cache"
	"campus-events/internal/config"
	"campus-events/internal/database"
	"campus-events/internal/handler"
	"campus-events/internal/handler/auth"
	"campus-events/internal/handler/events"
	"campus-events/internal/handler/locations"
	"campus-events/internal/handler/tags"
	"campus-events/internal/metrics"
	"campus-events/internal/middleware"
	"campus-events/internal/worker"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"
)

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, db database.DB, cch cache.Cache, wp worker.Pool, cfg config.Config) {
	e.GET("/metrics", metrics.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// 健康檢查
	api.GET("/ping", handler.PingHandler(db, cch))

	// 註冊與登入，依 IP 限速
	limiter := echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.Auth.RatePerSecond),
			Burst:     int(cfg.Auth.RatePerSecond) + 1,
			ExpiresIn: 3 * time.Minute,
		}),
	})
	apiAuth := api.Group("/auth", limiter)
	apiAuth.POST("/signup", auth.SignupHandler(db))
	apiAuth.POST("/login", auth.LoginHandler(db))

	// 活動，全部需要登入
	apiEvents := api.Group("/events", middleware.RequireAuth)
	apiEvents.GET("/", events.ListEventsHandler(db))
	apiEvents.GET("/mine", events.ListMyEventsHandler(db))
	apiEvents.POST("/create", events.CreateEventHandler(db, wp, cfg.Events.MaxPhotoBytes, metrics.EventsCreatedTotal))
	apiEvents.GET("/:event_id", events.GetEventHandler(db))
	apiEvents.PUT("/:event_id", events.EditEventHandler(db, wp, cfg.Events.MaxPhotoBytes))

	api.GET("/tags", tags.ListTagsHandler(db, cch, cfg.Redis.TagTTL), middleware.RequireAuth)
	api.POST("/tags", tags.CreateTagHandler(db, cch), middleware.RequireAdmin)

	api.GET("/locations/getAll", locations.GetAllHandler(db), middleware.RequireAuth)
}
