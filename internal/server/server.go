// Package server boots the application: configuration, MongoDB, Redis,
// object storage, migrations, and the HTTP listener.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/zaika/app/controllers"
	"github.com/shashiranjanraj/zaika/app/repositories"
	"github.com/shashiranjanraj/zaika/app/routes"
	"github.com/shashiranjanraj/zaika/app/services"
	"github.com/shashiranjanraj/zaika/config"
	"github.com/shashiranjanraj/zaika/database/migrations"
	"github.com/shashiranjanraj/zaika/pkg/cache"
	"github.com/shashiranjanraj/zaika/pkg/database"
	"github.com/shashiranjanraj/zaika/pkg/logger"
	"github.com/shashiranjanraj/zaika/pkg/metrics"
	"github.com/shashiranjanraj/zaika/pkg/middleware"
	"github.com/shashiranjanraj/zaika/pkg/reqid"
	"github.com/shashiranjanraj/zaika/pkg/response"
	"github.com/shashiranjanraj/zaika/pkg/router"
	"github.com/shashiranjanraj/zaika/pkg/storage"
)

// logSink is the async MongoDB log handler, if enabled. Closed on
// shutdown so buffered entries are flushed.
var logSink *logger.MongoHandler

// Boot loads configuration and connects every backing service. MongoDB
// is required; Redis and S3 degrade to no-cache and local disk.
func Boot() error {
	if err := config.Load(); err != nil {
		return err
	}

	if err := database.Connect(); err != nil {
		return err
	}

	if name := config.MongoLogCollection(); name != "" {
		h, err := logger.NewMongoHandler(database.Collection(name))
		if err != nil {
			return err
		}
		logSink = h
		logger.EnableMongoSink(h)
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, catalog cache disabled", "error", err)
	}

	storage.Connect()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrations.Run(ctx, database.DB); err != nil {
		return err
	}

	return nil
}

// Start boots the application and serves HTTP until SIGINT/SIGTERM.
func Start() error {
	if err := Boot(); err != nil {
		return err
	}
	defer shutdownBackends()

	r := buildRouter(newControllers(mongoDeps()))

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// RouteIndex builds the router against in-memory repositories and returns
// the named routes. Used by the route:list command; touches no backends.
func RouteIndex() []router.RouteInfo {
	r := buildRouter(newControllers(deps{
		users:  repositories.NewMockUserRepository(),
		foods:  repositories.NewMockFoodRepository(),
		orders: repositories.NewMockOrderRepository(),
	}))
	return r.Routes()
}

// deps are the repository implementations behind the service layer.
type deps struct {
	users  repositories.UserRepository
	foods  repositories.FoodRepository
	orders repositories.OrderRepository
}

func mongoDeps() deps {
	return deps{
		users:  repositories.NewMongoUserRepository(database.Collection("users")),
		foods:  repositories.NewMongoFoodRepository(database.Collection("foods")),
		orders: repositories.NewMongoOrderRepository(database.Collection("orders")),
	}
}

func newControllers(d deps) routes.Controllers {
	authService := services.NewAuthService(d.users)
	userService := services.NewUserService(d.users)
	foodService := services.NewFoodService(d.foods)
	orderService := services.NewOrderService(d.orders, d.foods)

	return routes.Controllers{
		Auth:         controllers.NewAuthController(authService),
		Users:        controllers.NewUserController(userService),
		Foods:        controllers.NewFoodController(foodService),
		Orders:       controllers.NewOrderController(orderService),
		Uploads:      controllers.NewUploadController(),
		Authenticate: middleware.Auth(authService.Resolve),
	}
}

func buildRouter(c routes.Controllers) *router.Router {
	r := router.New()

	// Global middleware stack, outermost to innermost:
	//  1. Prometheus metrics: outermost for accurate total latency
	//  2. Recovery: catches panics before they kill the goroutine
	//  3. Request ID: inject unique ID before anything logs
	//  4. Logger: logs request_id from context
	//  5. CORS: set CORS headers
	//  6. Rate limiter: reject abusers early
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(200, time.Minute))

	// Prometheus scrape endpoint, no auth.
	r.HandleFunc("/metrics", metrics.Handler())

	r.Get("/health", "health", func(w http.ResponseWriter, req *http.Request) {
		if err := database.Ping(req.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		response.Success(w, map[string]string{"status": "up"})
	})

	routes.RegisterAPI(r, c)
	return r
}

func shutdownBackends() {
	if logSink != nil {
		logSink.Close()
	}
	cache.Close()
	if err := database.Disconnect(); err != nil {
		logger.Error("database disconnect", "error", err)
	}
}
