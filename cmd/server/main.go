// @title         travelinfo API
// @version       1.0
// @description   Credential service and restcountries proxy for the travel-info frontend.
// @BasePath      /api
// @schemes       http
// @host          localhost:8080
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Authorization token. Accepts "Bearer <JWT>" or "<JWT>".
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	swagger "github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"

	_ "github.com/artem13815/travelinfo/docs"

	// internal imports
	"github.com/artem13815/travelinfo/api/http"
	"github.com/artem13815/travelinfo/api/http/handlers"
	"github.com/artem13815/travelinfo/pkg/auth"
	"github.com/artem13815/travelinfo/pkg/config"
	"github.com/artem13815/travelinfo/pkg/country"
	"github.com/artem13815/travelinfo/pkg/country/restcountries"
	"github.com/artem13815/travelinfo/pkg/health"
	"github.com/artem13815/travelinfo/pkg/health/checkers"
	"github.com/artem13815/travelinfo/pkg/logging"
	"github.com/artem13815/travelinfo/pkg/ratelimit"
	"github.com/artem13815/travelinfo/pkg/repository/memory"
	mongorepo "github.com/artem13815/travelinfo/pkg/repository/mongo"
	pgrepo "github.com/artem13815/travelinfo/pkg/repository/postgres"
	"github.com/artem13815/travelinfo/pkg/security/jwt"
	"github.com/artem13815/travelinfo/pkg/storage/mongo"
	"github.com/artem13815/travelinfo/pkg/storage/postgres"
)

const (
	requestIDKey    = "requestid"
	shutdownTimeout = 10 * time.Second
	startupTimeout  = 30 * time.Second
)

func main() {
	// Load configuration from env/.env
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error(context.Background(), "server stopped", "error", err)
		os.Exit(1)
	}
}

// userStore is the selected repository plus the checker and cleanup that come with it.
type userStore struct {
	repo    auth.UserRepository
	checker health.Checker
	close   func()
}

func openUserStore(ctx context.Context, cfg config.Config, log logging.Logger) (userStore, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return userStore{}, fmt.Errorf("postgres connect: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return userStore{}, fmt.Errorf("postgres migrate: %w", err)
		}
		log.Info(ctx, "user store ready", "driver", cfg.StoreDriver)
		return userStore{
			repo:    pgrepo.NewUserRepository(pool),
			checker: checkers.NewPostgresChecker(pool),
			close:   pool.Close,
		}, nil

	case config.DriverMongo:
		client, err := mongo.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return userStore{}, fmt.Errorf("mongo connect: %w", err)
		}
		repo, err := mongorepo.NewUserRepository(ctx, client.Database(cfg.MongoDatabase))
		if err != nil {
			_ = client.Disconnect(context.Background())
			return userStore{}, fmt.Errorf("init mongo user repo: %w", err)
		}
		log.Info(ctx, "user store ready", "driver", cfg.StoreDriver, "database", cfg.MongoDatabase)
		return userStore{
			repo:    repo,
			checker: checkers.NewMongoChecker(client),
			close:   func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case config.DriverMemory:
		log.Warn(ctx, "using in-memory user store; accounts are lost on restart")
		return userStore{repo: memory.NewUserRepository(), close: func() {}}, nil
	}
	return userStore{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// limiterStorage returns redis-backed storage when REDIS_ADDR is set, so
// the auth limit is shared between replicas. nil selects Fiber's memory storage.
func limiterStorage(cfg config.Config) fiber.Storage {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	return ratelimit.NewRedisStorage(client, "travelinfo:limiter:")
}

func errorHandler(log logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error(c.UserContext(), "unhandled error", "path", c.Path(), "error", err)
		}
		return c.Status(code).JSON(fiber.Map{"message": err.Error()})
	}
}

func run(cfg config.Config, log logging.Logger) error {
	startCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	store, err := openUserStore(startCtx, cfg, log)
	if err != nil {
		return err
	}
	defer store.close()

	// Token generator and verifier share the secret
	ttl := time.Duration(cfg.JWTTTLMinutes) * time.Minute
	jwtGen := jwt.NewGenerator(cfg.JWTSecret, cfg.JWTIssuer, ttl)
	jwtVerifier := jwt.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)

	authUC := auth.NewAuthService(store.repo, jwtGen)

	// Country proxy
	countriesClient := restcountries.New(cfg.CountriesBaseURL, time.Duration(cfg.CountriesTimeoutSeconds)*time.Second)
	countryUC := country.NewService(countriesClient)

	// Health service: compose checkers
	var probes []health.Checker
	if store.checker != nil {
		probes = append(probes, store.checker)
	}
	readiness := health.NewService(probes...)

	storage := limiterStorage(cfg)
	if storage != nil {
		defer storage.Close()
	}

	app := fiber.New(fiber.Config{
		AppName:      "travelinfo",
		ErrorHandler: errorHandler(log),
	})
	app.Use(requestid.New(requestid.Config{ContextKey: requestIDKey}))
	app.Use(logging.RequestLogger(log, requestIDKey))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Register routes
	http.Register(app, http.Routes{
		Auth:        handlers.NewAuthHandler(authUC, log),
		Countries:   handlers.NewCountryHandler(countryUC, log),
		Health:      handlers.NewHealthHandler(readiness),
		RequireAuth: jwt.NewAuthMiddleware(jwtVerifier),
		AuthLimiter: ratelimit.PerIP(cfg.AuthRateLimit, time.Minute, storage),
	})

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	errCh := make(chan error, 1)
	go func() {
		log.Info(context.Background(), "HTTP server listening", "port", cfg.Port, "driver", cfg.StoreDriver)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info(context.Background(), "shutting down", "signal", sig.String())
	}

	ctx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
