package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/authservice/modules/account"
	"github.com/dmitrymomot/authservice/pkg/config"
	"github.com/dmitrymomot/authservice/pkg/cookie"
	"github.com/dmitrymomot/authservice/pkg/email"
	"github.com/dmitrymomot/authservice/pkg/httpserver"
	"github.com/dmitrymomot/authservice/pkg/jwt"
	"github.com/dmitrymomot/authservice/pkg/logger"
	"github.com/dmitrymomot/authservice/pkg/mongo"
	"github.com/dmitrymomot/authservice/pkg/password"
	"github.com/dmitrymomot/authservice/pkg/pg"
	"github.com/dmitrymomot/authservice/pkg/ratelimiter"
	"github.com/dmitrymomot/authservice/pkg/redis"
	"github.com/dmitrymomot/authservice/pkg/requestid"
)

const serviceName = "authservice"

// appConfig holds the settings owned by the binary. Storage, email, cookie,
// rate limit and HTTP settings are loaded by their own packages.
type appConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"168h"`

	ClientURL                   string `env:"CLIENT_URL" envDefault:"http://localhost:5173"`
	StorageDriver               string `env:"STORAGE_DRIVER" envDefault:"mongo"`
	RateLimitStore              string `env:"RATE_LIMIT_STORE" envDefault:"memory"`
	NonDisclosingForgotPassword bool   `env:"FORGOT_PASSWORD_NON_DISCLOSING" envDefault:"false"`
	BcryptCost                  int    `env:"BCRYPT_COST" envDefault:"10"`

	RequestTimeout   time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	ReadinessTimeout time.Duration `env:"HEALTH_READINESS_TIMEOUT" envDefault:"3s"`
}

func (c appConfig) production() bool {
	return strings.EqualFold(c.Env, logger.EnvProduction) || strings.EqualFold(c.Env, "prod")
}

func main() {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, serviceName),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	}
	log := logger.New(opts...)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("service stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	sessions, err := jwt.NewFromString(cfg.JWTSecret, jwt.WithTTL(cfg.JWTTTL), jwt.WithIssuer(serviceName))
	if err != nil {
		return fmt.Errorf("session signer: %w", err)
	}

	var cookieCfg cookie.Config
	if err := config.Load(&cookieCfg); err != nil {
		return err
	}
	cookies, err := cookie.New(cookieCfg, cookie.WithSecure(cookieCfg.Secure || cfg.production()))
	if err != nil {
		return fmt.Errorf("session cookie: %w", err)
	}

	hasher, err := password.NewBcrypt(password.WithCost(cfg.BcryptCost))
	if err != nil {
		return fmt.Errorf("password hasher: %w", err)
	}

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()
	checks := map[string]httpserver.Check{}

	store, closeStore, err := openStorage(ctx, cfg.StorageDriver, log, checks)
	if err != nil {
		return err
	}
	closers = append(closers, closeStore)

	limiter, closeLimiter, err := openLimiter(ctx, cfg.RateLimitStore, checks)
	if err != nil {
		return err
	}
	closers = append(closers, closeLimiter)

	sender, err := openSender(log)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svcOpts := []account.ServiceOption{
		account.WithClientURL(cfg.ClientURL),
		account.WithLogger(log),
		account.WithMetrics(account.NewMetrics(reg)),
	}
	if cfg.NonDisclosingForgotPassword {
		svcOpts = append(svcOpts, account.WithNonDisclosingForgotPassword())
	}
	svc := account.NewService(
		store,
		hasher,
		sessions,
		account.NewEmailNotifier(sender, account.DefaultVerificationTTL, account.DefaultResetTTL),
		svcOpts...,
	)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, cfg.ReadinessTimeout, checks))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.With(middleware.Timeout(cfg.RequestTimeout)).Mount("/api/v1/auth", account.Router(svc, account.RouterConfig{
		Sessions: sessions,
		Cookies:  cookies,
		Limiter:  limiter,
		Logger:   log,
	}))

	var httpCfg httpserver.Config
	if err := config.Load(&httpCfg); err != nil {
		return err
	}
	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(addr net.Addr) {
			log.Info("accepting requests",
				slog.String("addr", addr.String()),
				slog.String("storage", cfg.StorageDriver),
				slog.String("rate_limit_store", cfg.RateLimitStore),
			)
		}),
		httpserver.WithStopHook(func() { log.Info("http server stopped") }),
	)

	return srv.Run(ctx, r)
}

func openStorage(ctx context.Context, driver string, log *slog.Logger, checks map[string]httpserver.Check) (account.Storage, func(), error) {
	switch strings.ToLower(driver) {
	case "mongo", "mongodb":
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			return nil, nil, err
		}
		client, err := mongo.New(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error("failed to disconnect from mongodb", logger.Error(err))
			}
		}

		store := account.NewMongoStorage(client.Database(cfg.Database))
		if err := store.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
		checks["mongodb"] = mongo.Healthcheck(client)
		log.Info("using mongodb storage", slog.String("database", cfg.Database))
		return store, closeFn, nil

	case "postgres", "pg":
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.Migrate(ctx, pool, account.Migrations, account.MigrationsDir, cfg, log); err != nil {
			pool.Close()
			return nil, nil, err
		}
		checks["postgres"] = pg.Healthcheck(pool)
		log.Info("using postgres storage")
		return account.NewPostgresStorage(pool), pool.Close, nil

	case "memory":
		log.Warn("using in-memory storage, accounts are lost on restart")
		return account.NewMemoryStorage(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORAGE_DRIVER %q", driver)
	}
}

func openLimiter(ctx context.Context, kind string, checks map[string]httpserver.Check) (*ratelimiter.Bucket, func(), error) {
	var cfg ratelimiter.Config
	if err := config.Load(&cfg); err != nil {
		return nil, nil, err
	}

	switch strings.ToLower(kind) {
	case "redis":
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return nil, nil, err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() { _ = client.Close() }

		bucket, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(client, ratelimiter.WithKeyPrefix(serviceName+":ratelimit:")), cfg)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		checks["redis"] = redis.Healthcheck(client)
		return bucket, closeFn, nil

	case "memory", "":
		store := ratelimiter.NewMemoryStore()
		bucket, err := ratelimiter.NewBucket(store, cfg)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		return bucket, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown RATE_LIMIT_STORE %q", kind)
	}
}

func openSender(log *slog.Logger) (email.EmailSender, error) {
	var cfg email.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	if cfg.PostmarkEnabled() {
		return email.NewPostmarkClient(cfg)
	}
	log.Warn("postmark is not configured, writing emails to disk", slog.String("dir", cfg.DevDir))
	return email.NewDevSender(cfg.DevDir), nil
}
