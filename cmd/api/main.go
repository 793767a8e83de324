package main

import (
	"expvar"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/glueful/payvia/internal/auth"
	"github.com/glueful/payvia/internal/db"
	"github.com/glueful/payvia/internal/gateway"
	"github.com/glueful/payvia/internal/payments"
	"github.com/glueful/payvia/internal/ratelimiter"
	"github.com/glueful/payvia/internal/store"
)

var version = "1.0.0"

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), zapcore.InfoLevel)

	return zap.New(core).Sugar(), nil
}

func envString(key, fallback string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
		log.Printf("invalid %s, defaulting to %d", key, fallback)
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
		log.Printf("invalid %s, defaulting to %v", key, fallback)
	}
	return fallback
}

// loadGatewayConfig assembles the immutable gateway configuration from the
// environment. Stripe and Flutterwave are configurable but have no bound
// driver yet; resolving them reports the missing driver explicitly.
func loadGatewayConfig() gateway.Config {
	return gateway.Config{
		DefaultGateway:  envString("PAYVIA_DEFAULT_GATEWAY", "paystack"),
		StoreRawPayload: envBool("PAYVIA_STORE_RAW_PAYLOAD", true),
		Gateways: map[string]gateway.GatewayConfig{
			"paystack": {
				Enabled:   envBool("PAYVIA_PAYSTACK_ENABLED", true),
				Driver:    "paystack",
				SecretKey: envString("PAYVIA_PAYSTACK_SECRET_KEY", os.Getenv("PAYSTACK_SECRET_KEY")),
				BaseURL:   envString("PAYVIA_PAYSTACK_BASE_URL", "https://api.paystack.co"),
				Timeout:   time.Duration(envInt("PAYVIA_PAYSTACK_TIMEOUT", 15)) * time.Second,
			},
			"stripe": {
				Enabled:   envBool("PAYVIA_STRIPE_ENABLED", false),
				Driver:    "stripe",
				SecretKey: os.Getenv("PAYVIA_STRIPE_SECRET_KEY"),
			},
			"flutterwave": {
				Enabled:   envBool("PAYVIA_FLUTTERWAVE_ENABLED", false),
				Driver:    "flutterwave",
				SecretKey: os.Getenv("PAYVIA_FLUTTERWAVE_SECRET_KEY"),
			},
		},
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config{
		addr: envString("ADDR", ":8080"),
		env:  envString("ENV", "development"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    envInt("DB_MAX_CONNS", 30),
			maxIdleTime: envString("DB_MAX_IDLE_TIME", "15m"),
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				secret: os.Getenv("AUTH_TOKEN_SECRET"),
				exp:    time.Hour * 24 * 3, // 3 days
				iss:    "payvia",
			},
		},
		rateLimiter: ratelimiter.Config{
			RequestsPerTimeFrame: envInt("RATELIMITER_REQUESTS_COUNT", 60),
			TimeFrame:            time.Minute,
			Enabled:              envBool("RATE_LIMITER_ENABLED", true),
		},
	}

	logger, err := NewLogger()
	if err != nil {
		log.Fatalf("error creating logger: %v", err)
	}
	defer logger.Sync()

	pool, err := db.New(cfg.db.addr, int32(cfg.db.maxConns), cfg.db.maxIdleTime)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	storage := store.NewStorage(pool)

	gatewayCfg := loadGatewayConfig()
	registry := gateway.NewRegistry(gatewayCfg)

	engine := payments.NewEngine(registry, storage, payments.Config{
		DefaultGateway:  gatewayCfg.DefaultGateway,
		StoreRawPayload: gatewayCfg.StoreRawPayload,
	}, logger)

	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.exp,
		cfg.auth.token.iss,
		cfg.auth.token.iss,
	)

	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	app := &application{
		config:        cfg,
		store:         storage,
		engine:        engine,
		logger:        logger,
		authenticator: jwtAuthenticator,
		rateLimiter:   rateLimiter,
	}

	// Metrics collected at /v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		stat := pool.Stat()
		return map[string]any{
			"total_conns":    stat.TotalConns(),
			"idle_conns":     stat.IdleConns(),
			"acquired_conns": stat.AcquiredConns(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
