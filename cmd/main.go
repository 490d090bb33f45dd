package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/todo-tracker/internal/facades"
	"github.com/sbilibin2017/todo-tracker/internal/handlers"
	jwtpkg "github.com/sbilibin2017/todo-tracker/internal/jwt"
	"github.com/sbilibin2017/todo-tracker/internal/logger"
	"github.com/sbilibin2017/todo-tracker/internal/middlewares"
	"github.com/sbilibin2017/todo-tracker/internal/repositories"
	"github.com/sbilibin2017/todo-tracker/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// config carries every setting the service needs, constructed once at
// startup and passed explicitly. There is no ambient settings global.
type config struct {
	AppHost  string
	AppPort  string
	LogLevel string

	PgHost         string
	PgPort         int
	PgUser         string
	PgPassword     string
	PgDB           string
	PgMaxOpenConns int
	PgMaxIdleConns int

	RedisHost         string
	RedisPort         int
	RedisDB           int
	RedisPassword     string
	RedisPoolSize     int
	RedisMinIdleConns int

	KafkaAddr  string
	KafkaTopic string

	JWTSecretKey   string
	JWTExpSecond   int
	ResetExpSecond int

	FrontendURL        string
	CORSAllowedOrigins []string

	Mail facades.MailConfig
}

// @title todo-tracker API
// @version 1.0.0
// @description Personal task-tracking service: authentication, todos with tags, admin account management
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns the
// application configuration.
func parseConfig(path string) (*config, error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}
	getEnvInt := func(key string, defaultValue int) (int, error) {
		return strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	}

	cfg := &config{}
	var err error

	// Application config
	cfg.AppHost = getEnv("APP_HOST", "localhost")
	cfg.AppPort = getEnv("APP_PORT", "8080")
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	cfg.PgHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.PgUser = getEnv("POSTGRES_USER", "user")
	cfg.PgPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.PgDB = getEnv("POSTGRES_DB", "database")
	if cfg.PgPort, err = getEnvInt("POSTGRES_PORT", 5432); err != nil {
		return nil, err
	}
	if cfg.PgMaxOpenConns, err = getEnvInt("POSTGRES_MAX_OPEN_CONNS", 16); err != nil {
		return nil, err
	}
	if cfg.PgMaxIdleConns, err = getEnvInt("POSTGRES_MAX_IDLE_CONNS", 8); err != nil {
		return nil, err
	}

	// Redis config
	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.RedisPort, err = getEnvInt("REDIS_PORT", 6379); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RedisPoolSize, err = getEnvInt("REDIS_POOL_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.RedisMinIdleConns, err = getEnvInt("REDIS_MIN_IDLE_CONNS", 2); err != nil {
		return nil, err
	}

	// Kafka config (optional; events are skipped when no broker is set)
	cfg.KafkaAddr = getEnv("KAFKA_ADDR", "")
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", "todo-events")

	// JWT config
	cfg.JWTSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if cfg.JWTExpSecond, err = getEnvInt("JWT_EXP_SECOND", 1800); err != nil {
		return nil, err
	}
	if cfg.ResetExpSecond, err = getEnvInt("RESET_TOKEN_EXP_SECOND", 900); err != nil {
		return nil, err
	}

	// Frontend / CORS config
	cfg.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:5173")
	cfg.CORSAllowedOrigins = strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"), ",")

	// Mail config (delivery is stubbed in development)
	cfg.Mail.Username = getEnv("MAIL_USERNAME", "noreply@example.com")
	cfg.Mail.Password = getEnv("MAIL_PASSWORD", "")
	cfg.Mail.From = getEnv("MAIL_FROM", "")
	cfg.Mail.Server = getEnv("MAIL_SERVER", "smtp.gmail.com")
	if cfg.Mail.Port, err = getEnvInt("MAIL_PORT", 587); err != nil {
		return nil, err
	}

	return cfg, nil
}

// run initializes the logger, database, Redis, optional Kafka writer,
// and HTTP server. It sets up routes, applies middleware, and handles
// graceful shutdown.
func run(ctx context.Context, cfg *config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.PgUser, cfg.PgPassword, cfg.PgHost, cfg.PgPort, cfg.PgDB)
	logger.Log.Infof("Connecting to PostgreSQL at %s:%d/%s", cfg.PgHost, cfg.PgPort, cfg.PgDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Fatal("PostgreSQL connection error:", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.PgMaxOpenConns)
	db.SetMaxIdleConns(cfg.PgMaxIdleConns)

	// Bounded-retry schema bootstrap; failure here is fatal.
	if err := repositories.InitSchema(ctx, db); err != nil {
		logger.Log.Fatal("database schema initialization failed:", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Fatal("Redis connection error:", err)
	}
	defer rdb.Close()

	// Optional Kafka writer for todo lifecycle events
	var kafkaWriter services.KafkaWriter
	if cfg.KafkaAddr != "" {
		w := &kafka.Writer{
			Addr:     kafka.TCP(cfg.KafkaAddr),
			Topic:    cfg.KafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer w.Close()
		kafkaWriter = w
		logger.Log.Infof("Kafka writer configured for %s topic %s", cfg.KafkaAddr, cfg.KafkaTopic)
	}

	// Initialize JWT service
	jwt := jwtpkg.New(
		jwtpkg.WithSecretKey(cfg.JWTSecretKey),
		jwtpkg.WithExpiration(time.Duration(cfg.JWTExpSecond)*time.Second),
		jwtpkg.WithResetExpiration(time.Duration(cfg.ResetExpSecond)*time.Second),
	)

	// Initialize repositories
	txGetter := middlewares.GetTxFromContext
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db, txGetter)
	todoReadRepo := repositories.NewTodoReadRepository(db, txGetter)
	todoWriteRepo := repositories.NewTodoWriteRepository(db, txGetter)
	tagWriteRepo := repositories.NewTagWriteRepository(db, txGetter)
	resetTokenRepo := repositories.NewResetTokenCacheRepository(rdb, time.Duration(cfg.ResetExpSecond)*time.Second)

	// Initialize services
	mailer := facades.NewDevMailFacade(cfg.Mail)
	authService := services.NewAuthService(userReadRepo, userWriteRepo, jwt)
	todoService := services.NewTodoService(todoReadRepo, todoWriteRepo, tagWriteRepo, kafkaWriter)
	adminService := services.NewAdminService(userReadRepo, userWriteRepo)
	resetService := services.NewPasswordResetService(
		userReadRepo, userWriteRepo, jwt, resetTokenRepo, mailer, cfg.FrontendURL)

	// Initialize handlers
	registerHandler := handlers.NewRegisterHandler(authService)
	loginHandler := handlers.NewLoginHandler(authService)
	verifyHandler := handlers.NewVerifyHandler(jwt, authService)
	healthzHandler := handlers.NewHealthzHandler()
	createTodoHandler := handlers.NewCreateTodoHandler(jwt, authService, todoService)
	listTodosHandler := handlers.NewListTodosHandler(jwt, authService, todoService)
	updateTodoHandler := handlers.NewUpdateTodoHandler(jwt, authService, todoService)
	deleteTodoHandler := handlers.NewDeleteTodoHandler(jwt, authService, todoService)
	resetRequestHandler := handlers.NewResetRequestHandler(resetService)
	resetConfirmHandler := handlers.NewResetConfirmHandler(resetService)
	adminListUsersHandler := handlers.NewAdminListUsersHandler(jwt, authService, adminService)
	adminUpdateUserHandler := handlers.NewAdminUpdateUserHandler(jwt, authService, adminService)
	adminDeleteUserHandler := handlers.NewAdminDeleteUserHandler(jwt, authService, adminService)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	r.Get("/healthz", healthzHandler)

	r.Route("/api", func(r chi.Router) {
		// Public auth routes
		r.Post("/auth/register", registerHandler)
		r.Post("/auth/login", loginHandler)
		r.Get("/auth/verify", verifyHandler)
		r.Post("/auth/request-reset", resetRequestHandler)
		r.Post("/auth/reset-password", resetConfirmHandler)

		// Protected todo routes with JWT middleware; mutations run in a
		// per-request transaction so todo and tag statements commit as one.
		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(jwt))
			r.Get("/todos", listTodosHandler)

			r.Group(func(r chi.Router) {
				r.Use(middlewares.TxMiddleware(db))
				r.Post("/todos", createTodoHandler)
				r.Put("/todos/{id}", updateTodoHandler)
				r.Delete("/todos/{id}", deleteTodoHandler)
			})
		})

		// Admin routes; the administrator role is re-checked against the
		// store inside the handlers.
		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(jwt))
			r.Get("/admin/users", adminListUsersHandler)
			r.Put("/admin/users/{id}", adminUpdateUserHandler)
			r.Delete("/admin/users/{id}", adminDeleteUserHandler)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.AppHost, cfg.AppPort)),
	))

	// CORS for the browser frontend
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept", "Authorization", "Origin"},
		ExposedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler: c.Handler(r),
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
