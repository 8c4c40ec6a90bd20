package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"

	"github.com/2beens/mm2kbench/internal/auth"
	"github.com/2beens/mm2kbench/internal/blobstore"
	"github.com/2beens/mm2kbench/internal/config"
	"github.com/2beens/mm2kbench/internal/db"
	"github.com/2beens/mm2kbench/internal/middleware"
	"github.com/2beens/mm2kbench/internal/mm2k"
	"github.com/2beens/mm2kbench/internal/profiles"
	"github.com/2beens/mm2kbench/internal/quotes"
	"github.com/2beens/mm2kbench/internal/telemetry/metrics"
	"github.com/2beens/mm2kbench/internal/telemetry/tracing"
	"github.com/2beens/mm2kbench/pkg"
)

const (
	apiPrefix   = "/api"
	adminPrefix = apiPrefix + "/admin"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config          *config.Config
	dbPool          *pgxpool.Pool
	redisClient     *redis.Client
	profilesService *profiles.Service
	quotesManager   *quotes.Manager

	authService  *auth.Service
	loginChecker *auth.LoginChecker

	jobs *cron.Cron

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	AdminCodeHash           string
	AdminSecret             string
	RedisPassword           string
	PostgresPassword        string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	var dbPool *pgxpool.Pool
	var collectors []prometheus.Collector
	if cfg.BlobBackend == blobstore.BackendPostgres {
		var err error
		dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		collectors = append(collectors, db.NewPoolCollector(dbPool, cfg.PostgresDBName))
	}

	promRegistry := metrics.SetupPrometheus(collectors...)
	metricsManager := metrics.NewManager("backend", "mm2k", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0,
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "mm2k-backend", rdb)
	if err != nil {
		return nil, err
	}

	store, err := blobstore.New(ctx, blobstore.NewStoreParams{
		Backend:        cfg.BlobBackend,
		RootPath:       cfg.BlobRootPath,
		DB:             dbPool,
		Redis:          rdb,
		CacheSizeBytes: cfg.BlobCacheSizeBytes,
	})
	if err != nil {
		return nil, fmt.Errorf("new blob store: %w", err)
	}
	if cached, ok := store.(*blobstore.CachedStore); ok {
		promRegistry.MustRegister(metrics.NewHitRateGauge("backend", "mm2k", "blob_cache_hit_rate", cached.HitRate))
	}

	program := mm2k.DefaultProgram()
	if cfg.ProgramPath != "" {
		program, err = mm2k.LoadProgramFile(cfg.ProgramPath)
		if err != nil {
			return nil, fmt.Errorf("load program: %w", err)
		}
		log.Infof("using program from: %s", cfg.ProgramPath)
	}

	quotesManager, err := quotes.NewManagerFromFile(cfg.QuotesCsvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create quote manager: %w", err)
	}

	signer, err := auth.NewSigner(params.AdminSecret)
	if err != nil {
		return nil, fmt.Errorf("admin token signer: %w", err)
	}
	ttl := cfg.AdminSessionTTL.Duration
	authService := auth.NewAuthService(&auth.Admin{CodeHash: params.AdminCodeHash}, signer, ttl, rdb)

	return &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,
		dbPool:      dbPool,
		redisClient: rdb,
		profilesService: profiles.NewService(
			profiles.NewRepo(store),
			mm2k.NewEngine(program),
		),
		quotesManager: quotesManager,

		authService:  authService,
		loginChecker: auth.NewLoginChecker(signer, ttl, rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("mm2k-router"))

	api := r.PathPrefix(apiPrefix).Subrouter()
	if s.config.ApiRateLimitAllowedPerMin > 0 {
		api.Use(middleware.RateLimit(
			redis_rate.NewLimiter(s.redisClient),
			"api",
			s.config.ApiRateLimitAllowedPerMin,
			s.metricsManager,
		))
	}

	api.HandleFunc("/health", s.handleHealth).Methods("GET").Name("health")

	quotesHandler := quotes.NewHandler(s.quotesManager)
	quotesHandler.SetupRoutes(api)

	profilesHandler := profiles.NewHandler(
		s.profilesService,
		s.quotesManager,
		s.metricsManager,
		s.config.PublicBaseURL,
	)

	admin := api.PathPrefix("/admin").Subrouter()
	loginRouter := admin.NewRoute().Subrouter()
	if s.config.LoginRateLimitAllowedPerMin > 0 {
		loginRouter.Use(middleware.RateLimit(
			redis_rate.NewLimiter(s.redisClient),
			"admin-login",
			s.config.LoginRateLimitAllowedPerMin,
			s.metricsManager,
		))
	}
	auth.NewHandler(s.authService, s.metricsManager).SetupRoutes(loginRouter)
	profilesHandler.SetupAdminRoutes(admin)

	profilesHandler.SetupRoutes(api)

	// preflight for every path, answered by the cors middleware.
	// a Methods() matcher here would turn every unknown path into a 405
	r.MatcherFunc(func(req *http.Request, _ *mux.RouteMatch) bool {
		return req.Method == http.MethodOptions
	}).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Name("preflight")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteJSONError(w, "Not found", http.StatusNotFound)
	})

	authMiddleware := middleware.NewAuthMiddlewareHandler(adminPrefix, s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	pkg.WriteJSON(w, map[string]string{
		"status":  "ok",
		"version": s.versionInfo,
	}, http.StatusOK)
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.jobs = s.scheduleJobs(ctx)
	s.jobs.Start()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.jobs != nil {
		s.jobs.Stop()
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	var err error
	if s.httpServer != nil {
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown http server: %w", shutdownErr))
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if shutdownErr := s.metricsHttpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown metrics server: %w", shutdownErr))
		}
		log.Warnln("metrics server shut down")
	}

	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	if s.redisClient != nil {
		if closeErr := s.redisClient.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close redis client: %w", closeErr))
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	return err
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
	}
}
