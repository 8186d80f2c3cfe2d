package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"

	"github.com/2beens/portfolio/internal/auth"
	"github.com/2beens/portfolio/internal/config"
	"github.com/2beens/portfolio/internal/contact"
	"github.com/2beens/portfolio/internal/db"
	"github.com/2beens/portfolio/internal/mail"
	"github.com/2beens/portfolio/internal/media"
	"github.com/2beens/portfolio/internal/middleware"
	"github.com/2beens/portfolio/internal/misc"
	"github.com/2beens/portfolio/internal/project"
	"github.com/2beens/portfolio/internal/telemetry/metrics"
	"github.com/2beens/portfolio/internal/telemetry/tracing"
)

// MediaFilesPrefix is where the disk media backend serves stored files from.
const MediaFilesPrefix = "/media/"

type Server struct {
	config      *config.Config
	versionInfo string

	httpServer        *http.Server
	metricsHttpServer *http.Server

	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	verifier       *auth.Verifier
	authHandler    *auth.Handler
	projectHandler *project.Handler
	contactHandler *contact.Handler
	mediaHandler   *media.Handler
	// set only with the disk media backend
	mediaFiles   http.Handler
	loginLimiter middleware.RequestRateLimiter

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	Secrets                 *config.Secrets
	VersionInfo             string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg, secrets := params.Config, params.Secrets

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "portfolio-backend")
	if err != nil {
		return nil, err
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DatabaseURL:    secrets.DatabaseURL,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		otelShutdown()
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := db.EnsureSchema(ctx, dbPool); err != nil {
		dbPool.Close()
		otelShutdown()
		return nil, err
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": "portfolio"},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: secrets.RedisPassword,
		DB:       0, // use default DB
	})
	rdb.AddHook(redisotel.NewTracingHook())

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	admin := &auth.Admin{
		Email:        secrets.AdminEmail,
		PasswordHash: secrets.AdminPasswordHash,
	}
	jwtSecret := []byte(secrets.JWTSecret)
	revocations := auth.NewRedisRevocationList(rdb)
	issuer := auth.NewIssuer(admin, jwtSecret, cfg.TokenIssuer, cfg.TokenTTL.Duration)

	s := &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,

		dbPool:      dbPool,
		redisClient: rdb,

		verifier:     auth.NewVerifier(jwtSecret, cfg.TokenIssuer, revocations),
		authHandler:  auth.NewHandler(issuer, revocations, metricsManager),
		loginLimiter: redis_rate.NewLimiter(rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	s.projectHandler = project.NewHandler(
		project.NewRepo(dbPool),
		project.NewListCache(cfg.ProjectsCacheTTL.Duration),
	)

	notifier := mail.NewSMTPNotifier(mail.SMTPParams{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: secrets.SMTPUser,
		Password: secrets.SMTPPass,
		To:       secrets.MailTo,
	})
	s.contactHandler = contact.NewHandler(contact.NewRepo(dbPool), notifier, metricsManager)

	uploader, err := s.newUploader(secrets)
	if err != nil {
		s.closeStores()
		otelShutdown()
		return nil, err
	}
	s.mediaHandler = media.NewHandler(uploader, cfg.MediaFolder, cfg.MaxUploadSize(), metricsManager)

	return s, nil
}

func (s *Server) newUploader(secrets *config.Secrets) (media.Uploader, error) {
	switch s.config.MediaBackend {
	case config.MediaBackendDisk:
		diskUploader, err := media.NewDiskUploader(s.config.MediaDiskRoot, s.config.MediaBaseURL)
		if err != nil {
			return nil, fmt.Errorf("new disk uploader: %w", err)
		}
		s.mediaFiles = http.StripPrefix(MediaFilesPrefix, http.FileServer(http.Dir(diskUploader.Root())))
		log.Debugf("media stored on disk: %s", diskUploader.Root())
		return diskUploader, nil
	case config.MediaBackendS3:
		log.Debugf("media stored in s3 bucket: %s", s.config.S3Bucket)
		return media.NewS3Uploader(media.S3Params{
			Bucket:          s.config.S3Bucket,
			Region:          s.config.S3Region,
			Endpoint:        s.config.S3Endpoint,
			UsePathStyle:    s.config.S3UsePathStyle,
			AccessKeyID:     secrets.S3AccessKeyID,
			SecretAccessKey: secrets.S3SecretAccessKey,
			PublicBaseURL:   s.config.MediaBaseURL,
		}), nil
	default:
		return nil, fmt.Errorf("unknown media backend: %s", s.config.MediaBackend)
	}
}

func (s *Server) publicRoutes() []string {
	var routes []string
	routes = append(routes, misc.PublicRoutes()...)
	routes = append(routes, auth.PublicRoutes()...)
	routes = append(routes, project.PublicRoutes()...)
	routes = append(routes, contact.PublicRoutes()...)
	if s.mediaFiles != nil {
		routes = append(routes, "media-files")
	}
	return routes
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()

	misc.NewHandler(s.versionInfo).SetupRoutes(r)

	var loginLimiter mux.MiddlewareFunc
	if s.loginLimiter != nil {
		// slow down password guessing on the login endpoint
		loginLimiter = middleware.RateLimit(
			s.loginLimiter,
			"login",
			s.config.LoginRateLimitAllowedPerMin,
			s.metricsManager,
		)
	}
	s.authHandler.SetupRoutes(r.PathPrefix("/api/admin").Subrouter(), loginLimiter)
	s.projectHandler.SetupRoutes(r.PathPrefix("/api/projects").Subrouter())
	s.contactHandler.SetupRoutes(r.PathPrefix("/api/contact").Subrouter())
	s.mediaHandler.SetupRoutes(r.PathPrefix("/api").Subrouter())

	if s.mediaFiles != nil {
		r.PathPrefix(MediaFilesPrefix).Handler(s.mediaFiles).Methods("GET", "OPTIONS").Name("media-files")
	}

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		s.verifier,
		s.metricsManager,
		s.publicRoutes()...,
	)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(otelmux.Middleware("portfolio-router"))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:           router,
		Addr:              ipAndPort,
		WriteTimeout:      time.Minute,
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
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

	s.metricsManager.GaugeLifeSignal.Set(1)
}

// GracefulShutdown stops accepting requests, waits for pending contact
// notifications and then releases the stores.
func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

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

	if s.contactHandler != nil {
		log.Debugln("waiting for pending contact notifications ...")
		if waitErr := s.contactHandler.WaitNotifications(ctx); waitErr != nil {
			err = multierr.Append(err, waitErr)
		}
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

	err = multierr.Append(err, s.closeStores())

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	return err
}

func (s *Server) closeStores() error {
	var err error
	if s.redisClient != nil {
		if closeErr := s.redisClient.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close redis client: %w", closeErr))
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}
	return err
}
