package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"frontdoor/middleware/ratelimit"
	"frontdoor/middleware/ratelimit/domain"
	"frontdoor/middleware/ratelimit/infra"
	"frontdoor/server"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// .env é opcional; variáveis já exportadas têm precedência
	_ = godotenv.Load()

	cfg, err := readConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	body, err := server.LoadBody(cfg.staticFile)
	if err != nil {
		log.Fatalf("static body error: %v", err)
	}

	// zona única: os dois listeners de conteúdo consomem dos mesmos buckets
	store := infra.NewStore(cfg.rateRPS, cfg.rateBurst,
		infra.WithIdleTTL(cfg.rateIdleTTL),
	)

	var statsStore domain.StatsStore
	if cfg.rateStatsEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.rateStatsRedisAddr,
			Password: cfg.rateStatsRedisPassword,
			DB:       cfg.rateStatsRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			log.Fatalf("redis stats ping error: %v", err)
		}

		statsStore = infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.rateStatsPrefix),
			infra.WithStatsTTL(cfg.rateStatsTTL),
			infra.WithStatsBucket(cfg.rateStatsBucket),
			infra.WithStatsTrackKeys(cfg.rateStatsTrackKeys),
		)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	store.StartJanitor(ctx)

	content := func(endpoint string) http.Handler {
		h := server.ContentHandler(body)
		h = ratelimit.ConcurrencyMiddleware(ratelimit.ConcurrencyOptions{
			Max:            cfg.concurrencyMax,
			RejectStatus:   http.StatusServiceUnavailable,
			AcquireTimeout: cfg.concurrencyTimeout,
		})(h)
		h = ratelimit.Middleware(ratelimit.Options{
			Store:               store,
			Stats:               statsStore,
			Endpoint:            endpoint,
			TrustXForwardedFor:  cfg.trustXFF,
			RejectStatus:        http.StatusTooManyRequests,
			RetryAfter:          cfg.retryAfter,
			AddRateLimitHeaders: cfg.addHeaders,
		})(h)
		return h
	}

	httpSrv := server.New(cfg.listenHTTP, content(server.EndpointHTTP))
	tlsSrv := server.New(cfg.listenTLS, content(server.EndpointHTTPS))
	tlsSrv.TLSConfig = server.TLSConfig()
	rejectSrv := server.New(cfg.listenReject, server.RejectHandler())

	errCh := make(chan error, 3)
	serve := func(name string, fn func() error) {
		go func() {
			if err := fn(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- errors.New(name + ": " + err.Error())
			}
		}()
	}
	serve("http listener", httpSrv.ListenAndServe)
	serve("tls listener", func() error {
		return tlsSrv.ListenAndServeTLS(cfg.tlsCertFile, cfg.tlsKeyFile)
	})
	serve("reject listener", rejectSrv.ListenAndServe)

	log.Printf("front door listening: http=%s tls=%s reject=%s", cfg.listenHTTP, cfg.listenTLS, cfg.listenReject)
	log.Printf("rate: rps=%.3f burst=%d idleTTL=%s trustXFF=%v", cfg.rateRPS, cfg.rateBurst, cfg.rateIdleTTL, cfg.trustXFF)
	log.Printf("rate-stats: enabled=%v redisAddr=%q bucket=%q ttl=%s trackKeys=%v", cfg.rateStatsEnabled, cfg.rateStatsRedisAddr, cfg.rateStatsBucket, cfg.rateStatsTTL, cfg.rateStatsTrackKeys)
	log.Printf("concurrency: max=%d acquireTimeout=%s", cfg.concurrencyMax, cfg.concurrencyTimeout)

	select {
	case <-ctx.Done():
		log.Printf("shutdown signal received")
	case err := <-errCh:
		log.Printf("listener error: %v", err)
		cancel()
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	for _, srv := range []*http.Server{httpSrv, tlsSrv, rejectSrv} {
		_ = srv.Shutdown(shutdownCtx)
	}
}

type config struct {
	listenHTTP   string
	listenTLS    string
	listenReject string

	staticFile  string
	tlsCertFile string
	tlsKeyFile  string

	rateRPS     float64
	rateBurst   int
	rateIdleTTL time.Duration
	trustXFF    bool
	retryAfter  time.Duration
	addHeaders  bool

	concurrencyMax     int
	concurrencyTimeout time.Duration

	rateStatsEnabled       bool
	rateStatsRedisAddr     string
	rateStatsRedisPassword string
	rateStatsRedisDB       int
	rateStatsPrefix        string
	rateStatsTTL           time.Duration
	rateStatsBucket        string
	rateStatsTrackKeys     bool
}

func readConfig() (config, error) {
	cfg := config{}
	cfg.listenHTTP = getenvDefault("LISTEN_HTTP", ":8080")
	cfg.listenTLS = getenvDefault("LISTEN_TLS", ":8443")
	cfg.listenReject = getenvDefault("LISTEN_REJECT", ":8081")

	cfg.staticFile = os.Getenv("STATIC_FILE")
	cfg.tlsCertFile = getenvDefault("TLS_CERT_FILE", "certs/server.crt")
	cfg.tlsKeyFile = getenvDefault("TLS_KEY_FILE", "certs/server.key")

	cfg.rateRPS = getenvFloatDefault("RATE_RPS", 5)
	cfg.rateBurst = getenvIntDefault("RATE_BURST", 10)
	cfg.rateIdleTTL = getenvDurationDefault("RATE_IDLE_TTL", 15*time.Minute)
	cfg.trustXFF = getenvBoolDefault("TRUST_XFF", false)
	cfg.retryAfter = getenvDurationDefault("RETRY_AFTER", 1*time.Second)
	cfg.addHeaders = getenvBoolDefault("ADD_RATELIMIT_HEADERS", false)

	cfg.concurrencyMax = getenvIntDefault("CONCURRENCY_MAX", 0)
	cfg.concurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", 0)

	cfg.rateStatsEnabled = getenvBoolDefault("RATE_STATS_ENABLED", false)
	cfg.rateStatsRedisAddr = getenvDefault("RATE_STATS_REDIS_ADDR", "")
	cfg.rateStatsRedisPassword = os.Getenv("RATE_STATS_REDIS_PASSWORD")
	cfg.rateStatsRedisDB = getenvIntDefault("RATE_STATS_REDIS_DB", 0)
	cfg.rateStatsPrefix = getenvDefault("RATE_STATS_PREFIX", "frontdoor:stats")
	cfg.rateStatsTTL = getenvDurationDefault("RATE_STATS_TTL", 24*time.Hour)
	cfg.rateStatsBucket = getenvDefault("RATE_STATS_BUCKET", "minute")
	cfg.rateStatsTrackKeys = getenvBoolDefault("RATE_STATS_TRACK_KEYS", false)

	if cfg.rateRPS <= 0 {
		return config{}, errors.New("RATE_RPS must be > 0")
	}
	if cfg.rateBurst <= 0 {
		return config{}, errors.New("RATE_BURST must be > 0")
	}
	if cfg.concurrencyMax < 0 {
		return config{}, errors.New("CONCURRENCY_MAX must be >= 0")
	}
	if strings.TrimSpace(cfg.tlsCertFile) == "" || strings.TrimSpace(cfg.tlsKeyFile) == "" {
		return config{}, errors.New("TLS_CERT_FILE and TLS_KEY_FILE are required")
	}
	if cfg.rateStatsEnabled && strings.TrimSpace(cfg.rateStatsRedisAddr) == "" {
		return config{}, errors.New("RATE_STATS_REDIS_ADDR is required when RATE_STATS_ENABLED=true")
	}
	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
