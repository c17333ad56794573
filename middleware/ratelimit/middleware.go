package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"frontdoor/middleware/ratelimit/application"
	"frontdoor/middleware/ratelimit/domain"
)

// KeyFunc extrai a identidade do cliente a partir da requisição.
type KeyFunc func(r *http.Request) string

type Options struct {
	Store domain.LimiterStore
	Stats domain.StatsStore

	// Endpoint rotula os eventos de estatística com o listener que decidiu
	// (ex.: "http", "https").
	Endpoint string

	KeyFn               KeyFunc
	KeyHeader           string
	TrustXForwardedFor  bool
	RejectStatus        int
	RetryAfter          time.Duration
	AddRateLimitHeaders bool
}

type rateInfo interface {
	RPS() float64
	Burst() int
}

// DefaultKeyFunc monta a extração padrão: header explícito, depois o primeiro
// IP do X-Forwarded-For (se confiável), por fim o host do RemoteAddr.
func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			// primeiro IP do X-Forwarded-For = cliente original
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				ip := strings.TrimSpace(strings.Split(xff, ",")[0])
				if ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

// Middleware aplica a admissão por cliente antes do próximo handler.
// Rejeição vira RejectStatus (429 por padrão) + Retry-After, imediata,
// sem fila e sem consumir token.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.RetryAfter == 0 {
		opts.RetryAfter = 1 * time.Second
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}

	svc := application.Service{
		Store:      opts.Store,
		RetryAfter: opts.RetryAfter,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)

			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-Key", key)
				if ri, ok := opts.Store.(rateInfo); ok {
					w.Header().Set("X-RateLimit-RPS", formatFloat(ri.RPS()))
					w.Header().Set("X-RateLimit-Burst", strconv.Itoa(ri.Burst()))
				}
			}

			dec := svc.Decide(domain.Key(key))
			if opts.Stats != nil {
				// best-effort: estatística nunca derruba a requisição
				_ = opts.Stats.Record(r.Context(), domain.StatsEvent{
					Key:      domain.Key(key),
					Allowed:  dec.Allowed,
					Endpoint: opts.Endpoint,
					Method:   r.Method,
					Path:     r.URL.Path,
					At:       time.Now(),
				})
			}
			if !dec.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(dec.RetryAfter.Seconds())))
				http.Error(w, http.StatusText(opts.RejectStatus), opts.RejectStatus)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// formatFloat sem notação científica para os valores comuns de RPS.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
