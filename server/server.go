package server

import (
	"crypto/tls"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Nomes dos endpoints, usados como rótulo nas estatísticas de decisão.
const (
	EndpointHTTP   = "http"
	EndpointHTTPS  = "https"
	EndpointReject = "reject"
)

// ContentHandler monta o handler dos listeners de conteúdo: qualquer GET/HEAD
// devolve o corpo estático. Os middlewares (rate limit, concorrência) entram
// na frente, na ordem recebida.
func ContentHandler(body []byte, mws ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	for _, mw := range mws {
		r.Use(mw)
	}

	serve := func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if req.Method != http.MethodHead {
			_, _ = w.Write(body)
		}
	}
	r.Get("/*", serve)
	r.Head("/*", serve)
	return r
}

// RejectHandler é o listener de rejeição incondicional: 403 para qualquer
// método e caminho, sem corpo. Não toca em nenhum estado compartilhado,
// então tráfego aqui nunca interfere nos buckets dos outros listeners.
func RejectHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
}

// TLSConfig fixa o piso em TLS 1.2: versões mais antigas morrem no handshake,
// antes de qualquer decisão de admissão (handshake falho não consome token).
func TLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
}

// New cria o http.Server de um listener com os timeouts padrão do front door.
func New(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
}
