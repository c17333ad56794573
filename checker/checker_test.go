package checker

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"frontdoor/middleware/ratelimit"
	"frontdoor/middleware/ratelimit/infra"
	"frontdoor/server"
)

// frontDoor sobe os três listeners em processo, com a zona compartilhada,
// do mesmo jeito que o cmd/frontdoor monta em produção.
func frontDoor(t *testing.T, rps float64, burst int) (plain, secure, reject *httptest.Server) {
	t.Helper()

	store := infra.NewStore(rps, burst)
	body := []byte(server.DefaultBody)

	content := func(endpoint string) http.Handler {
		return server.ContentHandler(body, ratelimit.Middleware(ratelimit.Options{
			Store:    store,
			Endpoint: endpoint,
		}))
	}

	plain = httptest.NewServer(content(server.EndpointHTTP))
	t.Cleanup(plain.Close)

	secure = httptest.NewUnstartedServer(content(server.EndpointHTTPS))
	secure.TLS = server.TLSConfig()
	secure.StartTLS()
	t.Cleanup(secure.Close)

	reject = httptest.NewServer(server.RejectHandler())
	t.Cleanup(reject.Close)
	return plain, secure, reject
}

func fastConfig(plain, secure, reject *httptest.Server) Config {
	return Config{
		HTTPBase:      plain.URL,
		TLSBase:       secure.URL,
		RejectBase:    reject.URL,
		BurstRequests: 15,
		MaxRetries:    3,
		RetryDelay:    50 * time.Millisecond,
		DrainWait:     500 * time.Millisecond,
		Timeout:       2 * time.Second,
	}
}

func TestChecker_RunPassesAgainstConformingFrontDoor(t *testing.T) {
	// rate alto o bastante para reencher no DrainWait, burst baixo o
	// bastante para a rajada de 15 estourar
	plain, secure, reject := frontDoor(t, 20, 5)

	c := New(fastConfig(plain, secure, reject))
	if !c.Run() {
		t.Fatalf("expected all checks to pass")
	}
}

func TestChecker_RunFailsWhenRejectEndpointMisbehaves(t *testing.T) {
	plain, secure, _ := frontDoor(t, 20, 5)

	// endpoint de rejeição apontando para conteúdo: devolve 200, não 403
	cfg := fastConfig(plain, secure, plain)
	c := New(cfg)
	if c.Run() {
		t.Fatalf("expected run to fail when reject endpoint returns 200")
	}
}

func TestChecker_RunFailsWhenRateLimitNeverTriggers(t *testing.T) {
	// burst maior que a rajada: nunca aparece 429
	plain, secure, reject := frontDoor(t, 1000, 1000)

	c := New(fastConfig(plain, secure, reject))
	if c.Run() {
		t.Fatalf("expected run to fail without any 429")
	}
}

func TestChecker_WaitReadyGivesUpOnDeadServer(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close() // porta fechada de propósito

	c := New(Config{
		HTTPBase:   dead.URL,
		MaxRetries: 2,
		RetryDelay: 10 * time.Millisecond,
		Timeout:    200 * time.Millisecond,
	})
	if c.WaitReady() {
		t.Fatalf("expected WaitReady to give up")
	}
}

func TestChecker_CheckContentRejectsWrongBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("outra coisa"))
	}))
	defer srv.Close()

	c := New(Config{HTTPBase: srv.URL, Timeout: time.Second})
	if c.CheckContent() {
		t.Fatalf("expected content check to fail on wrong body")
	}
}
