package infra

import (
	"sync"
	"time"

	"frontdoor/middleware/ratelimit/domain"

	"golang.org/x/time/rate"
)

// Store é a zona compartilhada de buckets: um token-bucket (x/time/rate) por
// chave, criado sob demanda já cheio, com varredura periódica de chaves
// inativas para manter a memória limitada.
//
// O mutex do Store cobre apenas lookup/insert no mapa; a decisão Allow roda
// no lock interno do rate.Limiter da chave, então clientes distintos não
// disputam entre si e requisições concorrentes do mesmo cliente são
// serializadas (refill + consumo atômicos).
type Store struct {
	mu           sync.Mutex
	entries      map[string]*storeEntry
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type storeEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type StoreOption func(*Store)

// WithIdleTTL define há quanto tempo uma chave precisa estar sem tráfego
// para ser removida na próxima varredura.
func WithIdleTTL(d time.Duration) StoreOption {
	return func(s *Store) { s.idleTTL = d }
}

// WithCleanupEvery define o intervalo da varredura do janitor (<= 0 desliga).
func WithCleanupEvery(d time.Duration) StoreOption {
	return func(s *Store) { s.cleanupEvery = d }
}

func NewStore(rps float64, burst int, opts ...StoreOption) *Store {
	s := &Store{
		entries:      make(map[string]*storeEntry),
		rps:          rate.Limit(rps),
		burst:        burst,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) RPS() float64                { return float64(s.rps) }
func (s *Store) Burst() int                  { return s.burst }
func (s *Store) CleanupEvery() time.Duration { return s.cleanupEvery }

// Len devolve o número de chaves vivas na zona.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Get implementa domain.LimiterStore.
func (s *Store) Get(key domain.Key) domain.Limiter {
	return s.GetString(string(key))
}

// GetString devolve o bucket da chave, criando com capacidade cheia na
// primeira requisição e marcando lastSeen a cada acesso.
func (s *Store) GetString(key string) *rate.Limiter {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[key] = &storeEntry{lim: lim, lastSeen: now}
	return lim
}

// Cleanup remove as chaves sem tráfego há mais de idleTTL.
func (s *Store) Cleanup() {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor dispara a goroutine de varredura periódica.
// Pare cancelando o contexto.
func (s *Store) StartJanitor(ctx DoneContext) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}

// DoneContext é o mínimo de context.Context que o janitor precisa.
// (Evita importar context e facilita reuso em lib.)
type DoneContext interface {
	Done() <-chan struct{}
}
