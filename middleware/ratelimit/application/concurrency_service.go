package application

import (
	"context"
	"time"

	"frontdoor/middleware/ratelimit/domain"
)

// ConcurrencyService concentra a aquisição/liberação de vagas com timeout
// opcional, sem saber nada sobre HTTP.
type ConcurrencyService struct {
	Pool           domain.SlotPool
	AcquireTimeout time.Duration
}

// Acquire tenta adquirir uma vaga.
//   - AcquireTimeout <= 0: espera até conseguir (ou o ctx encerrar).
//   - AcquireTimeout > 0: espera no máximo o timeout.
//
// Retorna (release, ok); com ok=false nenhuma vaga foi adquirida.
func (s ConcurrencyService) Acquire(ctx context.Context) (func(), bool) {
	if s.Pool == nil {
		return func() {}, true
	}

	if s.AcquireTimeout <= 0 {
		return s.Pool.Acquire(ctx)
	}

	acqCtx, cancel := context.WithTimeout(ctx, s.AcquireTimeout)
	defer cancel()
	return s.Pool.Acquire(acqCtx)
}
