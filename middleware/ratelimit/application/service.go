package application

import (
	"time"

	"frontdoor/middleware/ratelimit/domain"
)

// Service aplica a regra de admissão: busca o bucket do cliente na zona e
// consome (ou não) um token.
//
// Não sabe nada de HTTP (status/headers); só devolve a decisão.
type Service struct {
	Store      domain.LimiterStore
	RetryAfter time.Duration
}

// Decide admite ou rejeita a próxima requisição da chave.
//
// Sem Store configurado tudo é admitido (endpoint sem rate limit). A rejeição
// não consome token: quem rejeita é a ausência de token, não a decisão.
func (s Service) Decide(key domain.Key) domain.Decision {
	if s.Store == nil {
		return domain.Decision{Allowed: true}
	}
	if s.RetryAfter <= 0 {
		s.RetryAfter = 1 * time.Second
	}

	lim := s.Store.Get(key)
	if lim == nil {
		return domain.Decision{Allowed: true}
	}
	if lim.Allow() {
		return domain.Decision{Allowed: true}
	}
	return domain.Decision{Allowed: false, RetryAfter: s.RetryAfter}
}
