package domain

// Contratos da decisão de admissão (admitir/rejeitar) por cliente.

import "time"

// Key identifica o cliente dono do bucket (normalmente o IP de origem).
type Key string

// Limiter decide se uma ação do cliente pode acontecer agora.
//
// A implementação típica é token-bucket (ex.: golang.org/x/time/rate), mas o
// contrato não exige isso. Allow não pode bloquear: rejeição é imediata,
// nunca enfileirada.
type Limiter interface {
	Allow() bool
}

// LimiterStore é a zona compartilhada de buckets: devolve (criando sob
// demanda, com bucket cheio) o limiter da chave. Implementações podem manter
// cache com TTL de inatividade para limitar memória.
type LimiterStore interface {
	Get(Key) Limiter
}

// Decision é o resultado da admissão de uma requisição.
type Decision struct {
	Allowed bool
	// RetryAfter é a sugestão para o header Retry-After quando rejeitar.
	// Zero significa "sem recomendação".
	RetryAfter time.Duration
}
