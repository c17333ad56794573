package domain

import (
	"context"
	"time"
)

// StatsEvent registra uma decisão de admissão.
//
// Endpoint identifica qual listener decidiu (ex.: "http", "https"); Method e
// Path são strings genéricas, sem amarração com net/http.
//
// Cuidado com cardinalidade: gravar Key/Path sem controle explode o número de
// chaves em uma base como Redis.
type StatsEvent struct {
	Key     Key
	Allowed bool

	Endpoint string
	Method   string
	Path     string

	At time.Time
}

// StatsStore persiste estatísticas de decisão.
//
// Implementações podem gravar em Redis, memória, etc. O chamador trata erro
// como best-effort: estatística nunca derruba requisição.
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
