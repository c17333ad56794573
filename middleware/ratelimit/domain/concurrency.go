package domain

import "context"

// SlotPool representa um recurso de capacidade finita (ex.: requisições em
// voo no front door).
//
// Acquire bloqueia até conseguir vaga ou até o ctx encerrar. Quando adquire,
// a função de release deve ser chamada exatamente uma vez.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
}
