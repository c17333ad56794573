// Package infra traz as implementações concretas da zona de admissão
// (token-bucket via x/time/rate), do semáforo de concorrência e dos stores
// de estatística (memória e Redis).
package infra
