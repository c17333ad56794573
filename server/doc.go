// Package server monta os três listeners do front door:
//
//   - conteúdo em texto claro, com rate limit por IP
//   - conteúdo atrás de TLS (1.2+), mesmo corpo e MESMA zona de buckets
//   - rejeição incondicional (403 para qualquer método/caminho)
//
// O corpo estático é carregado uma vez na subida e nunca muda; os handlers
// recebem zona e corpo por injeção, sem estado global.
package server
