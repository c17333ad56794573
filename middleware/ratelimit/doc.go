// Package ratelimit fornece os adapters HTTP (net/http) do controle de
// admissão do front door: rate limit por cliente e limite de concorrência.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (decisão admit/reject, acquire/timeout)
//   - infra: implementações concretas (token bucket, semáforo, stats)
//   - ratelimit (este pacote): middlewares HTTP + extração de chave +
//     tradução da decisão para status/headers
//
// Fluxo em um listener com rate limit:
//
//  1. Extrai a chave do cliente (IP de origem, XFF ou header)
//  2. Chama a camada application para obter a decisão
//  3. Se rejeitado, responde 429 com Retry-After (sem consumir token)
//  4. Se admitido, chama o próximo handler (ex.: o corpo estático)
//
// O binário frontdoor (cmd/frontdoor) controla tudo por variáveis de
// ambiente, como RATE_RPS, RATE_BURST e CONCURRENCY_MAX.
package ratelimit
