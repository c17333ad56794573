// Package domain define os contratos do controle de admissão por cliente.
//
// Nada aqui depende de net/http nem de implementações concretas (token bucket,
// redis, etc.); a intenção é testar as regras isoladas e poder trocar a infra
// sem mexer na decisão.
package domain
