// Package application contém os casos de uso do front door: decidir a
// admissão de uma requisição e adquirir vaga de concorrência.
//
// Depende apenas do pacote domain; não conhece net/http.
package application
