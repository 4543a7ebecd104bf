package main

import "errors"

// Erros terminais dos workflows de pedido. Cada chamada remota e de storage é
// mapeada exaustivamente para um deles antes de chegar na borda HTTP.
var (
	ErrProductNotFound        = errors.New("product not found")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrUpstreamUnavailable    = errors.New("inventory service unavailable")
	ErrOrderNotFound          = errors.New("order not found")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrOrderPersistFailed     = errors.New("failed to persist order")
	ErrInventoryUpdateFailed  = errors.New("failed to update inventory")

	// ErrConflict é interno ao par repositório/coordenador: o UPDATE com checagem
	// de versão não encontrou a linha na versão lida.
	ErrConflict = errors.New("order version conflict")
)
