package service

import "errors"

// Error taxonomy of the reconciliation engine. All of these are fatal: the
// whole computation fails and no partial balances or ledger are returned.
// The only soft failure is a missing tesouraria table, which the repository
// already reports as an empty slice.
var (
	// ErrPeriodoInvalido rejects a custom window whose start is after its end,
	// or bounds that cannot be parsed.
	ErrPeriodoInvalido = errors.New("período inválido")

	// ErrMovimentoInvalido rejects malformed movement records (unknown kind,
	// non-positive amount, transfer without destination). Invalid data is
	// never coerced into a best-guess balance.
	ErrMovimentoInvalido = errors.New("movimento inválido")

	// ErrArredondamentoInconsistente signals bruto − taxa ≠ liquido beyond the
	// 1-cent tolerance. This is a programming-error class, raised rather than
	// silently adjusted.
	ErrArredondamentoInconsistente = errors.New("arredondamento inconsistente")
)
