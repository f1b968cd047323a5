package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Periodo is a resolved half-open query window [Inicio, Fim).
// A nil *Periodo means unbounded ("todos").
type Periodo struct {
	Inicio time.Time
	Fim    time.Time
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// FechamentoRequest selects the reconciliation window.
// Filtro "personalizado" uses Inicio/Fim (RFC3339); if either is missing the
// window degrades to unbounded, but inicio > fim is rejected.
type FechamentoRequest struct {
	Filtro    string `form:"filtro" validate:"omitempty,oneof=hoje semana mes todos personalizado"`
	Inicio    string `form:"inicio"`
	Fim       string `form:"fim"`
	Atualizar bool   `form:"atualizar"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PeriodoResponse struct {
	Inicio string `json:"inicio"`
	Fim    string `json:"fim"`
}

// SaldoForma is the per-payment-form running total.
// Invariant: liquido = bruto - taxa (plus manual/treasury deltas on liquido only).
type SaldoForma struct {
	Bruto   decimal.Decimal `json:"bruto"`
	Taxa    decimal.Decimal `json:"taxa"`
	Liquido decimal.Decimal `json:"liquido"`
}

// LancamentoResponse is one signed line of the audit ledger.
// Tipo: entrada_venda | sangria | suprimento | transferencia | pagamento_conta |
// retirada_lucro | retirada
type LancamentoResponse struct {
	ID           string          `json:"id"`
	Tipo         string          `json:"tipo"`
	Forma        string          `json:"forma"`
	FormaDestino *string         `json:"forma_destino,omitempty"`
	Descricao    string          `json:"descricao"`
	ValorBruto   decimal.Decimal `json:"valor_bruto"`
	ValorTaxa    decimal.Decimal `json:"valor_taxa"`
	// Valor is the signed net effect on the originating form's balance.
	Valor        decimal.Decimal `json:"valor"`
	NumeroTicket *int            `json:"numero_ticket,omitempty"`
	OcorridoEm   string          `json:"ocorrido_em"`
}

// FechamentoResponse is the full reconciliation snapshot. It is recomputed
// from the source events on every request — nothing here is persisted.
type FechamentoResponse struct {
	Periodo *PeriodoResponse `json:"periodo"` // nil when unbounded
	// Saldos maps each payment form seen in the window to its totals.
	Saldos map[string]SaldoForma `json:"saldos"`
	// Pre-treasury till deltas, exposed separately for reporting.
	TotalSangrias    decimal.Decimal      `json:"total_sangrias"`
	TotalSuprimentos decimal.Decimal      `json:"total_suprimentos"`
	Livro            []LancamentoResponse `json:"livro"` // ≤200 entries, newest first
}
