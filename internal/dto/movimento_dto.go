package dto

import "github.com/shopspring/decimal"

// MovimentoCaixaRequest registers a manual till movement (always "dinheiro").
type MovimentoCaixaRequest struct {
	SessaoID string          `json:"sessao_id"  validate:"required,uuid"`
	Tipo     string          `json:"tipo"       validate:"required,oneof=sangria suprimento"`
	Valor    decimal.Decimal `json:"valor"      validate:"required,gt=0"`
	Motivo   *string         `json:"motivo"`
}

// MovimentoTesourariaRequest registers an inter-form transfer or outflow.
// FormaDestino is required only for tipo=transferencia (checked in the service,
// since the rule is conditional on Tipo).
type MovimentoTesourariaRequest struct {
	Tipo         string          `json:"tipo"          validate:"required,oneof=transferencia pagamento_conta retirada_lucro retirada"`
	FormaOrigem  string          `json:"forma_origem"  validate:"required,min=1"`
	FormaDestino *string         `json:"forma_destino"`
	Valor        decimal.Decimal `json:"valor"         validate:"required,gt=0"`
	Motivo       *string         `json:"motivo"`
	ContaID      *string         `json:"conta_id"`
}

// MovimentoResponse echoes the stored movement id.
type MovimentoResponse struct {
	ID string `json:"id"`
}
