package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Treasury movement kinds.
const (
	TesourariaTransferencia  = "transferencia"  // value moves between two forms
	TesourariaPagamentoConta = "pagamento_conta" // bill payment, money leaves the system
	TesourariaRetiradaLucro  = "retirada_lucro"  // profit withdrawal
	TesourariaRetirada       = "retirada"        // drawer withdrawal recorded as treasury
)

// MovimentoTesouraria is an inter-account transfer or one-way outflow between
// payment-form "accounts". FormaDestino is present only for transferencia.
// The backing table may legitimately not be provisioned in a deployment; the
// repository reports that as an empty result, never as an error.
type MovimentoTesouraria struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo string    `gorm:"type:varchar(30);not null"`
	// FormaOrigem / FormaDestino are open payment-form strings.
	FormaOrigem  string          `gorm:"type:varchar(30);not null"`
	FormaDestino *string         `gorm:"type:varchar(30)"`
	Valor        decimal.Decimal `gorm:"type:decimal(12,2);not null"` // always > 0
	Motivo       *string
	ContaID      *string   `gorm:"type:varchar(60)"` // bill reference for pagamento_conta
	OcorridoEm   time.Time `gorm:"index;not null"`
	CreatedAt    time.Time
}
