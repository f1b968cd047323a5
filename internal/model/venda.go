package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venda is the settlement parent of one or more Pagamentos.
// Estado: "pendente" | "finalizada" | "cancelada"
// Only pagamentos whose venda is "finalizada" enter the fechamento.
type Venda struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroTicket int       `gorm:"index"`
	Estado       string    `gorm:"type:varchar(20);not null;default:'pendente'"`
	CreatedAt    time.Time

	Pagamentos []Pagamento `gorm:"foreignKey:VendaID"`
}

// Pagamento is one confirmed settlement of a venda in a single payment form.
// Forma is an open string ("dinheiro", "credito", "debito", "pix", "vale", …)
// so configuration-driven payment methods require no code change.
// Immutable once created — produced by the sales subsystem, read-only here.
type Pagamento struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID uuid.UUID `gorm:"type:uuid;index;not null"`
	Forma   string    `gorm:"type:varchar(30);not null;index"`
	// ValorBruto is the amount charged to the customer before processor fees.
	ValorBruto decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// TaxaPercentual is the processor fee rate; nil means 0%.
	TaxaPercentual *decimal.Decimal `gorm:"type:decimal(5,2)"`
	// ValorLiquidoInformado is the pass-through net declared by the processor.
	// When present (and non-negative) it wins over TaxaPercentual.
	ValorLiquidoInformado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Parcelas              int              `gorm:"not null;default:1"`
	OcorridoEm            time.Time        `gorm:"index;not null"`
	// NumeroTicket mirrors vendas.numero_ticket for ledger display.
	// Populated by the repository join; never migrated or written.
	NumeroTicket *int `gorm:"->;-:migration"`
}
