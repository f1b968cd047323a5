package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cash movement kinds. Always denominated in the "dinheiro" form.
const (
	MovimentoSangria    = "sangria"    // manual withdrawal from the till
	MovimentoSuprimento = "suprimento" // manual deposit into the till
)

// MovimentoCaixa is an immutable manual till event.
// Movements are NEVER modified or deleted — corrections create inverse entries.
type MovimentoCaixa struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessaoID uuid.UUID `gorm:"type:uuid;index;not null"`
	// Tipo: "sangria" | "suprimento"
	Tipo       string          `gorm:"type:varchar(20);not null"`
	Valor      decimal.Decimal `gorm:"type:decimal(12,2);not null"` // always > 0
	Motivo     *string
	OcorridoEm time.Time `gorm:"index;not null"`
	CreatedAt  time.Time
}
