package repository

import (
	"context"
	"errors"

	"caixapos/internal/dto"
	"caixapos/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// FechamentoRepository is the event-source boundary of the reconciliation
// engine: three independent read-only range queries plus the thin write path
// for manual movements. All reads are side-effect-free and may run in
// parallel; the engine never mutates source rows.
type FechamentoRepository interface {
	// ListPagamentos returns pagamentos of finalized vendas in the window.
	// Errors here are fatal to the whole computation.
	ListPagamentos(ctx context.Context, periodo *dto.Periodo) ([]model.Pagamento, error)
	// ListMovimentosCaixa returns manual till movements in the window.
	// Errors here are fatal to the whole computation.
	ListMovimentosCaixa(ctx context.Context, periodo *dto.Periodo) ([]model.MovimentoCaixa, error)
	// ListMovimentosTesouraria returns treasury movements in the window.
	// Soft dependency: when the table is not provisioned it returns an empty
	// slice and no error, so the fechamento proceeds without treasury data.
	ListMovimentosTesouraria(ctx context.Context, periodo *dto.Periodo) ([]model.MovimentoTesouraria, error)

	CreateMovimentoCaixa(ctx context.Context, m *model.MovimentoCaixa) error
	CreateMovimentoTesouraria(ctx context.Context, m *model.MovimentoTesouraria) error
}

type fechamentoRepo struct{ db *gorm.DB }

func NewFechamentoRepository(db *gorm.DB) FechamentoRepository { return &fechamentoRepo{db: db} }

// rangeScope applies the half-open [inicio, fim) predicate on col.
// Uses >= / < (not DATE(col)) so the column index is usable.
func rangeScope(col string, periodo *dto.Periodo) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if periodo == nil {
			return q
		}
		return q.Where(col+" >= ? AND "+col+" < ?", periodo.Inicio, periodo.Fim)
	}
}

func (r *fechamentoRepo) ListPagamentos(ctx context.Context, periodo *dto.Periodo) ([]model.Pagamento, error) {
	var pagamentos []model.Pagamento
	err := r.db.WithContext(ctx).
		Select("pagamentos.*, vendas.numero_ticket AS numero_ticket").
		Joins("JOIN vendas ON vendas.id = pagamentos.venda_id AND vendas.estado = 'finalizada'").
		Scopes(rangeScope("pagamentos.ocorrido_em", periodo)).
		Order("pagamentos.ocorrido_em ASC").
		Find(&pagamentos).Error
	return pagamentos, err
}

func (r *fechamentoRepo) ListMovimentosCaixa(ctx context.Context, periodo *dto.Periodo) ([]model.MovimentoCaixa, error) {
	var movs []model.MovimentoCaixa
	err := r.db.WithContext(ctx).
		Scopes(rangeScope("ocorrido_em", periodo)).
		Order("ocorrido_em ASC").
		Find(&movs).Error
	return movs, err
}

func (r *fechamentoRepo) ListMovimentosTesouraria(ctx context.Context, periodo *dto.Periodo) ([]model.MovimentoTesouraria, error) {
	var movs []model.MovimentoTesouraria
	err := r.db.WithContext(ctx).
		Scopes(rangeScope("ocorrido_em", periodo)).
		Order("ocorrido_em ASC").
		Find(&movs).Error
	if tableNotProvisioned(err) {
		// Deployment without the tesouraria schema: distinguishable from
		// "no rows" at the driver level, but both mean "nothing to apply".
		return []model.MovimentoTesouraria{}, nil
	}
	return movs, err
}

func (r *fechamentoRepo) CreateMovimentoCaixa(ctx context.Context, m *model.MovimentoCaixa) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *fechamentoRepo) CreateMovimentoTesouraria(ctx context.Context, m *model.MovimentoTesouraria) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// tableNotProvisioned reports whether err is PostgreSQL undefined_table
// (SQLSTATE 42P01).
func tableNotProvisioned(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42P01"
}
