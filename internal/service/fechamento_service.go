package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"caixapos/internal/dto"
	"caixapos/internal/infra"
	"caixapos/internal/model"
	"caixapos/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// FormaDinheiro is the payment form manual till movements are denominated in.
// Every other form is an open string — no enum, new forms need no code change.
const FormaDinheiro = "dinheiro"

const (
	cacheVersaoKey = "fechamento:versao"
)

var cem = decimal.NewFromInt(100)

// centavo is the 1-cent tolerance of the rounding assertion.
var centavo = decimal.New(1, -2)

type FechamentoService interface {
	// Fechamento recomputes the full reconciliation snapshot for the window
	// selected by req. There is no incremental path: req.Atualizar merely
	// bypasses the cache read, the computation is always from scratch.
	Fechamento(ctx context.Context, req dto.FechamentoRequest) (*dto.FechamentoResponse, error)
}

type fechamentoService struct {
	repo     repository.FechamentoRepository
	rdb      *redis.Client // nil disables caching (unit test mode)
	cacheTTL time.Duration
	metrics  *infra.Metrics // nil disables instrumentation
	agora    func() time.Time
}

func NewFechamentoService(repo repository.FechamentoRepository, rdb *redis.Client, cacheTTL time.Duration, metrics *infra.Metrics) FechamentoService {
	return &fechamentoService{
		repo:     repo,
		rdb:      rdb,
		cacheTTL: cacheTTL,
		metrics:  metrics,
		agora:    time.Now,
	}
}

// ── Fechamento ────────────────────────────────────────────────────────────────
// Pipeline: resolve periodo → 3 parallel reads → net fees → aggregate per
// forma → apply till movements → apply treasury → build livro.
// Read-only, idempotent: the same window over the same rows yields an
// identical snapshot every run.

func (s *fechamentoService) Fechamento(ctx context.Context, req dto.FechamentoRequest) (*dto.FechamentoResponse, error) {
	inicio := s.agora()
	if s.metrics != nil {
		defer func() { s.metrics.FechamentoDuracao.Observe(time.Since(inicio).Seconds()) }()
		s.metrics.FechamentosTotal.Inc()
	}

	periodo, err := s.resolverPeriodo(req)
	if err != nil {
		return nil, err
	}

	cacheKey := s.cacheKey(ctx, periodo)
	if cacheKey != "" && !req.Atualizar {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.FechamentoResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				if s.metrics != nil {
					s.metrics.FechamentoCacheHits.Inc()
				}
				return &resp, nil
			}
		}
	}

	// The three source reads are independent; issue them concurrently and
	// join before computing. Any fatal read error cancels the siblings and
	// discards partial results — partial balances would be silently wrong.
	var (
		pagamentos []model.Pagamento
		caixa      []model.MovimentoCaixa
		tesouraria []model.MovimentoTesouraria
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		pagamentos, err = s.repo.ListPagamentos(gctx, periodo)
		return err
	})
	g.Go(func() (err error) {
		caixa, err = s.repo.ListMovimentosCaixa(gctx, periodo)
		return err
	})
	g.Go(func() (err error) {
		tesouraria, err = s.repo.ListMovimentosTesouraria(gctx, periodo)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	saldos, err := agregarSaldos(pagamentos)
	if err != nil {
		return nil, err
	}
	totalSangrias, totalSuprimentos, err := ajustarCaixa(saldos, caixa)
	if err != nil {
		return nil, err
	}
	if err := aplicarTesouraria(saldos, tesouraria); err != nil {
		return nil, err
	}

	livro, err := montarLivro(pagamentos, caixa, tesouraria)
	if err != nil {
		return nil, err
	}

	resp := &dto.FechamentoResponse{
		Periodo:          periodoResponse(periodo),
		Saldos:           saldos,
		TotalSangrias:    totalSangrias,
		TotalSuprimentos: totalSuprimentos,
		Livro:            livro,
	}

	// Populate cache — best effort, ignore errors
	if cacheKey != "" {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			if err := s.rdb.Set(ctx, cacheKey, b, s.cacheTTL).Err(); err != nil {
				log.Debug().Err(err).Str("key", cacheKey).Msg("fechamento cache set failed")
			}
		}
	}

	return resp, nil
}

func (s *fechamentoService) resolverPeriodo(req dto.FechamentoRequest) (*dto.Periodo, error) {
	var inicio, fim *time.Time
	if req.Inicio != "" {
		t, err := time.Parse(time.RFC3339, req.Inicio)
		if err != nil {
			return nil, fmt.Errorf("%w: inicio %q", ErrPeriodoInvalido, req.Inicio)
		}
		inicio = &t
	}
	if req.Fim != "" {
		t, err := time.Parse(time.RFC3339, req.Fim)
		if err != nil {
			return nil, fmt.Errorf("%w: fim %q", ErrPeriodoInvalido, req.Fim)
		}
		fim = &t
	}
	return ResolverPeriodo(req.Filtro, inicio, fim, s.agora())
}

// cacheKey derives the snapshot cache key, or "" when caching is off.
// The key embeds a global version counter that every movement writer bumps,
// so any upstream commit invalidates all cached windows at once.
func (s *fechamentoService) cacheKey(ctx context.Context, periodo *dto.Periodo) string {
	if s.rdb == nil {
		return ""
	}
	versao, err := s.rdb.Get(ctx, cacheVersaoKey).Result()
	if err != nil {
		if err != redis.Nil {
			return "" // redis unreachable: skip the cache, never the query
		}
		versao = "0"
	}
	if periodo == nil {
		return fmt.Sprintf("fechamento:v%s:todos", versao)
	}
	return fmt.Sprintf("fechamento:v%s:%d:%d", versao, periodo.Inicio.UnixNano(), periodo.Fim.UnixNano())
}

func periodoResponse(periodo *dto.Periodo) *dto.PeriodoResponse {
	if periodo == nil {
		return nil
	}
	return &dto.PeriodoResponse{
		Inicio: periodo.Inicio.UTC().Format(time.RFC3339),
		Fim:    periodo.Fim.UTC().Format(time.RFC3339),
	}
}

// ── Netting ───────────────────────────────────────────────────────────────────

// nettear computes the after-fee value of one pagamento.
// The processor-declared liquido wins when present and non-negative; otherwise
// the percentage fee applies, defaulting to 0%. Rounding happens here, at the
// per-record boundary, never on aggregates — that is what keeps the fold
// commutative. A liquido above bruto yields a negative taxa on purpose: the
// anomaly is passed through so totals stay reconcilable with the source row.
func nettear(p model.Pagamento) (taxa, liquido decimal.Decimal, err error) {
	bruto := p.ValorBruto
	switch {
	case p.ValorLiquidoInformado != nil && !p.ValorLiquidoInformado.IsNegative():
		liquido = p.ValorLiquidoInformado.Round(2)
	case p.TaxaPercentual != nil:
		liquido = bruto.Mul(decimal.NewFromInt(1).Sub(p.TaxaPercentual.Div(cem))).Round(2)
	default:
		liquido = bruto.Round(2)
	}
	taxa = bruto.Sub(liquido).Round(2)

	if bruto.Sub(taxa).Sub(liquido).Abs().GreaterThan(centavo) {
		return decimal.Zero, decimal.Zero,
			fmt.Errorf("%w: pagamento %s bruto=%s taxa=%s liquido=%s",
				ErrArredondamentoInconsistente, p.ID, bruto, taxa, liquido)
	}
	return taxa, liquido, nil
}

// ── Aggregation ───────────────────────────────────────────────────────────────

// agregarSaldos folds netted pagamentos into per-forma buckets. Decimal
// addition over pre-rounded values is associative and commutative, so input
// order never changes the result.
func agregarSaldos(pagamentos []model.Pagamento) (map[string]dto.SaldoForma, error) {
	saldos := make(map[string]dto.SaldoForma)
	for _, p := range pagamentos {
		taxa, liquido, err := nettear(p)
		if err != nil {
			return nil, err
		}
		saldo := saldos[p.Forma] // zero value on first sight
		saldo.Bruto = saldo.Bruto.Add(p.ValorBruto)
		saldo.Taxa = saldo.Taxa.Add(taxa)
		saldo.Liquido = saldo.Liquido.Add(liquido)
		saldos[p.Forma] = saldo
	}
	return saldos, nil
}

// ── Cash drawer adjustment ────────────────────────────────────────────────────

// ajustarCaixa applies manual till movements to the dinheiro bucket.
// Only liquido moves: manual movements carry no processing fee, so bruto and
// taxa are untouched. Any movement creates the bucket if no cash sale produced
// it, even when sangrias and suprimentos net to zero — the reported totals
// must always have a matching saldo entry.
func ajustarCaixa(saldos map[string]dto.SaldoForma, movs []model.MovimentoCaixa) (totalSangrias, totalSuprimentos decimal.Decimal, err error) {
	for _, m := range movs {
		if !m.Valor.IsPositive() {
			return decimal.Zero, decimal.Zero,
				fmt.Errorf("%w: movimento de caixa %s com valor %s", ErrMovimentoInvalido, m.ID, m.Valor)
		}
		switch m.Tipo {
		case model.MovimentoSangria:
			totalSangrias = totalSangrias.Add(m.Valor)
		case model.MovimentoSuprimento:
			totalSuprimentos = totalSuprimentos.Add(m.Valor)
		default:
			return decimal.Zero, decimal.Zero,
				fmt.Errorf("%w: tipo de movimento de caixa %q", ErrMovimentoInvalido, m.Tipo)
		}
	}

	if len(movs) > 0 {
		saldo := saldos[FormaDinheiro]
		saldo.Liquido = saldo.Liquido.Add(totalSuprimentos.Sub(totalSangrias))
		saldos[FormaDinheiro] = saldo
	}
	return totalSangrias, totalSuprimentos, nil
}

// ── Treasury application ──────────────────────────────────────────────────────

// aplicarTesouraria applies inter-form transfers and one-way outflows on top
// of the per-forma balances. A transferencia conserves value exactly: what
// leaves the source liquido enters the destination liquido, with no fee.
// Outflow kinds only ever subtract. Each movement adds/subtracts a fixed
// amount from fixed forms, so application order cannot change the totals.
func aplicarTesouraria(saldos map[string]dto.SaldoForma, movs []model.MovimentoTesouraria) error {
	for _, m := range movs {
		if !m.Valor.IsPositive() {
			return fmt.Errorf("%w: movimento de tesouraria %s com valor %s", ErrMovimentoInvalido, m.ID, m.Valor)
		}
		switch m.Tipo {
		case model.TesourariaTransferencia:
			if m.FormaDestino == nil || *m.FormaDestino == "" {
				return fmt.Errorf("%w: transferência %s sem forma de destino", ErrMovimentoInvalido, m.ID)
			}
			origem := saldos[m.FormaOrigem]
			origem.Liquido = origem.Liquido.Sub(m.Valor)
			saldos[m.FormaOrigem] = origem

			destino := saldos[*m.FormaDestino]
			destino.Liquido = destino.Liquido.Add(m.Valor)
			saldos[*m.FormaDestino] = destino
		case model.TesourariaPagamentoConta, model.TesourariaRetiradaLucro, model.TesourariaRetirada:
			// Money leaves the tracked system.
			origem := saldos[m.FormaOrigem]
			origem.Liquido = origem.Liquido.Sub(m.Valor)
			saldos[m.FormaOrigem] = origem
		default:
			return fmt.Errorf("%w: tipo de movimento de tesouraria %q", ErrMovimentoInvalido, m.Tipo)
		}
	}
	return nil
}
