package service

import (
	"context"
	"fmt"
	"time"

	"caixapos/internal/dto"
	"caixapos/internal/infra"
	"caixapos/internal/model"
	"caixapos/internal/repository"
	"caixapos/internal/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// MovimentoService is the thin write path for the events the engine consumes.
// It validates, inserts, and invalidates the snapshot cache — no business
// workflow beyond that lives here.
type MovimentoService interface {
	RegistrarCaixa(ctx context.Context, req dto.MovimentoCaixaRequest) (*dto.MovimentoResponse, error)
	RegistrarTesouraria(ctx context.Context, req dto.MovimentoTesourariaRequest) (*dto.MovimentoResponse, error)
}

type movimentoService struct {
	repo       repository.FechamentoRepository
	rdb        *redis.Client
	dispatcher *worker.Dispatcher
	metrics    *infra.Metrics
}

func NewMovimentoService(repo repository.FechamentoRepository, rdb *redis.Client, dispatcher *worker.Dispatcher, metrics *infra.Metrics) MovimentoService {
	return &movimentoService{repo: repo, rdb: rdb, dispatcher: dispatcher, metrics: metrics}
}

func (s *movimentoService) RegistrarCaixa(ctx context.Context, req dto.MovimentoCaixaRequest) (*dto.MovimentoResponse, error) {
	sessaoID, err := uuid.Parse(req.SessaoID)
	if err != nil {
		return nil, fmt.Errorf("%w: sessao_id %q", ErrMovimentoInvalido, req.SessaoID)
	}
	if req.Tipo != model.MovimentoSangria && req.Tipo != model.MovimentoSuprimento {
		return nil, fmt.Errorf("%w: tipo %q", ErrMovimentoInvalido, req.Tipo)
	}
	if !req.Valor.IsPositive() {
		return nil, fmt.Errorf("%w: valor %s", ErrMovimentoInvalido, req.Valor)
	}

	mov := &model.MovimentoCaixa{
		SessaoID:   sessaoID,
		Tipo:       req.Tipo,
		Valor:      req.Valor,
		Motivo:     req.Motivo,
		OcorridoEm: time.Now(),
	}
	if err := s.repo.CreateMovimentoCaixa(ctx, mov); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, mov.Tipo)
	return &dto.MovimentoResponse{ID: mov.ID.String()}, nil
}

func (s *movimentoService) RegistrarTesouraria(ctx context.Context, req dto.MovimentoTesourariaRequest) (*dto.MovimentoResponse, error) {
	switch req.Tipo {
	case model.TesourariaTransferencia:
		if req.FormaDestino == nil || *req.FormaDestino == "" {
			return nil, fmt.Errorf("%w: transferência sem forma de destino", ErrMovimentoInvalido)
		}
	case model.TesourariaPagamentoConta, model.TesourariaRetiradaLucro, model.TesourariaRetirada:
		// destination never applies to outflows
		req.FormaDestino = nil
	default:
		return nil, fmt.Errorf("%w: tipo %q", ErrMovimentoInvalido, req.Tipo)
	}
	if !req.Valor.IsPositive() {
		return nil, fmt.Errorf("%w: valor %s", ErrMovimentoInvalido, req.Valor)
	}

	mov := &model.MovimentoTesouraria{
		Tipo:         req.Tipo,
		FormaOrigem:  req.FormaOrigem,
		FormaDestino: req.FormaDestino,
		Valor:        req.Valor,
		Motivo:       req.Motivo,
		ContaID:      req.ContaID,
		OcorridoEm:   time.Now(),
	}
	if err := s.repo.CreateMovimentoTesouraria(ctx, mov); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, mov.Tipo)
	return &dto.MovimentoResponse{ID: mov.ID.String()}, nil
}

// afterWrite bumps the snapshot cache version (invalidating every cached
// window) and asks the worker pool to pre-warm the "hoje" snapshot.
// Both are best effort: a failure here never fails the committed write.
func (s *movimentoService) afterWrite(ctx context.Context, tipo string) {
	if s.metrics != nil {
		s.metrics.MovimentosTotal.WithLabelValues(tipo).Inc()
	}
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Incr(ctx, cacheVersaoKey).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to bump fechamento cache version")
		return
	}
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueRecalculo(ctx, FiltroHoje); err != nil {
			log.Warn().Err(err).Msg("failed to enqueue recalculo job")
		}
	}
}
