package worker

import (
	"context"
	"encoding/json"
	"time"

	"caixapos/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueRecalculo = "jobs:recalculo"

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// recalculoPayload asks a worker to re-warm the snapshot for one filter window.
type recalculoPayload struct {
	Filtro string `json:"filtro"`
}

// Recalculador recomputes a fechamento snapshot. Satisfied by
// service.FechamentoService; declared here so the pool does not depend on the
// service package.
type Recalculador interface {
	Fechamento(ctx context.Context, req dto.FechamentoRequest) (*dto.FechamentoResponse, error)
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueRecalculo pushes a snapshot warm-up job for the given filter.
func (d *Dispatcher) EnqueueRecalculo(ctx context.Context, filtro string) error {
	data, err := json.Marshal(recalculoPayload{Filtro: filtro})
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: "recalculo", Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueRecalculo, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the recalculo queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, recalc Recalculador, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, recalc, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, recalc Recalculador, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueRecalculo).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, recalc, result[1])
		}
	}
}

func processJob(ctx context.Context, recalc Recalculador, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal job")
		return
	}
	var payload recalculoPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal recalculo payload")
		return
	}

	// Atualizar forces the recompute so the cache ends up holding a fresh snapshot.
	start := time.Now()
	if _, err := recalc.Fechamento(ctx, dto.FechamentoRequest{Filtro: payload.Filtro, Atualizar: true}); err != nil {
		log.Error().Err(err).Str("filtro", payload.Filtro).Msg("recalculo failed")
		return
	}
	log.Info().Str("filtro", payload.Filtro).Dur("took", time.Since(start)).Msg("fechamento snapshot warmed")
}
