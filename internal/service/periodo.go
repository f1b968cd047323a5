package service

import (
	"time"

	"caixapos/internal/dto"
)

// Filter selectors accepted by the fechamento endpoint.
const (
	FiltroHoje          = "hoje"
	FiltroSemana        = "semana"
	FiltroMes           = "mes"
	FiltroTodos         = "todos"
	FiltroPersonalizado = "personalizado"
)

// ResolverPeriodo turns a filter selector plus optional explicit bounds into a
// half-open window [inicio, fim), or nil for unbounded. Pure function.
//
//   - hoje:   the current calendar day
//   - semana: 7-day inclusive window ending today
//   - mes:    30-day inclusive window ending today
//   - personalizado: requires both bounds; one missing → unbounded,
//     inicio > fim → ErrPeriodoInvalido (explicit policy, not silent fallback)
//   - todos / anything else: unbounded
func ResolverPeriodo(filtro string, inicio, fim *time.Time, agora time.Time) (*dto.Periodo, error) {
	switch filtro {
	case FiltroHoje:
		return diasAtras(agora, 0), nil
	case FiltroSemana:
		return diasAtras(agora, 6), nil
	case FiltroMes:
		return diasAtras(agora, 29), nil
	case FiltroPersonalizado:
		if inicio == nil || fim == nil {
			return nil, nil
		}
		if inicio.After(*fim) {
			return nil, ErrPeriodoInvalido
		}
		return &dto.Periodo{Inicio: *inicio, Fim: *fim}, nil
	default:
		return nil, nil
	}
}

// diasAtras builds [startOfDay(agora − n days), startOfDay(agora + 1 day)).
// The exclusive upper bound at next midnight stands in for "endOfDay" and
// keeps range predicates index-friendly (>= / <, never DATE(col)).
func diasAtras(agora time.Time, n int) *dto.Periodo {
	y, m, d := agora.Date()
	hoje := time.Date(y, m, d, 0, 0, 0, 0, agora.Location())
	return &dto.Periodo{
		Inicio: hoje.AddDate(0, 0, -n),
		Fim:    hoje.AddDate(0, 0, 1),
	}
}
