package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var agoraFixo = time.Date(2026, 9, 1, 15, 30, 45, 0, time.UTC)

func TestResolverPeriodoHoje(t *testing.T) {
	p, err := ResolverPeriodo(FiltroHoje, nil, nil, agoraFixo)
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), p.Inicio)
	assert.Equal(t, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), p.Fim)
}

func TestResolverPeriodoSemana(t *testing.T) {
	p, err := ResolverPeriodo(FiltroSemana, nil, nil, agoraFixo)
	require.NoError(t, err)
	require.NotNil(t, p)

	// 7-day inclusive window: starts 6 days back, ends at next midnight.
	assert.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), p.Inicio)
	assert.Equal(t, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), p.Fim)
}

func TestResolverPeriodoMes(t *testing.T) {
	p, err := ResolverPeriodo(FiltroMes, nil, nil, agoraFixo)
	require.NoError(t, err)
	require.NotNil(t, p)

	// 30-day inclusive window.
	assert.Equal(t, time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC), p.Inicio)
	assert.Equal(t, time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), p.Fim)
}

func TestResolverPeriodoTodos(t *testing.T) {
	p, err := ResolverPeriodo(FiltroTodos, nil, nil, agoraFixo)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestResolverPeriodoPersonalizado(t *testing.T) {
	inicio := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fim := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	p, err := ResolverPeriodo(FiltroPersonalizado, &inicio, &fim, agoraFixo)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, inicio, p.Inicio)
	assert.Equal(t, fim, p.Fim)
}

func TestResolverPeriodoPersonalizadoSemLimite(t *testing.T) {
	inicio := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Either bound missing degrades to unbounded.
	p, err := ResolverPeriodo(FiltroPersonalizado, &inicio, nil, agoraFixo)
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = ResolverPeriodo(FiltroPersonalizado, nil, &inicio, agoraFixo)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestResolverPeriodoPersonalizadoInvertido(t *testing.T) {
	inicio := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	fim := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// inicio > fim is an explicit validation error, never a silent fallback.
	p, err := ResolverPeriodo(FiltroPersonalizado, &inicio, &fim, agoraFixo)
	require.ErrorIs(t, err, ErrPeriodoInvalido)
	assert.Nil(t, p)
}

func TestResolverPeriodoFiltroDesconhecido(t *testing.T) {
	p, err := ResolverPeriodo("", nil, nil, agoraFixo)
	require.NoError(t, err)
	assert.Nil(t, p)
}
