package service

import (
	"fmt"
	"sort"
	"time"

	"caixapos/internal/dto"
	"caixapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// livroMaxLancamentos caps the audit ledger at the 200 most recent entries
// across all three sources combined.
const livroMaxLancamentos = 200

// lancamento is the internal ledger row before projection to the response.
type lancamento struct {
	id           uuid.UUID
	tipo         string
	forma        string
	formaDestino *string
	descricao    string
	bruto        decimal.Decimal
	taxa         decimal.Decimal
	valor        decimal.Decimal // signed net effect on forma
	numeroTicket *int
	ocorridoEm   time.Time
}

// montarLivro projects the three raw streams into one chronological,
// human-auditable ledger. Sign convention: entrada_venda and suprimento are
// positive, everything else negative. A transferencia is recorded once, as a
// negative entry on the source annotated with the destination form — the
// destination side is not duplicated, mirroring the balance semantics.
func montarLivro(pagamentos []model.Pagamento, caixa []model.MovimentoCaixa, tesouraria []model.MovimentoTesouraria) ([]dto.LancamentoResponse, error) {
	linhas := make([]lancamento, 0, len(pagamentos)+len(caixa)+len(tesouraria))

	for _, p := range pagamentos {
		taxa, liquido, err := nettear(p)
		if err != nil {
			return nil, err
		}
		descricao := "Recebimento de venda"
		if p.Parcelas > 1 {
			descricao = fmt.Sprintf("Recebimento de venda em %dx", p.Parcelas)
		}
		linhas = append(linhas, lancamento{
			id:           p.ID,
			tipo:         "entrada_venda",
			forma:        p.Forma,
			descricao:    descricao,
			bruto:        p.ValorBruto,
			taxa:         taxa,
			valor:        liquido,
			numeroTicket: p.NumeroTicket,
			ocorridoEm:   p.OcorridoEm,
		})
	}

	for _, m := range caixa {
		valor := m.Valor
		descricao := "Suprimento de caixa"
		if m.Tipo == model.MovimentoSangria {
			valor = m.Valor.Neg()
			descricao = "Sangria de caixa"
		}
		if m.Motivo != nil && *m.Motivo != "" {
			descricao = *m.Motivo
		}
		linhas = append(linhas, lancamento{
			id:         m.ID,
			tipo:       m.Tipo,
			forma:      FormaDinheiro,
			descricao:  descricao,
			valor:      valor,
			ocorridoEm: m.OcorridoEm,
		})
	}

	for _, m := range tesouraria {
		descricao := descricaoTesouraria(m)
		linhas = append(linhas, lancamento{
			id:           m.ID,
			tipo:         m.Tipo,
			forma:        m.FormaOrigem,
			formaDestino: m.FormaDestino,
			descricao:    descricao,
			valor:        m.Valor.Neg(), // all treasury kinds leave the source
			ocorridoEm:   m.OcorridoEm,
		})
	}

	// Total order: ocorrido_em descending, ties broken by tipo then id so
	// repeated runs over the same rows are byte-identical.
	sort.Slice(linhas, func(i, j int) bool {
		a, b := linhas[i], linhas[j]
		if !a.ocorridoEm.Equal(b.ocorridoEm) {
			return a.ocorridoEm.After(b.ocorridoEm)
		}
		if a.tipo != b.tipo {
			return a.tipo < b.tipo
		}
		return a.id.String() < b.id.String()
	})

	if len(linhas) > livroMaxLancamentos {
		linhas = linhas[:livroMaxLancamentos]
	}

	livro := make([]dto.LancamentoResponse, 0, len(linhas))
	for _, l := range linhas {
		livro = append(livro, dto.LancamentoResponse{
			ID:           l.id.String(),
			Tipo:         l.tipo,
			Forma:        l.forma,
			FormaDestino: l.formaDestino,
			Descricao:    l.descricao,
			ValorBruto:   l.bruto,
			ValorTaxa:    l.taxa,
			Valor:        l.valor,
			NumeroTicket: l.numeroTicket,
			OcorridoEm:   l.ocorridoEm.UTC().Format(time.RFC3339Nano),
		})
	}
	return livro, nil
}

func descricaoTesouraria(m model.MovimentoTesouraria) string {
	if m.Motivo != nil && *m.Motivo != "" {
		return *m.Motivo
	}
	switch m.Tipo {
	case model.TesourariaTransferencia:
		if m.FormaDestino != nil {
			return fmt.Sprintf("Transferência para %s", *m.FormaDestino)
		}
		return "Transferência entre contas"
	case model.TesourariaPagamentoConta:
		if m.ContaID != nil && *m.ContaID != "" {
			return fmt.Sprintf("Pagamento de conta %s", *m.ContaID)
		}
		return "Pagamento de conta"
	case model.TesourariaRetiradaLucro:
		return "Retirada de lucro"
	case model.TesourariaRetirada:
		return "Retirada de caixa"
	default:
		return m.Tipo
	}
}
