package infra

import (
	"fmt"
	"io"
	"strings"

	"filialpos/internal/model"

	"github.com/xuri/excelize/v2"
)

const abaEstoque = "Estoque"

// ColunasEstoque is the header row of the stock spreadsheet, in order.
// Import accepts the columns in any order and ignores unknown ones.
var ColunasEstoque = []string{
	"armazem_id",
	"codigo",
	"nome",
	"marca",
	"tipo",
	"preco_compra",
	"preco_venda_unidade",
	"preco_venda_caixa",
	"unidades_por_caixa",
	"caixas",
	"quantidade_em_estoque",
}

// LinhaPlanilha is one data row of an imported spreadsheet. Linha is the
// 1-based row number as shown by spreadsheet software; Valores is keyed by
// lower-cased header and only holds non-blank cells.
type LinhaPlanilha struct {
	Linha   int
	Valores map[string]string
}

// EscreverPlanilhaEstoque renders stock items as an .xlsx workbook.
func EscreverPlanilhaEstoque(itens []model.ProdutoEstoque) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", abaEstoque); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(ColunasEstoque))
	for i, c := range ColunasEstoque {
		header[i] = c
	}
	if err := f.SetSheetRow(abaEstoque, "A1", &header); err != nil {
		return nil, err
	}
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(ColunasEstoque), 1)
		_ = f.SetCellStyle(abaEstoque, "A1", last, bold)
	}

	for i, p := range itens {
		caixa := ""
		if p.PrecoVendaCaixa.Valid {
			caixa = p.PrecoVendaCaixa.Decimal.StringFixed(2)
		}
		row := []interface{}{
			p.ArmazemID.String(),
			p.Codigo,
			p.Nome,
			p.Marca,
			p.Tipo,
			p.PrecoCompra.StringFixed(2),
			p.PrecoVendaUnidade.StringFixed(2),
			caixa,
			p.UnidadesPorCaixa,
			p.Caixas,
			p.QuantidadeEmEstoque,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(abaEstoque, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("planilha: write: %w", err)
	}
	return buf.Bytes(), nil
}

// LerPlanilhaEstoque reads the first sheet of an .xlsx workbook. The first row
// is the header. Blank rows are skipped.
func LerPlanilhaEstoque(r io.Reader) ([]LinhaPlanilha, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("planilha: arquivo inválido: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("planilha: nenhuma aba encontrada")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("planilha: leitura: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("planilha: cabeçalho ausente")
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var linhas []LinhaPlanilha
	for i, row := range rows[1:] {
		valores := make(map[string]string)
		for j, cell := range row {
			if j >= len(header) || header[j] == "" {
				continue
			}
			if v := strings.TrimSpace(cell); v != "" {
				valores[header[j]] = v
			}
		}
		if len(valores) == 0 {
			continue
		}
		linhas = append(linhas, LinhaPlanilha{Linha: i + 2, Valores: valores})
	}
	return linhas, nil
}
