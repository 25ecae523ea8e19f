package infra

// pdf.go: sale receipt rendering using go-pdf/fpdf.
// Generates a thermal-receipt-sized page with:
//   - Store and filial header
//   - Sale id and timestamp
//   - Item table (product name, quantity, subtotal)
//   - Bold total and payment method
//
// The PDF is returned in memory: the HTTP handler streams it and the e-mail
// worker attaches it, so nothing is written to disk.

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"filialpos/internal/model"

	"github.com/go-pdf/fpdf"
)

// GerarReciboPDF renders the receipt of a Venda. Items must have Produto
// preloaded for names to appear.
func GerarReciboPDF(venda *model.Venda, nomeLoja string) ([]byte, error) {
	// 80mm thermal roll; height grows with the item count
	altura := 70.0 + 5.0*float64(len(venda.Itens))
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 80, Ht: altura},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, tr(nomeLoja), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	if venda.Filial != nil {
		pdf.CellFormat(contentW, 5, tr(venda.Filial.Nome), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(contentW, 5, tr("Comprovante de venda"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, "Venda "+venda.ID.String()[:8], "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, venda.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if venda.Cliente != nil {
		pdf.CellFormat(contentW, 4, tr("Cliente: "+venda.Cliente.Nome), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Produto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qtd", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range venda.Itens {
		nome := ""
		if item.Produto != nil {
			nome = item.Produto.Nome
		}
		if utf8.RuneCountInString(nome) > 24 {
			nome = string([]rune(nome)[:23]) + "."
		}
		pdf.CellFormat(col1, 5, tr(nome), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Quantidade), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "R$ "+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "R$ "+venda.Total.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, "Pagamento: "+venda.FormaPagamento, "", 1, "L", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("Obrigado pela preferência!"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}
