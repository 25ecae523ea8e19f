package worker

// recibo_worker.go
// Processes recibo_email jobs: loads the sale, renders the PDF receipt and
// mails it to the customer.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"filialpos/internal/infra"
	"filialpos/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// VendaLoader is the slice of the sales repository the worker needs.
type VendaLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error)
}

// EnviadorRecibo sends a rendered receipt. *infra.Mailer implements it.
type EnviadorRecibo interface {
	EnviarRecibo(to, subject, body, nomeArquivo string, pdf []byte) error
}

type ReciboEmailWorker struct {
	vendas   VendaLoader
	mailer   EnviadorRecibo
	nomeLoja string
}

func NewReciboEmailWorker(vendas VendaLoader, mailer EnviadorRecibo, nomeLoja string) *ReciboEmailWorker {
	return &ReciboEmailWorker{vendas: vendas, mailer: mailer, nomeLoja: nomeLoja}
}

func (w *ReciboEmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReciboEmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("recibo_worker: payload inválido: %w", ErrPermanente)
	}
	if payload.Email == "" {
		log.Warn().Str("venda_id", payload.VendaID).Msg("recibo_worker: empty email, skipping")
		return nil
	}
	id, err := uuid.Parse(payload.VendaID)
	if err != nil {
		return fmt.Errorf("recibo_worker: venda_id inválido: %w", ErrPermanente)
	}

	venda, err := w.vendas.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("recibo_worker: venda %s não encontrada: %w", id, ErrPermanente)
		}
		return err
	}

	pdf, err := infra.GerarReciboPDF(venda, w.nomeLoja)
	if err != nil {
		return fmt.Errorf("%v: %w", err, ErrPermanente)
	}

	subject := fmt.Sprintf("%s - comprovante da sua compra", w.nomeLoja)
	body := fmt.Sprintf("Olá! Segue em anexo o comprovante da sua compra de R$ %s.", venda.Total.StringFixed(2))
	if err := w.mailer.EnviarRecibo(payload.Email, subject, body, "recibo-"+id.String()[:8]+".pdf", pdf); err != nil {
		return fmt.Errorf("recibo_worker: envio: %w", err)
	}
	log.Info().Str("venda_id", payload.VendaID).Msg("recibo_worker: receipt sent")
	return nil
}
