package worker

// alerta_worker.go
// Processes alerta_stock jobs: one email per sale that left a size at or
// below the configured threshold.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tomasvarela21/ChapulinaApp/internal/infra"

	"github.com/rs/zerolog/log"
)

// AlertaStockPayload is enqueued by the sale flow after the stock decrement
// commits.
type AlertaStockPayload struct {
	ProductoID     string `json:"producto_id"`
	ProductoNombre string `json:"producto_nombre"`
	Talle          string `json:"talle"`
	Cantidad       int    `json:"cantidad"`
	Umbral         int    `json:"umbral"`
}

// Mailer is the subset of infra.Mailer the worker needs.
type Mailer interface {
	Configurado() bool
	Enviar(to, subject, body string, adjunto []byte, nombreAdjunto string) error
}

type AlertaStockWorker struct {
	mailer  Mailer
	cb      *infra.CircuitBreaker
	destino string
}

func NewAlertaStockWorker(mailer Mailer, cb *infra.CircuitBreaker, destino string) *AlertaStockWorker {
	return &AlertaStockWorker{mailer: mailer, cb: cb, destino: destino}
}

func (w *AlertaStockWorker) Process(_ context.Context, raw json.RawMessage) error {
	var p AlertaStockPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("%w: payload invalido: %v", ErrPermanente, err)
	}

	if w.destino == "" || w.mailer == nil || !w.mailer.Configurado() {
		log.Info().
			Str("producto", p.ProductoNombre).
			Str("talle", p.Talle).
			Int("cantidad", p.Cantidad).
			Msg("alerta_worker: stock bajo (SMTP no configurado, sin email)")
		return nil
	}

	subject, body := armarAlerta(p)
	err := w.cb.Execute(func() error {
		return w.mailer.Enviar(w.destino, subject, body, nil, "")
	})
	if err != nil {
		return fmt.Errorf("alerta_worker: enviar: %w", err)
	}
	log.Info().Str("to", w.destino).Str("producto", p.ProductoNombre).Msg("alerta_worker: alerta enviada")
	return nil
}

func armarAlerta(p AlertaStockPayload) (string, string) {
	talle := p.Talle
	if talle == "" {
		talle = "único"
	}
	subject := fmt.Sprintf("Stock bajo: %s (talle %s)", p.ProductoNombre, talle)
	body := fmt.Sprintf(
		"Quedan %d unidades de %s en talle %s (umbral: %d).\n\nProducto: %s\n",
		p.Cantidad, p.ProductoNombre, talle, p.Umbral, p.ProductoID,
	)
	return subject, body
}
