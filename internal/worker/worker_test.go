package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/tomasvarela21/ChapulinaApp/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── fakes ─────────────────────────────────────────────────────────────────────

type fakeMailer struct {
	configurado bool
	err         error
	enviados    []string
}

func (m *fakeMailer) Configurado() bool { return m.configurado }
func (m *fakeMailer) Enviar(to, subject, _ string, _ []byte, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.enviados = append(m.enviados, to+"|"+subject)
	return nil
}

type handlerFunc func(ctx context.Context, payload json.RawMessage) error

func (f handlerFunc) Process(ctx context.Context, payload json.RawMessage) error { return f(ctx, payload) }

type recorder struct {
	requeued []Job
	dlq      []Job
	reasons  []string
}

func newTestPool(h Handler) (*Pool, *recorder) {
	rec := &recorder{}
	p := NewPool(nil, map[string]Handler{JobAlertaStock: h})
	p.backoff = func(int) time.Duration { return 0 }
	p.requeue = func(_ context.Context, _ string, job Job) error {
		rec.requeued = append(rec.requeued, job)
		return nil
	}
	p.toDLQ = func(_ context.Context, _ string, job Job, reason string) {
		rec.dlq = append(rec.dlq, job)
		rec.reasons = append(rec.reasons, reason)
	}
	return p, rec
}

func encodeJob(t *testing.T, job Job) string {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return string(b)
}

// ── AlertaStockWorker ─────────────────────────────────────────────────────────

func payloadAlerta(t *testing.T) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(AlertaStockPayload{ProductoID: "p1", ProductoNombre: "Vestido", Talle: "M", Cantidad: 0, Umbral: 2})
	require.NoError(t, err)
	return b
}

func TestAlertaStockWorker_EnviaEmail(t *testing.T) {
	m := &fakeMailer{configurado: true}
	w := NewAlertaStockWorker(m, infra.NewCircuitBreaker(infra.MailCBConfig()), "duena@chapulina.com")

	require.NoError(t, w.Process(context.Background(), payloadAlerta(t)))
	require.Len(t, m.enviados, 1)
	assert.Contains(t, m.enviados[0], "Stock bajo: Vestido (talle M)")
}

func TestAlertaStockWorker_SinSMTP_NoFalla(t *testing.T) {
	m := &fakeMailer{configurado: false}
	w := NewAlertaStockWorker(m, infra.NewCircuitBreaker(infra.MailCBConfig()), "duena@chapulina.com")

	require.NoError(t, w.Process(context.Background(), payloadAlerta(t)))
	assert.Empty(t, m.enviados)
}

func TestAlertaStockWorker_PayloadInvalido_EsPermanente(t *testing.T) {
	w := NewAlertaStockWorker(&fakeMailer{configurado: true}, infra.NewCircuitBreaker(infra.MailCBConfig()), "x@y.com")
	err := w.Process(context.Background(), json.RawMessage(`"nope"`))
	assert.ErrorIs(t, err, ErrPermanente)
}

func TestAlertaStockWorker_FallaSMTP(t *testing.T) {
	m := &fakeMailer{configurado: true, err: errors.New("535 auth failed")}
	w := NewAlertaStockWorker(m, infra.NewCircuitBreaker(infra.MailCBConfig()), "x@y.com")
	assert.Error(t, w.Process(context.Background(), payloadAlerta(t)))
}

// ── Pool.handle ───────────────────────────────────────────────────────────────

func TestPool_Exito_NoReencola(t *testing.T) {
	p, rec := newTestPool(handlerFunc(func(context.Context, json.RawMessage) error { return nil }))
	p.handle(context.Background(), QueueAlertas, encodeJob(t, Job{Type: JobAlertaStock, Payload: json.RawMessage(`{}`)}))
	assert.Empty(t, rec.requeued)
	assert.Empty(t, rec.dlq)
}

func TestPool_FallaTransitoria_Reintenta(t *testing.T) {
	p, rec := newTestPool(handlerFunc(func(context.Context, json.RawMessage) error { return errors.New("timeout") }))
	p.handle(context.Background(), QueueAlertas, encodeJob(t, Job{Type: JobAlertaStock, Payload: json.RawMessage(`{}`)}))

	require.Len(t, rec.requeued, 1)
	assert.Equal(t, 1, rec.requeued[0].Intentos)
	assert.Empty(t, rec.dlq)
}

func TestPool_AgotaIntentos_VaALaDLQ(t *testing.T) {
	p, rec := newTestPool(handlerFunc(func(context.Context, json.RawMessage) error { return errors.New("timeout") }))
	job := Job{Type: JobAlertaStock, Payload: json.RawMessage(`{}`), Intentos: MaxIntentos - 1}
	p.handle(context.Background(), QueueAlertas, encodeJob(t, job))

	assert.Empty(t, rec.requeued)
	require.Len(t, rec.dlq, 1)
	assert.Equal(t, MaxIntentos, rec.dlq[0].Intentos)
}

func TestPool_ErrorPermanente_VaDirectoALaDLQ(t *testing.T) {
	p, rec := newTestPool(handlerFunc(func(context.Context, json.RawMessage) error {
		return ErrPermanente
	}))
	p.handle(context.Background(), QueueAlertas, encodeJob(t, Job{Type: JobAlertaStock, Payload: json.RawMessage(`{}`)}))
	assert.Empty(t, rec.requeued)
	assert.Len(t, rec.dlq, 1)
}

func TestPool_TipoDesconocido(t *testing.T) {
	p, rec := newTestPool(handlerFunc(func(context.Context, json.RawMessage) error { return nil }))
	p.handle(context.Background(), QueueAlertas, encodeJob(t, Job{Type: "otro"}))
	require.Len(t, rec.reasons, 1)
	assert.Equal(t, "tipo de job desconocido", rec.reasons[0])
}

func TestPool_JSONInvalido(t *testing.T) {
	p, rec := newTestPool(handlerFunc(func(context.Context, json.RawMessage) error { return nil }))
	p.handle(context.Background(), QueueAlertas, "{not json")
	assert.Len(t, rec.dlq, 1)
}

// ── backoff / redrive ─────────────────────────────────────────────────────────

func TestComputeRetryBackoff(t *testing.T) {
	assert.Equal(t, 2*time.Second, computeRetryBackoff(1))
	assert.Equal(t, 4*time.Second, computeRetryBackoff(2))
	assert.Equal(t, 30*time.Second, computeRetryBackoff(10))
}

func TestRedriveJob(t *testing.T) {
	e := newDLQEntry(QueueAlertas, Job{Type: JobAlertaStock, Payload: json.RawMessage(`{}`), Intentos: 3}, "smtp", time.Now())
	job, ok := redriveJob(e)
	require.True(t, ok)
	assert.Equal(t, 0, job.Intentos)
	assert.Equal(t, 1, job.Redrives)

	e.Redrives = MaxRedrives
	_, ok = redriveJob(e)
	assert.False(t, ok)

	_, ok = redriveJob(DLQEntry{})
	assert.False(t, ok)
}
