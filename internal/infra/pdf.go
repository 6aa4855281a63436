package infra

// pdf.go renders a single-sale receipt on receipt-sized paper:
//   - business name and contact line
//   - sale date, state and payment method
//   - product snapshot, size and quantity
//   - bold amount
//   - customer data for reservations

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tomasvarela21/ChapulinaApp/internal/model"

	"github.com/go-pdf/fpdf"
)

var etiquetasEstado = map[string]string{
	model.EstadoVendida:   "Vendida",
	model.EstadoReservada: "Reservada",
	model.EstadoRetirada:  "Retirada",
	model.EstadoCancelada: "Cancelada",
}

var etiquetasMetodo = map[string]string{
	model.MetodoEfectivo:      "Efectivo",
	model.MetodoTransferencia: "Transferencia",
	model.MetodoTarjeta:       "Tarjeta",
	model.MetodoNinguno:       "A definir",
}

// GenerarComprobanteVenta renders the receipt for venta and returns the PDF bytes.
func GenerarComprobanteVenta(venta *model.Venta, negocio *model.Configuracion) ([]byte, error) {
	// 74mm × 105mm, roughly thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(true, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	nombre := "Chapulina"
	if negocio != nil && negocio.NombreNegocio != "" {
		nombre = negocio.NombreNegocio
	}

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, tr(nombre), "", 1, "C", false, 0, "")

	if negocio != nil {
		contacto := strings.Join(noVacios(negocio.Telefono, negocio.Email), " · ")
		pdf.SetFont("Helvetica", "", 6)
		if contacto != "" {
			pdf.CellFormat(contentW, 3.5, tr(contacto), "", 1, "C", false, 0, "")
		}
		if negocio.Direccion != "" {
			pdf.CellFormat(contentW, 3.5, tr(negocio.Direccion), "", 1, "C", false, 0, "")
		}
	}
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Comprobante de venta", "", 1, "C", false, 0, "")
	pdf.Ln(1)

	// ── Sale info ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, venta.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tr("Operación: "+strings.ToUpper(venta.ID.String()[:8])), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, tr("Estado: "+etiqueta(etiquetasEstado, venta.Estado)), "", 1, "L", false, 0, "")
	pdf.Ln(1)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Item ──────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Importe", "B", 1, "R", false, 0, "")

	producto := venta.Snapshot.ProductoNombre
	if venta.Talle != "" {
		producto += " (" + venta.Talle + ")"
	}
	if r := []rune(producto); len(r) > 26 {
		producto = string(r[:25]) + "."
	}
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1, 5, tr(producto), "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", venta.Cantidad), "", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "$"+venta.Monto.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+venta.Monto.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, tr("Pago:"), "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, tr(etiqueta(etiquetasMetodo, venta.MetodoPago)), "", 1, "R", false, 0, "")

	if venta.Cliente != nil && *venta.Cliente != "" {
		pdf.Ln(1)
		cliente := *venta.Cliente
		if venta.Telefono != nil && *venta.Telefono != "" {
			cliente += " · " + *venta.Telefono
		}
		pdf.CellFormat(contentW, 4, tr("Cliente: "+cliente), "", 1, "L", false, 0, "")
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

func etiqueta(m map[string]string, k string) string {
	if v, ok := m[k]; ok {
		return v
	}
	return k
}

func noVacios(vals ...string) []string {
	out := vals[:0]
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
