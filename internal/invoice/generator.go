// Package invoice renders the proof-of-purchase PDF for a verified order and
// writes it to the invoice directory under a locator derived from the gateway
// order id, so regeneration overwrites rather than duplicates.
package invoice

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"spiceshop/internal/domain"
)

// Seller is the merchant block printed in the invoice header.
type Seller struct {
	BrandName string
	Tagline   string
	Address   string
	Phone     string
	Email     string
}

// Generator renders and stores invoice PDFs.
type Generator struct {
	seller Seller
	dir    string
	logger *log.Logger
	now    func() time.Time
}

func NewGenerator(seller Seller, dir string, logger *log.Logger) (*Generator, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create invoices dir: %w", err)
	}
	return &Generator{seller: seller, dir: dir, logger: logger, now: time.Now}, nil
}

// Filename returns the deterministic locator for an order's invoice.
func Filename(gatewayOrderID string) string {
	return "invoice_" + gatewayOrderID + ".pdf"
}

// Generate renders the invoice for order and writes it to the invoice
// directory, returning the filename. The write goes through a temp file and
// rename so a concurrent reader never sees a partial document and the last
// write wins on regeneration.
func (g *Generator) Generate(order domain.Order) (string, error) {
	invoiceID := fmt.Sprintf("inv_%d_%s", g.now().UnixMilli(), shortID())
	filename := Filename(order.GatewayOrderID)

	var buf bytes.Buffer
	if err := g.render(&buf, invoiceID, order); err != nil {
		return "", fmt.Errorf("render invoice: %w", err)
	}

	tmp, err := os.CreateTemp(g.dir, filename+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create invoice temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write invoice: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("sync invoice: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close invoice: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(g.dir, filename)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("store invoice: %w", err)
	}

	g.logger.Printf("invoice: generated id=%s file=%s order=%s", invoiceID, filename, order.GatewayOrderID)
	return filename, nil
}

func (g *Generator) render(w io.Writer, invoiceID string, order domain.Order) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Header: brand on the left, invoice metadata on the right.
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(110, 10, g.seller.BrandName, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "Invoice ID: "+invoiceID, "", 1, "R", false, 0, "")
	pdf.CellFormat(110, 5, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Order ID: "+order.GatewayOrderID, "", 1, "R", false, 0, "")
	pdf.CellFormat(110, 5, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Payment ID: "+order.GatewayPaymentID, "", 1, "R", false, 0, "")
	pdf.CellFormat(110, 5, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Date: "+order.CreatedAt.Format("02 Jan 2006 15:04 MST"), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	if g.seller.Tagline != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 5, g.seller.Tagline, "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "Seller: "+g.seller.BrandName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Address: "+g.seller.Address, "", 1, "L", false, 0, "")
	var contact []string
	if g.seller.Phone != "" {
		contact = append(contact, g.seller.Phone)
	}
	if g.seller.Email != "" {
		contact = append(contact, g.seller.Email)
	}
	if len(contact) > 0 {
		pdf.CellFormat(0, 5, "Contact: "+strings.Join(contact, "  |  "), "", 1, "L", false, 0, "")
	}

	if err := g.drawSummaryCode(pdf, invoiceID, order); err != nil {
		return err
	}

	// Bill To block.
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, "Bill To", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, order.Buyer.Name, "", 1, "L", false, 0, "")
	if order.Buyer.Phone != "" {
		pdf.CellFormat(0, 5, "Phone: "+order.Buyer.Phone, "", 1, "L", false, 0, "")
	}
	if order.Buyer.Email != "" {
		pdf.CellFormat(0, 5, "Email: "+order.Buyer.Email, "", 1, "L", false, 0, "")
	}
	if order.Buyer.Address != "" {
		pdf.MultiCell(0, 5, order.Buyer.Address, "", "L", false)
	}

	g.drawLineItems(pdf, order)
	g.drawTotals(pdf, order)

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Thank you for your purchase!", "", 1, "C", false, 0, "")

	return pdf.Output(w)
}

// drawSummaryCode embeds a QR code carrying the key facts of the transaction
// for quick manual verification against the ledger.
func (g *Generator) drawSummaryCode(pdf *fpdf.Fpdf, invoiceID string, order domain.Order) error {
	payload := fmt.Sprintf("invoice=%s;order=%s;payment=%s;total=%s;buyer=%s",
		invoiceID, order.GatewayOrderID, order.GatewayPaymentID,
		formatRupees(order.TotalPaise), order.Buyer.Name)

	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encode summary code: %w", err)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("summary-code", opts, bytes.NewReader(png))
	pageW, _ := pdf.GetPageSize()
	pdf.ImageOptions("summary-code", pageW-18-28, 18, 28, 28, false, opts, 0, "")
	return pdf.Error()
}

func (g *Generator) drawLineItems(pdf *fpdf.Fpdf, order domain.Order) {
	const (
		nameW  = 84.0
		qtyW   = 18.0
		unitW  = 36.0
		totalW = 36.0
	)

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(15, 76, 129)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(nameW, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(qtyW, 8, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(unitW, 8, "Unit (Rs)", "1", 0, "R", true, 0, "")
	pdf.CellFormat(totalW, 8, "Total (Rs)", "1", 1, "R", true, 0, "")
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range order.Lines {
		pdf.CellFormat(nameW, 7, line.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(qtyW, 7, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(unitW, 7, formatRupees(line.UnitPricePaise), "1", 0, "R", false, 0, "")
		pdf.CellFormat(totalW, 7, formatRupees(line.TotalPaise), "1", 1, "R", false, 0, "")
	}
	if order.DeliveryPaise > 0 {
		pdf.CellFormat(nameW, 7, "Delivery charges", "1", 0, "L", false, 0, "")
		pdf.CellFormat(qtyW, 7, "1", "1", 0, "C", false, 0, "")
		pdf.CellFormat(unitW, 7, formatRupees(order.DeliveryPaise), "1", 0, "R", false, 0, "")
		pdf.CellFormat(totalW, 7, formatRupees(order.DeliveryPaise), "1", 1, "R", false, 0, "")
	}
}

func (g *Generator) drawTotals(pdf *fpdf.Fpdf, order domain.Order) {
	subtotal := order.TotalPaise - order.DeliveryPaise

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Subtotal: Rs "+formatRupees(subtotal), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, "Delivery: Rs "+formatRupees(order.DeliveryPaise), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Grand Total: Rs "+formatRupees(order.TotalPaise), "", 1, "R", false, 0, "")
}

func formatRupees(paise int64) string {
	return fmt.Sprintf("%d.%02d", paise/100, paise%100)
}

func shortID() string {
	id := uuid.NewString()
	return strings.ReplaceAll(id, "-", "")[:8]
}
