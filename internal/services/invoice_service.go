package services

import (
	"encoding/base64"
	"html/template"
	"regexp"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/skillverse/backend/internal/models"
)

var manualFixPattern = regexp.MustCompile(`(?i)\s*\[MANUAL FIX\]\s*`)

// InvoiceService renders a transaction record as a printable HTML receipt.
// It never mutates state and never reads the ledger; the caller supplies
// the record. The reconciliation marker is stripped from descriptions
// before display.
type InvoiceService struct {
	tmpl *template.Template
}

func NewInvoiceService() *InvoiceService {
	return &InvoiceService{
		tmpl: template.Must(template.New("invoice").Parse(invoiceTemplate)),
	}
}

type invoiceData struct {
	TxnID       string
	Amount      string
	Status      string
	StatusColor string
	Method      string
	Username    string
	Description string
	Date        string
	Time        string
	QRCode      template.URL
	GeneratedAt string
}

// Render produces the invoice document for one transaction.
func (s *InvoiceService) Render(txn *models.Transaction) (string, error) {
	description := strings.TrimSpace(manualFixPattern.ReplaceAllString(txn.Description, " "))
	if description == "" {
		description = "Service Transaction"
	}

	username := txn.Username
	if username == "" {
		username = "User #" + txn.UserID
	}

	statusColor := "#28a745"
	if txn.Status != models.StatusSuccess {
		statusColor = "#dc3545"
	}

	data := invoiceData{
		TxnID:       txn.ID,
		Amount:      txn.Amount.StringFixed(2),
		Status:      strings.ToUpper(txn.Status),
		StatusColor: statusColor,
		Method:      strings.ToUpper(txn.Method),
		Username:    username,
		Description: description,
		Date:        txn.Date,
		Time:        txn.Time,
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
	}

	// Receipt QR carries the transaction id for quick lookup. The data URI
	// is marked as a trusted URL or html/template would reject the scheme.
	if png, err := qrcode.Encode(txn.ID, qrcode.Medium, 128); err == nil {
		data.QRCode = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
	}

	var b strings.Builder
	if err := s.tmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Invoice - {{.TxnID}}</title>
<style>
body { font-family: 'Segoe UI', Tahoma, sans-serif; background: #f4f4f8; padding: 40px 20px; }
.invoice { max-width: 640px; margin: 0 auto; background: white; border-radius: 12px; padding: 32px; box-shadow: 0 4px 24px rgba(0,0,0,0.08); }
.header { text-align: center; border-bottom: 2px dashed #e0e0e0; padding-bottom: 16px; margin-bottom: 24px; }
.header h1 { color: #667eea; }
.amount { text-align: center; font-size: 2.4rem; font-weight: 700; margin: 24px 0; }
.badge { display: inline-block; padding: 6px 18px; border-radius: 20px; color: white; font-weight: 600; background: {{.StatusColor}}; }
.row { display: flex; justify-content: space-between; padding: 10px 0; border-bottom: 1px solid #eee; }
.label { color: #666; }
.value { font-weight: 600; }
.qr { text-align: center; margin: 24px 0; }
.footer { text-align: center; color: #888; margin-top: 24px; font-size: 0.85rem; }
</style>
</head>
<body>
<div class="invoice">
  <div class="header">
    <h1>INVOICE</h1>
    <p>SkillVerse Payment Receipt</p>
    <p><span class="badge">{{.Status}}</span></p>
  </div>
  <div class="amount">&#8377;{{.Amount}}</div>
  <div class="row"><span class="label">Transaction ID</span><span class="value">{{.TxnID}}</span></div>
  <div class="row"><span class="label">Description</span><span class="value">{{.Description}}</span></div>
  <div class="row"><span class="label">Payment Method</span><span class="value">{{.Method}}</span></div>
  <div class="row"><span class="label">Customer</span><span class="value">{{.Username}}</span></div>
  <div class="row"><span class="label">Date</span><span class="value">{{.Date}} at {{.Time}}</span></div>
  {{if .QRCode}}<div class="qr"><img src="{{.QRCode}}" alt="Transaction QR" width="128" height="128"></div>{{end}}
  <div class="footer">
    <p>Thank you for using SkillVerse!</p>
    <p>This is a computer-generated invoice. No signature required.</p>
    <p>Generated on: {{.GeneratedAt}}</p>
  </div>
</div>
</body>
</html>`
