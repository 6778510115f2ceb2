// Package invoice renders a billing list as an HTML invoice and hands it
// to an external rasterizer that produces the PDF file.
package invoice

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/keshav-jajoriya/bill-tracker/internal/models"
)

// invoiceTemplate mirrors the app's invoice layout: centered title,
// date and address paragraphs, an Item/Qty/Price/Total table reading the
// stored fields verbatim, and a closing grand total line.
const invoiceTemplate = `<html>
  <head>
    <style>
      body { font-family: Arial; padding: 20px; color: #333; }
      h1 { text-align: center; }
      table { width: 100%; border-collapse: collapse; margin-top: 20px; }
      th, td { border: 1px solid #999; padding: 8px; text-align: left; }
      th { background-color: #f2f2f2; }
      .total { text-align: right; font-weight: bold; padding-top: 10px; }
    </style>
  </head>
  <body>
    <h1>{{.Title}}</h1>
    <p><strong>Date:</strong> {{.Date}}</p>
    <p><strong>Address:</strong> {{.Address}}</p>
    <table>
      <tr><th>Item</th><th>Qty</th><th>Price</th><th>Total</th></tr>
      {{- if .Items}}
      {{- range .Items}}
      <tr>
        <td>{{.Name}}</td>
        <td>{{.Quantity}}</td>
        <td>{{.Price}}</td>
        <td>{{.Total}}</td>
      </tr>
      {{- end}}
      {{- else}}
      <tr><td colspan="4">No items found</td></tr>
      {{- end}}
    </table>
    <p class="total">Grand Total: {{.GrandTotal}}</p>
  </body>
</html>
`

var tmpl = template.Must(template.New("invoice").Parse(invoiceTemplate))

type templateData struct {
	Title      string
	Date       string
	Address    string
	GrandTotal string
	Items      []models.LineItem
}

// Render produces the invoice HTML for a list. The output is
// deterministic for a given list value: item rows read the stored name,
// quantity, price and total fields with no recomputation.
func Render(list models.BillingList) (string, error) {
	data := templateData{
		Title:      list.Title,
		Date:       list.CreatedAt.Format("02/01/2006"),
		Address:    list.Address,
		GrandTotal: list.GrandTotal,
		Items:      list.Items,
	}
	if data.Title == "" {
		data.Title = "No Title"
	}
	if data.Address == "" {
		data.Address = "N/A"
	}
	if data.GrandTotal == "" {
		data.GrandTotal = "0"
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render invoice: %w", err)
	}
	return sb.String(), nil
}
