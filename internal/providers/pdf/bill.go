package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	mconfig "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/vamsi4727/bhanus-studio-billing/internal/bill/domain"
	"github.com/vamsi4727/bhanus-studio-billing/internal/config"
)

type PDFProvider struct {
	render *config.RenderConfigHolder
}

func New(render *config.RenderConfigHolder) Provider {
	return &PDFProvider{render: render}
}

func (p *PDFProvider) GenerateBill(ctx context.Context, bill domain.Bill, profile StudioProfile) (io.Reader, error) {
	render := p.render.Get()

	cfg := mconfig.NewBuilder().
		WithPageSize(toPageSize(render.PageSize)).
		Build()

	m := maroto.New(cfg)

	studioName := profile.Name
	if studioName == "" {
		studioName = "Bhanus Studio"
	}
	m.AddRow(12,
		text.NewCol(12, studioName, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)
	m.AddRow(14,
		col.New(12).Add(
			text.New(profile.Address, props.Text{Size: 9, Align: align.Center}),
			text.New(contactLine(profile), props.Text{Size: 9, Align: align.Center, Top: 5}),
		),
	)

	m.AddRow(16,
		col.New(6).Add(
			text.New("Bill no: "+bill.InvoiceNumber, props.Text{Style: fontstyle.Bold}),
			text.New("Date: "+bill.Date, props.Text{Top: 5}),
		),
		col.New(6).Add(
			text.New("Customer: "+bill.CustomerName, props.Text{Align: align.Right}),
			text.New(phoneLine(bill), props.Text{Align: align.Right, Top: 5}),
		),
	)

	m.AddRow(8,
		text.NewCol(1, "No", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(5, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Rate", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range bill.Items {
		m.AddRow(7,
			text.NewCol(1, fmt.Sprintf("%d", item.SNo), props.Text{Size: 9}),
			text.NewCol(5, item.Description, props.Text{Size: 9}),
			text.NewCol(2, trimZeros(item.Qty), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, money(render.Currency, item.Rate), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, money(render.Currency, item.Amount), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(2, money(render.Currency, bill.TotalAmount), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	if render.FooterNote != "" {
		m.AddRow(12,
			text.NewCol(12, render.FooterNote, props.Text{Size: 8, Align: align.Center, Top: 6}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}

func contactLine(profile StudioProfile) string {
	parts := make([]string, 0, 2)
	if profile.Phone != "" {
		parts = append(parts, "Ph: "+profile.Phone)
	}
	if profile.Email != "" {
		parts = append(parts, profile.Email)
	}
	return strings.Join(parts, "  |  ")
}

func phoneLine(bill domain.Bill) string {
	if bill.CustomerPhone == nil || *bill.CustomerPhone == "" {
		return ""
	}
	return "Ph: " + *bill.CustomerPhone
}

func money(currency string, amount float64) string {
	return fmt.Sprintf("%s %.2f", currency, amount)
}

// trimZeros prints quantities like 2 as "2" and 2.5 as "2.5".
func trimZeros(qty float64) string {
	s := fmt.Sprintf("%.2f", qty)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

func toPageSize(size string) pagesize.Type {
	switch strings.ToUpper(strings.TrimSpace(size)) {
	case "A5":
		return pagesize.A5
	case "LETTER":
		return pagesize.Letter
	default:
		return pagesize.A4
	}
}
