package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vamsi4727/bhanus-studio-billing/internal/audit"
	billdomain "github.com/vamsi4727/bhanus-studio-billing/internal/bill/domain"
	"github.com/vamsi4727/bhanus-studio-billing/internal/providers/pdf"
	"github.com/vamsi4727/bhanus-studio-billing/internal/settings"
)

// SaveBill creates or overwrites a bill. Saving an existing invoice
// number replaces the whole record, matching how the billing form
// re-submits edits.
func (s *Server) SaveBill(c *gin.Context) {
	var req billdomain.SaveBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	bill, err := s.billSvc.Save(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditSvc.Record(c.Request.Context(), audit.ActionBillSaved, "bill", bill.InvoiceNumber, map[string]any{
		"totalAmount": bill.TotalAmount,
		"items":       len(bill.Items),
	})

	c.JSON(http.StatusOK, bill)
}

type listBillsQuery struct {
	Q    string `form:"q"`
	From string `form:"from"`
	To   string `form:"to"`
	Sort string `form:"sort"`
}

// ListBills returns bills, optionally filtered by a customer-name
// search term or an inclusive date range. Search and range filtering
// are separate modes; q wins when both are supplied.
func (s *Server) ListBills(c *gin.Context) {
	var query listBillsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()

	var (
		bills []billdomain.Bill
		err   error
	)
	switch {
	case strings.TrimSpace(query.Q) != "":
		bills, err = s.billSvc.SearchByCustomerName(ctx, query.Q)
	case strings.TrimSpace(query.From) != "" || strings.TrimSpace(query.To) != "":
		bills, err = s.billSvc.FilterByDateRange(ctx, billdomain.DateRangeRequest{
			From: strings.TrimSpace(query.From),
			To:   strings.TrimSpace(query.To),
		})
	case strings.EqualFold(strings.TrimSpace(query.Sort), "none"):
		bills, err = s.billSvc.List(ctx)
	default:
		bills, err = s.billSvc.ListSorted(ctx)
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if bills == nil {
		bills = []billdomain.Bill{}
	}
	c.JSON(http.StatusOK, gin.H{"bills": bills})
}

func (s *Server) GetBill(c *gin.Context) {
	bill, err := s.billSvc.GetByInvoiceNumber(c.Request.Context(), c.Param("invoiceNumber"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

// NextInvoiceNumber suggests a number for the next bill. The number is
// not reserved; two open forms may see the same suggestion.
func (s *Server) NextInvoiceNumber(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"invoiceNumber": s.numberSvc.Next(c.Request.Context()),
	})
}

func (s *Server) ExportBillPDF(c *gin.Context) {
	ctx := c.Request.Context()

	bill, err := s.billSvc.GetByInvoiceNumber(ctx, c.Param("invoiceNumber"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	profile, err := s.settingsSvc.Get(ctx, settings.ProfileKey)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.pdfProvider.GenerateBill(ctx, bill, pdf.StudioProfile{
		Name:    stringValue(profile, "name"),
		Address: stringValue(profile, "address"),
		Phone:   stringValue(profile, "phone"),
		Email:   stringValue(profile, "email"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+pdf.Filename(bill)+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func stringValue(m map[string]any, key string) string {
	value, _ := m[key].(string)
	return strings.TrimSpace(value)
}
