package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vamsi4727/bhanus-studio-billing/internal/audit"
	"github.com/vamsi4727/bhanus-studio-billing/internal/backup"
	"github.com/vamsi4727/bhanus-studio-billing/internal/bill"
	billdomain "github.com/vamsi4727/bhanus-studio-billing/internal/bill/domain"
	"github.com/vamsi4727/bhanus-studio-billing/internal/clock"
	"github.com/vamsi4727/bhanus-studio-billing/internal/config"
	"github.com/vamsi4727/bhanus-studio-billing/internal/invoicenumber"
	"github.com/vamsi4727/bhanus-studio-billing/internal/observability"
	obsmiddleware "github.com/vamsi4727/bhanus-studio-billing/internal/observability/logger"
	obsmetrics "github.com/vamsi4727/bhanus-studio-billing/internal/observability/metrics"
	obstracing "github.com/vamsi4727/bhanus-studio-billing/internal/observability/tracing"
	"github.com/vamsi4727/bhanus-studio-billing/internal/providers/pdf"
	"github.com/vamsi4727/bhanus-studio-billing/internal/settings"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	clock.Module,
	audit.Module,
	bill.Module,
	invoicenumber.Module,
	settings.Module,
	backup.Module,
	pdf.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config) *gin.Engine {
	return NewEngine(obsCfg)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	billSvc     billdomain.Service
	numberSvc   *invoicenumber.Service
	settingsSvc *settings.Service
	auditSvc    *audit.Service
	backupSvc   *backup.Service
	pdfProvider pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	BillSvc     billdomain.Service
	NumberSvc   *invoicenumber.Service
	SettingsSvc *settings.Service
	AuditSvc    *audit.Service
	BackupSvc   *backup.Service
	PDFProvider pdf.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		billSvc:     p.BillSvc,
		numberSvc:   p.NumberSvc,
		settingsSvc: p.SettingsSvc,
		auditSvc:    p.AuditSvc,
		backupSvc:   p.BackupSvc,
		pdfProvider: p.PDFProvider,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Bills --------
	api.POST("/bills", s.SaveBill)
	api.GET("/bills", s.ListBills)
	api.GET("/bills/:invoiceNumber", s.GetBill)
	api.GET("/bills/:invoiceNumber/pdf", s.ExportBillPDF)

	// -------- Invoice numbers --------
	// Separate group: gin cannot mix a static segment with the
	// :invoiceNumber wildcard under /bills.
	api.GET("/invoice-numbers/next", s.NextInvoiceNumber)

	// -------- Settings --------
	api.GET("/settings/profile", s.GetStudioProfile)
	api.PUT("/settings/profile", s.UpdateStudioProfile)

	// -------- Backup --------
	api.GET("/backup", s.ExportBackup)
	api.POST("/backup/restore", s.RestoreBackup)

	// -------- Audit --------
	api.GET("/audit", s.ListAuditLogs)
}
