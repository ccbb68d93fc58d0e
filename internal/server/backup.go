package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vamsi4727/bhanus-studio-billing/internal/audit"
)

const maxSnapshotBytes = 32 << 20

func (s *Server) ExportBackup(c *gin.Context) {
	ctx := c.Request.Context()

	id, data, err := s.backupSvc.Export(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditSvc.Record(ctx, audit.ActionBackupExported, "backup", id, map[string]any{
		"bytes": len(data),
	})

	c.Header("Content-Disposition", `attachment; filename="`+s.backupSvc.Filename(id)+`"`)
	c.Data(http.StatusOK, "application/octet-stream", data)
}

func (s *Server) RestoreBackup(c *gin.Context) {
	ctx := c.Request.Context()

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSnapshotBytes))
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.backupSvc.Restore(ctx, data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditSvc.Record(ctx, audit.ActionBackupRestored, "backup", "", map[string]any{
		"restored": result.Restored,
		"skipped":  len(result.Skipped),
	})

	c.JSON(http.StatusOK, result)
}
