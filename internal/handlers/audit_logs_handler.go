package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs *audit.Logger
}

func NewAuditLogsHandler(logs *audit.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page := pageParam(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	f := audit.Filter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Page:   page,
		Limit:  limit,
	}

	// --------------------------------------------------
	// Filtros de data (dia inteiro, fuso da barbearia)
	// --------------------------------------------------

	loc := timezone.Business()

	if v := c.Query("from"); v != "" {
		from, err := timezone.ParseDate(v, loc)
		if err != nil {
			httperr.Respond(c, httperr.Validation("INVALID_DATE", "from must be YYYY-MM-DD"))
			return
		}
		f.From = &from
	}

	if v := c.Query("to"); v != "" {
		to, err := timezone.ParseDate(v, loc)
		if err != nil {
			httperr.Respond(c, httperr.Validation("INVALID_DATE", "to must be YYYY-MM-DD"))
			return
		}
		end := to.Add(24 * time.Hour)
		f.To = &end
	}

	logs, total, err := h.logs.List(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, logs, total, page, limit)
}
