package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/report"
)

type ClientHandler struct {
	reports *report.Service
}

func NewClientHandler(reports *report.Service) *ClientHandler {
	return &ClientHandler{reports: reports}
}

// ======================================================
// LIST CLIENTS (agrupados por telefone)
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.reports.SearchClients(c.Request.Context(), strings.TrimSpace(c.Query("search")))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, clients)
}

func (h *ClientHandler) Show(c *gin.Context) {
	history, err := h.reports.ClientHistory(c.Request.Context(), c.Param("phone"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, history)
}
