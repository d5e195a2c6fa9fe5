package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/tools"
)

const maxToolArgsBytes = 64 << 10

type ToolCaller interface {
	CallNamed(ctx context.Context, name string, args []byte) tools.Result
}

// ToolHandler expõe as ferramentas de agendamento via HTTP, para camadas de
// diálogo fora do processo.
type ToolHandler struct {
	tools ToolCaller
	log   logrus.FieldLogger
}

func NewToolHandler(caller ToolCaller, log logrus.FieldLogger) *ToolHandler {
	return &ToolHandler{tools: caller, log: log}
}

// ======================================================
// GET /api/tools
// ======================================================

func (h *ToolHandler) List(c *gin.Context) {
	httpresp.List(c, tools.Definitions())
}

// ======================================================
// POST /api/tools/:name
// ======================================================

// Call sempre responde 200 para ferramenta conhecida: info e error fazem parte
// do resultado, não são falha de transporte.
func (h *ToolHandler) Call(c *gin.Context) {
	name := c.Param("name")
	if _, ok := tools.ParseName(name); !ok {
		httperr.NotFound(c, "unknown_tool", "Ferramenta desconhecida.")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxToolArgsBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperr.TooLarge(c, "arguments_too_large", "Argumentos muito grandes.")
			return
		}
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	res := h.tools.CallNamed(c.Request.Context(), name, body)

	h.log.WithFields(logrus.Fields{
		"tool":     name,
		"outcome":  res.Outcome(),
		"operator": middleware.OperatorID(c),
	}).Info("tool called over http")

	httpresp.OK(c, res)
}
