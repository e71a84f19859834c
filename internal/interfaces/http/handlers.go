package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arraylab/beamtune/internal/analysis"
	"github.com/arraylab/beamtune/internal/logging"
	apperrors "github.com/arraylab/beamtune/pkg/errors"
	"github.com/arraylab/beamtune/pkg/types"
)

// analyzeHandler serves the two analyze endpoints.
type analyzeHandler struct {
	logger logging.Logger
}

func newAnalyzeHandler(logger logging.Logger) *analyzeHandler {
	return &analyzeHandler{logger: logger.Named("analyze")}
}

// Linear handles POST /api/linear-array/analyze.
func (h *analyzeHandler) Linear(c *gin.Context) {
	var req types.LinearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperrors.Wrap(err, apperrors.ErrCodeSerialization, "malformed request body"))
		return
	}
	res, err := analysis.AnalyzeLinear(req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Planar handles POST /api/planar-array/analyze.
func (h *analyzeHandler) Planar(c *gin.Context) {
	var req types.PlanarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, apperrors.Wrap(err, apperrors.ErrCodeSerialization, "malformed request body"))
		return
	}
	res, err := analysis.AnalyzePlanar(req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// fail writes the error envelope.  The message is the human-readable part
// only; clients surface it verbatim in their error banner.
func (h *analyzeHandler) fail(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	status := apperrors.HTTPStatusForCode(code)

	msg := err.Error()
	var appErr *apperrors.AppError
	if e, ok := err.(*apperrors.AppError); ok {
		appErr = e
		msg = appErr.Message
		if appErr.Detail != "" {
			msg = appErr.Message + ": " + appErr.Detail
		}
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("analyze request failed", logging.String("code", code.String()), logging.Err(err))
	}
	c.JSON(status, types.ErrorResponse{Message: msg})
}
