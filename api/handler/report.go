package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/pkg/httpcontext"
	reportUC "github.com/taskforge/backend/usecase/report"
)

type ReportHandler struct {
	baseHandler
	uc *reportUC.UseCase
}

func NewReportHandler(uc *reportUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List overdue tasks
// @Tags reports
// @Router /api/v1/reports/overdue [get]
func (h *ReportHandler) Overdue(ctx *fasthttp.RequestCtx) {
	page := parseInt(string(ctx.QueryArgs().Peek("page")), 0)
	size := parseInt(string(ctx.QueryArgs().Peek("size")), 20)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.OverdueTasks(stdCtx, page, size)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary List tasks due soon
// @Tags reports
// @Router /api/v1/reports/due-soon [get]
func (h *ReportHandler) DueSoon(ctx *fasthttp.RequestCtx) {
	days := parseInt(string(ctx.QueryArgs().Peek("days")), 7)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.TasksDueWithin(stdCtx, days)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Project status distribution
// @Tags reports
// @Router /api/v1/reports/projects/{id}/status-distribution [get]
func (h *ReportHandler) StatusDistribution(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	distribution, err := h.uc.StatusDistribution(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, distribution)
}

// @Summary Project statistics
// @Tags reports
// @Router /api/v1/reports/projects/{id}/statistics [get]
func (h *ReportHandler) ProjectStatistics(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	stats, err := h.uc.ProjectStatistics(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, stats)
}

// @Summary Project health
// @Tags reports
// @Router /api/v1/reports/projects/{id}/health [get]
func (h *ReportHandler) ProjectHealth(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	health, err := h.uc.ProjectHealth(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, health)
}

// @Summary Team productivity per project member
// @Tags reports
// @Router /api/v1/reports/projects/{id}/productivity [get]
func (h *ReportHandler) TeamProductivity(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	report, err := h.uc.TeamProductivity(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, report)
}

// @Summary Tasks completed per user over the last week
// @Tags reports
// @Router /api/v1/reports/productivity/weekly [get]
func (h *ReportHandler) WeeklyProductivity(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	report, err := h.uc.WeeklyProductivity(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, report)
}

// @Summary Most referenced tags
// @Tags reports
// @Router /api/v1/reports/tags/most-used [get]
func (h *ReportHandler) MostUsedTags(ctx *fasthttp.RequestCtx) {
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 10)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	usage, err := h.uc.MostUsedTags(stdCtx, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, usage)
}

// @Summary Task change history
// @Tags reports
// @Router /api/v1/tasks/{id}/history [get]
func (h *ReportHandler) TaskHistory(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entries, err := h.uc.TaskChangeHistory(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entries)
}
