package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/api/transport"
	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/pkg/httpcontext"
	taskUC "github.com/taskforge/backend/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Get task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) Get(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetByID(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.TaskCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	due, err := parseOptionalDate(req.DueDate)
	if err != nil {
		h.respondInvalid(ctx, "invalid due_date")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Create(stdCtx, taskUC.CreateInput{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     domain.TaskPriority(req.Priority),
		DueDate:      due,
		ProjectID:    req.ProjectID,
		AssigneeID:   req.AssigneeID,
		ParentTaskID: req.ParentTaskID,
		TagIDs:       req.TagIDs,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, task)
}

// @Summary Update task
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) Update(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	var req transport.TaskUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	input := taskUC.UpdateInput{
		Title:        req.Title,
		Description:  req.Description,
		AssigneeID:   req.AssigneeID,
		ParentTaskID: req.ParentTaskID,
		TagIDs:       req.TagIDs,
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		input.Priority = &priority
	}
	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			h.respondInvalid(ctx, "invalid due_date")
			return
		}
		input.DueDate = &due
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Update(stdCtx, id, input, actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Change task status
// @Tags tasks
// @Router /api/v1/tasks/{id}/status [put]
func (h *TaskHandler) ChangeStatus(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	var req transport.StatusRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.ChangeStatus(stdCtx, id, domain.TaskStatus(req.Status), actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Assign task
// @Tags tasks
// @Router /api/v1/tasks/{id}/assignee [put]
func (h *TaskHandler) Assign(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	var req transport.AssignRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.UserID == "" {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Assign(stdCtx, id, req.UserID, actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Unassign task
// @Tags tasks
// @Router /api/v1/tasks/{id}/assignee [delete]
func (h *TaskHandler) Unassign(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Unassign(stdCtx, id, actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Add tag to task
// @Tags tasks
// @Router /api/v1/tasks/{id}/tags/{tagID} [post]
func (h *TaskHandler) AddTag(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)
	tagID, _ := ctx.UserValue("tagID").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.AddTag(stdCtx, id, tagID, actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Remove tag from task
// @Tags tasks
// @Router /api/v1/tasks/{id}/tags/{tagID} [delete]
func (h *TaskHandler) RemoveTag(ctx *fasthttp.RequestCtx) {
	actor := h.actorID(ctx)
	if actor == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)
	tagID, _ := ctx.UserValue("tagID").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.RemoveTag(stdCtx, id, tagID, actor)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary List subtasks
// @Tags tasks
// @Router /api/v1/tasks/{id}/subtasks [get]
func (h *TaskHandler) Subtasks(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.Subtasks(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary List project tasks
// @Tags tasks
// @Router /api/v1/projects/{id}/tasks [get]
func (h *TaskHandler) ListByProject(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListByProject(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary List tasks assigned to a user
// @Tags tasks
// @Router /api/v1/users/{id}/tasks [get]
func (h *TaskHandler) ListByAssignee(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListByAssignee(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Search tasks
// @Tags tasks
// @Router /api/v1/tasks/search [post]
func (h *TaskHandler) Search(ctx *fasthttp.RequestCtx) {
	var req transport.TaskSearchRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	criteria, err := buildCriteria(req)
	if err != nil {
		h.respondInvalid(ctx, err.Error())
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.Search(stdCtx, criteria)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

func buildCriteria(req transport.TaskSearchRequest) (domain.TaskSearchCriteria, error) {
	criteria := domain.TaskSearchCriteria{
		Keyword:      req.Keyword,
		ProjectID:    req.ProjectID,
		AssigneeID:   req.AssigneeID,
		ParentTaskID: req.ParentTaskID,
		TagIDs:       req.TagIDs,
		HasSubTasks:  req.HasSubTasks,
		IsOverdue:    req.IsOverdue,
	}
	if req.Status != "" {
		status := domain.TaskStatus(req.Status)
		criteria.Status = &status
	}
	if req.Priority != "" {
		priority := domain.TaskPriority(req.Priority)
		criteria.Priority = &priority
	}

	var err error
	if criteria.DueFrom, err = parseOptionalDate(req.DueFrom); err != nil {
		return criteria, domain.NewError(domain.ErrCodeInvalid, "invalid due_from")
	}
	if criteria.DueTo, err = parseOptionalDate(req.DueTo); err != nil {
		return criteria, domain.NewError(domain.ErrCodeInvalid, "invalid due_to")
	}
	if criteria.CreatedFrom, err = parseOptionalDate(req.CreatedFrom); err != nil {
		return criteria, domain.NewError(domain.ErrCodeInvalid, "invalid created_from")
	}
	if criteria.CreatedTo, err = parseOptionalDate(req.CreatedTo); err != nil {
		return criteria, domain.NewError(domain.ErrCodeInvalid, "invalid created_to")
	}
	return criteria, nil
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
