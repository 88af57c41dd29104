package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskpro/backend/api/transport"
	"github.com/taskpro/backend/domain"
	"github.com/taskpro/backend/pkg/httpcontext"
	taskUC "github.com/taskpro/backend/usecase/task"
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

// @Summary List tasks
// @Tags tasks
// @Router /api/tasks [get]
func (h *TaskHandler) List(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	args := ctx.QueryArgs()
	opts := taskUC.ListOptions{
		Status:   string(args.Peek("status")),
		Priority: string(args.Peek("priority")),
		Search:   string(args.Peek("search")),
		Ordering: string(args.Peek("ordering")),
		Limit:    parseInt(string(args.Peek("limit")), 0),
		Offset:   parseInt(string(args.Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.List(stdCtx, userID, opts)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewTaskListResponse(tasks))
}

// @Summary Create task
// @Tags tasks
// @Router /api/tasks [post]
func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	input, ok := h.parseInput(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, userID, input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, transport.NewTaskResponse(created))
}

// @Summary Retrieve task
// @Tags tasks
// @Router /api/tasks/{id} [get]
func (h *TaskHandler) Get(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Get(stdCtx, userID, h.taskID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewTaskResponse(task))
}

// @Summary Update task
// @Tags tasks
// @Router /api/tasks/{id} [put]
func (h *TaskHandler) Update(ctx *fasthttp.RequestCtx) {
	h.update(ctx, false)
}

// @Summary Partially update task
// @Tags tasks
// @Router /api/tasks/{id} [patch]
func (h *TaskHandler) Patch(ctx *fasthttp.RequestCtx) {
	h.update(ctx, true)
}

func (h *TaskHandler) update(ctx *fasthttp.RequestCtx, partial bool) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	input, ok := h.parseInput(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, userID, h.taskID(ctx), input, partial)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewTaskResponse(updated))
}

// @Summary Delete task
// @Tags tasks
// @Router /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, userID, h.taskID(ctx)); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Mark task complete
// @Tags tasks
// @Router /api/tasks/{id}/mark_complete [post]
func (h *TaskHandler) MarkComplete(ctx *fasthttp.RequestCtx) {
	h.transition(ctx, h.uc.MarkComplete)
}

// @Summary Mark task pending
// @Tags tasks
// @Router /api/tasks/{id}/mark_pending [post]
func (h *TaskHandler) MarkPending(ctx *fasthttp.RequestCtx) {
	h.transition(ctx, h.uc.MarkPending)
}

func (h *TaskHandler) transition(ctx *fasthttp.RequestCtx, fn func(stdCtx context.Context, userID, id string) (*domain.Task, error)) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := fn(stdCtx, userID, h.taskID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewTaskResponse(task))
}

// @Summary Task counts for the dashboard header
// @Tags tasks
// @Router /api/summary [get]
func (h *TaskHandler) Summary(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	summary, err := h.uc.Summary(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, summary)
}

// @Summary Recent task activity
// @Tags tasks
// @Router /api/activity [get]
func (h *TaskHandler) Activity(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), 20)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	events, err := h.uc.Activity(stdCtx, userID, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, events)
}

func (h *TaskHandler) parseInput(ctx *fasthttp.RequestCtx) (taskUC.Input, bool) {
	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload"))
		return taskUC.Input{}, false
	}
	return taskUC.Input{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		DueDate:     req.DueDate,
	}, true
}

func (h *TaskHandler) taskID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	return id
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
