package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"Tracker/internal/auth"
	dom "Tracker/internal/domain"
	"Tracker/internal/dto"
	"Tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskHandler struct {
	svc  *service.TaskService
	log  zerolog.Logger
	prod bool
}

func NewTaskHandler(svc *service.TaskService, log zerolog.Logger, prod bool) *TaskHandler {
	return &TaskHandler{svc: svc, log: log, prod: prod}
}

// List godoc
// @Summary      List the caller's tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status    query  string  false  "Active | Completed | Archived"
// @Param        priority  query  string  false  "Low | Medium | High"
// @Param        archived  query  bool    false  "Archived flag"
// @Success      200  {array}   dto.TaskResponse
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c), filter)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasksToResponses(list))
}

// Create godoc
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate.Ptr(),
		Priority:    req.Priority,
		Subtasks:    dto.Subtasks(req.Subtasks),
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, taskToResponse(t))
}

// Update godoc
// @Summary      Update a task (field-level overwrite)
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Fields to overwrite"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		Archived:    req.Archived,
	}
	if req.DueDate != nil {
		in.DueDate = req.DueDate.Ptr()
	}
	if req.Subtasks != nil {
		subs := dto.Subtasks(*req.Subtasks)
		in.Subtasks = &subs
	}
	t, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, in)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Archive godoc
// @Summary      Set the archived flag
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Task ID"
// @Param        body  body      dto.ArchiveTaskRequest  true  "Desired flag"
// @Success      200   {object}  dto.TaskResponse
// @Failure      404   {object}  map[string]string
// @Router       /tasks/{id}/archive [patch]
func (h *TaskHandler) Archive(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}
	var req dto.ArchiveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.SetArchived(c.Request.Context(), auth.UserIDFromContext(c), id, *req.Archived)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// ReplaceSubtasks godoc
// @Summary      Replace the whole subtask array
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Task ID"
// @Param        body  body      dto.ReplaceSubtasksRequest  true  "Full subtask array"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /tasks/{id}/subtasks [patch]
func (h *TaskHandler) ReplaceSubtasks(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}
	var req dto.ReplaceSubtasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subtasks must be an array"})
		return
	}
	t, err := h.svc.ReplaceSubtasks(c.Request.Context(), auth.UserIDFromContext(c), id, dto.Subtasks(*req.Subtasks))
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(t))
}

// Delete godoc
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Task ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), id); err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

// parseTaskID reads the :id path param. A malformed id behaves exactly like
// a nonexistent one: 404, not 400, per the existence-masking rule.
func parseTaskID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return primitive.NilObjectID, false
	}
	return id, true
}

func parseFilter(c *gin.Context) (dom.TaskFilter, bool) {
	var f dom.TaskFilter
	if raw, present := c.GetQuery("status"); present {
		status, err := dom.ParseStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return f, false
		}
		f.Status = &status
	}
	if raw, present := c.GetQuery("priority"); present {
		priority, err := dom.ParsePriority(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return f, false
		}
		f.Priority = &priority
	}
	if raw, present := c.GetQuery("archived"); present {
		archived, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "archived must be a boolean"})
			return f, false
		}
		f.Archived = &archived
	}
	return f, true
}

func (h *TaskHandler) serviceError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	var verr service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr})
		return
	}
	h.log.Error().Err(err).Str("path", c.FullPath()).Msg("task operation failed")
	if h.prod {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func taskToResponse(t dom.Task) dto.TaskResponse {
	subtasks := t.Subtasks
	if subtasks == nil {
		subtasks = []dom.Subtask{}
	}
	return dto.TaskResponse{
		ID:          t.ID.Hex(),
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Status:      t.Status,
		Archived:    t.Archived,
		Subtasks:    subtasks,
		OwnerID:     t.OwnerID.Hex(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func tasksToResponses(list []dom.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(list))
	for i := range list {
		out[i] = taskToResponse(list[i])
	}
	return out
}
