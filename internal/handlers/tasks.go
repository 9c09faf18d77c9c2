package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rajeshkrishnamoorthy045/taskmanager/internal/export"
	"github.com/rajeshkrishnamoorthy045/taskmanager/internal/models"
	"github.com/rajeshkrishnamoorthy045/taskmanager/internal/store"
)

// TaskStore is what the handlers need from the persistence layer.
type TaskStore interface {
	CreateTask(ctx context.Context, t models.Task) (models.Task, error)
	ListTasks(ctx context.Context) ([]models.Task, error)
	UpdateTask(ctx context.Context, id int64, t models.Task) error
	DeleteTask(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

// TaskHandler serves the /tasks resource.
type TaskHandler struct {
	store    TaskStore
	exporter *export.Exporter
	log      *zap.SugaredLogger
}

func NewTaskHandler(st TaskStore, log *zap.SugaredLogger) *TaskHandler {
	return &TaskHandler{
		store:    st,
		exporter: export.NewExporter(st),
		log:      log,
	}
}

// CreateTask godoc
// @Summary      Create a task
// @Description  Stores a new task. Any id in the body is ignored.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        task  body      models.TaskInput  true  "Task"
// @Success      200   {object}  models.Task
// @Failure      422   {object}  models.ErrorResponse
// @Router       /tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var in models.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Detail: err.Error()})
		return
	}

	task, err := h.store.CreateTask(c.Request.Context(), in.Task())
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// ListTasks godoc
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Success      200  {array}   models.Task
// @Failure      500  {object}  models.ErrorResponse
// @Router       /tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.store.ListTasks(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

// UpdateTask godoc
// @Summary      Replace a task
// @Description  Overwrites title, description and completed. Fields left out of the body are not kept.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      int               true  "Task ID"
// @Param        task  body      models.TaskInput  true  "Task"
// @Success      200   {object}  models.MessageResponse
// @Failure      404   {object}  models.ErrorResponse
// @Failure      422   {object}  models.ErrorResponse
// @Router       /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var in models.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Detail: err.Error()})
		return
	}

	if err := h.store.UpdateTask(c.Request.Context(), id, in.Task()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Detail: "Task not found"})
			return
		}
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Task updated"})
}

// DeleteTask godoc
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  models.MessageResponse
// @Failure      404  {object}  models.ErrorResponse
// @Failure      422  {object}  models.ErrorResponse
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteTask(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Detail: "Task not found"})
			return
		}
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Task deleted"})
}

// ExportTasks godoc
// @Summary      Export tasks
// @Description  Renders every task as json, csv or pdf.
// @Tags         tasks
// @Produce      json
// @Produce      text/csv
// @Produce      application/pdf
// @Param        format  query  string  false  "json, csv or pdf"  default(json)
// @Success      200
// @Failure      400  {object}  models.ErrorResponse
// @Router       /tasks/export [get]
func (h *TaskHandler) ExportTasks(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "json"))
	b, contentType, err := h.exporter.Export(c.Request.Context(), format)
	if err != nil {
		if errors.Is(err, export.ErrUnknownFormat) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: err.Error()})
			return
		}
		h.internalError(c, err)
		return
	}
	if format != "json" {
		c.Header("Content-Disposition", "attachment; filename=tasks."+format)
	}
	c.Data(http.StatusOK, contentType, b)
}

// Health godoc
// @Summary      Liveness and database check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func (h *TaskHandler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.log.Warnw("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{Detail: "task id must be an integer"})
		return 0, false
	}
	return id, true
}

func (h *TaskHandler) internalError(c *gin.Context, err error) {
	h.log.Errorw("request failed",
		"requestID", c.GetString("requestID"),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"error", err,
	)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Detail: "Internal server error"})
}
