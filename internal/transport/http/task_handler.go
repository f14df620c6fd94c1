package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Todo_APP_BackEnd/internal/domain"
	"github.com/njprem/Todo_APP_BackEnd/internal/service"
	"github.com/njprem/Todo_APP_BackEnd/internal/util"
)

const maxTaskBodyBytes = 1 << 20

type TaskService interface {
	Create(ctx context.Context, in service.TaskInput) (*domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	UpdateJSON(ctx context.Context, id int64, body []byte) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
}

type TaskHandler struct {
	tasks TaskService
}

func RegisterTasks(e *echo.Echo, tasks TaskService) {
	h := &TaskHandler{tasks: tasks}
	group := e.Group("/tasks")
	group.POST("", h.create)
	group.GET("", h.list)
	group.PUT("/:id", h.update)
	group.DELETE("/:id", h.delete)
}

func (h *TaskHandler) create(c echo.Context) error {
	var req CreateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.tasks.Create(c.Request().Context(), service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
	})
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) list(c echo.Context) error {
	tasks, err := h.tasks.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) update(c echo.Context) error {
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxTaskBodyBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid request body").SetInternal(err)
	}
	task, err := h.tasks.UpdateJSON(c.Request().Context(), id, body)
	if err != nil {
		return taskError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) delete(c echo.Context) error {
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}
	if err := h.tasks.Delete(c.Request().Context(), id); err != nil {
		return taskError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseTaskID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, "task id must be an integer")
	}
	return id, nil
}

func taskError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		return c.JSON(http.StatusNotFound, util.Error("Task not found"))
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusUnprocessableEntity, util.Error(err.Error()))
	default:
		return err
	}
}
