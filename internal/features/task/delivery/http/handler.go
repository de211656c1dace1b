package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"miner-backend/internal/common/logger"
	authmw "miner-backend/internal/features/auth/middleware"
	"miner-backend/internal/features/task/models"
	"miner-backend/internal/features/task/repository"
	"miner-backend/internal/features/task/service"
)

type TaskHandler struct {
	service service.TaskService
}

func NewTaskHandler(service service.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// RegisterRoutes registers task routes. Task creation is open, matching
// the original route table; everything else sits behind the gate.
func (h *TaskHandler) RegisterRoutes(router *gin.RouterGroup, gate gin.HandlerFunc) {
	router.POST("/tasks/new", h.createTask)

	authed := router.Group("", gate)
	{
		authed.POST("/complete-task/:taskId", h.completeTask)
		authed.GET("/user/tasks", h.getUserTasks)
	}
}

// @Summary Create a reward task
// @Tags tasks
// @Accept json
// @Produce json
// @Success 200 {object} models.Task
// @Failure 400 {object} map[string]string
// @Router /tasks/new [post]
func (h *TaskHandler) createTask(c *gin.Context) {
	var input models.CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.service.CreateTask(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTask) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		logger.Error().Err(err).Msg("task creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusOK, task)
}

// @Summary Complete a task
// @Description Records the completion and credits the task's point reward once.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Task
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /complete-task/{taskId} [post]
func (h *TaskHandler) completeTask(c *gin.Context) {
	session, ok := authmw.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	task, err := h.service.CompleteTask(c.Request.Context(), session.UserID, session.TelegramID, c.Param("taskId"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, repository.ErrTaskAlreadyCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "Task already completed"})
		default:
			logger.Error().Err(err).Str("user_id", session.UserID).Msg("task completion failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete task"})
		}
		return
	}

	c.JSON(http.StatusOK, task)
}

// @Summary List tasks split by completion state
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserTasks
// @Router /user/tasks [get]
func (h *TaskHandler) getUserTasks(c *gin.Context) {
	session, ok := authmw.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tasks, err := h.service.GetUserTasks(c.Request.Context(), session.UserID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", session.UserID).Msg("failed to get user tasks")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user tasks"})
		return
	}

	c.JSON(http.StatusOK, tasks)
}
