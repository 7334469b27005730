package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"callqueue/internal/models"
	"callqueue/internal/queue"
	"callqueue/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler bundles the queue engine and read side for the HTTP API.
type Handler struct {
	engine *queue.Engine
	reader *queue.Reader
	log    zerolog.Logger
}

func NewHandler(engine *queue.Engine, reader *queue.Reader, log zerolog.Logger) *Handler {
	return &Handler{engine: engine, reader: reader, log: log.With().Str("component", "http").Logger()}
}

// CallerRequest is the body of increment and decrement requests.
type CallerRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required" example:"555-0101"`
	QueueName   string `json:"queue_name" binding:"required" example:"sales"`
}

// PositionResponse reports the position a caller was assigned.
type PositionResponse struct {
	Position int `json:"position" example:"3"`
}

// CountResponse reports how many callers wait in a single queue.
type CountResponse struct {
	QueueName string `json:"queue_name" example:"sales"`
	Count     int    `json:"count" example:"3"`
}

// SummaryResponse lists every queue that currently has callers waiting.
type SummaryResponse struct {
	Queues []models.QueueCount `json:"queues"`
}

// IncrementQueue handles a caller entering a queue.
// @Summary		Add a caller to a queue
// @Description	Appends the caller to the end of the named queue and returns the assigned position
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			input	body		CallerRequest	true	"Caller and queue"
// @Success		200		{object}	PositionResponse	"Position assigned to the caller"
// @Failure		400		{object}	response.ErrorResponse	"Validation error (INVALID_REQUEST)"
// @Failure		409		{object}	response.ErrorResponse	"Caller already waiting (DUPLICATE_CALLER)"
// @Failure		500		{object}	response.ErrorResponse	"Server error (STORE_ERROR)"
// @Router			/queue/increment [post]
func (h *Handler) IncrementQueue(c *gin.Context) {
	var req CallerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "phone_number and queue_name are required",
			Details: err.Error(),
		})
		return
	}

	position, err := h.engine.Join(c.Request.Context(), req.PhoneNumber, req.QueueName)
	if err != nil {
		switch {
		case errors.Is(err, queue.ErrDuplicate):
			c.JSON(http.StatusConflict, response.ErrorResponse{
				Code:    "DUPLICATE_CALLER",
				Message: fmt.Sprintf("Caller %s is already waiting in queue %s", req.PhoneNumber, req.QueueName),
			})
		case errors.Is(err, queue.ErrEmptyIdentifier):
			c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Code:    "INVALID_REQUEST",
				Message: "phone_number and queue_name must not be blank",
			})
		default:
			h.log.Error().Err(err).Str("queue", req.QueueName).Msg("join failed")
			c.JSON(http.StatusInternalServerError, response.ErrorResponse{
				Code:    "STORE_ERROR",
				Message: "Failed to add the caller to the queue",
				Details: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, PositionResponse{Position: position})
}

// DecrementQueue handles a caller leaving a queue.
// @Summary		Remove a caller from a queue
// @Description	Removes the caller and renumbers everyone behind them; removing an absent caller is not an error
// @Tags			queue
// @Accept			json
// @Produce		json
// @Param			input	body		CallerRequest	true	"Caller and queue"
// @Success		200		{object}	response.MessageResponse	"Removal outcome"
// @Failure		400		{object}	response.ErrorResponse	"Validation error (INVALID_REQUEST)"
// @Failure		500		{object}	response.ErrorResponse	"Server error (STORE_ERROR)"
// @Router			/queue/decrement [post]
func (h *Handler) DecrementQueue(c *gin.Context) {
	var req CallerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "phone_number and queue_name are required",
			Details: err.Error(),
		})
		return
	}

	_, removed, err := h.engine.Leave(c.Request.Context(), req.PhoneNumber, req.QueueName)
	if err != nil {
		if errors.Is(err, queue.ErrEmptyIdentifier) {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Code:    "INVALID_REQUEST",
				Message: "phone_number and queue_name must not be blank",
			})
			return
		}
		h.log.Error().Err(err).Str("queue", req.QueueName).Msg("leave failed")
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "STORE_ERROR",
			Message: "Failed to remove the caller from the queue",
			Details: err.Error(),
		})
		return
	}

	if !removed {
		c.JSON(http.StatusOK, response.MessageResponse{
			Message: "Caller not found in the queue or already removed.",
		})
		return
	}

	c.JSON(http.StatusOK, response.MessageResponse{
		Message: fmt.Sprintf("Caller %s removed from queue %s.", req.PhoneNumber, req.QueueName),
	})
}

// QueueStatus handles a lookup of one caller's place.
// @Summary		Look up a caller's place in a queue
// @Description	Reports whether the caller is waiting in the named queue and at which position
// @Tags			queue
// @Produce		json
// @Param			phone_number	query		string	true	"Caller phone number"
// @Param			queue_name		query		string	true	"Queue name"
// @Success		200				{object}	queue.Status	"Caller status"
// @Failure		400				{object}	response.ErrorResponse	"Validation error (INVALID_REQUEST)"
// @Failure		500				{object}	response.ErrorResponse	"Server error (STORE_ERROR)"
// @Router			/queue/status [get]
func (h *Handler) QueueStatus(c *gin.Context) {
	phone := c.Query("phone_number")
	queueName := c.Query("queue_name")

	status, err := h.reader.Status(c.Request.Context(), phone, queueName)
	if err != nil {
		if errors.Is(err, queue.ErrEmptyIdentifier) {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Code:    "INVALID_REQUEST",
				Message: "phone_number and queue_name query parameters are required",
			})
			return
		}
		h.log.Error().Err(err).Str("queue", queueName).Msg("status lookup failed")
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "STORE_ERROR",
			Message: "Failed to look up the caller",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, status)
}

// QueueCount handles a queue size lookup.
// @Summary		Count callers in a queue
// @Description	Returns how many callers are currently waiting; an unknown queue counts as zero
// @Tags			queue
// @Produce		json
// @Param			queue_name	path		string	true	"Queue name"
// @Success		200			{object}	CountResponse	"Current queue size"
// @Failure		400			{object}	response.ErrorResponse	"Validation error (INVALID_REQUEST)"
// @Failure		500			{object}	response.ErrorResponse	"Server error (STORE_ERROR)"
// @Router			/queue/count/{queue_name} [get]
func (h *Handler) QueueCount(c *gin.Context) {
	queueName := c.Param("queue_name")

	count, err := h.reader.Count(c.Request.Context(), queueName)
	if err != nil {
		if errors.Is(err, queue.ErrEmptyIdentifier) {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Code:    "INVALID_REQUEST",
				Message: "queue_name must not be blank",
			})
			return
		}
		h.log.Error().Err(err).Str("queue", queueName).Msg("count failed")
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "STORE_ERROR",
			Message: "Failed to count the queue",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, CountResponse{QueueName: queueName, Count: count})
}

// QueuesSummary handles the all-queues overview.
// @Summary		Summarize all queues
// @Description	Lists every non-empty queue with its current caller count
// @Tags			queue
// @Produce		json
// @Success		200	{object}	SummaryResponse	"Per-queue caller counts"
// @Failure		500	{object}	response.ErrorResponse	"Server error (STORE_ERROR)"
// @Router			/queues/summary [get]
func (h *Handler) QueuesSummary(c *gin.Context) {
	summary, err := h.reader.Summary(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("summary failed")
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{
			Code:    "STORE_ERROR",
			Message: "Failed to collect the queue summary",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, SummaryResponse{Queues: summary})
}
