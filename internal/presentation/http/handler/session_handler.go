package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kiprotich/tillpoint-api/internal/application/service"
	"github.com/kiprotich/tillpoint-api/internal/presentation/http/dto/request"
	"github.com/kiprotich/tillpoint-api/internal/presentation/http/dto/response"
)

// SessionHandler handles register session HTTP requests
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Open handles POST /sessions/open
func (h *SessionHandler) Open(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	session, err := h.sessionService.OpenSession(c.Request.Context(), &service.OpenSessionInput{
		RegisterNumber: req.RegisterNumber,
		OpenedBy:       *userID,
		StartingAmount: req.StartingAmount,
		Notes:          req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Session opened", session)
}

// Close handles POST /sessions/:id/close
func (h *SessionHandler) Close(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	var req request.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	session, err := h.sessionService.CloseSession(c.Request.Context(), sessionID, &service.CloseSessionInput{
		ClosedBy:      *userID,
		CountedAmount: req.CountedAmount,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session closed", session)
}

// Active handles GET /registers/:register_number/session
func (h *SessionHandler) Active(c *gin.Context) {
	registerNumber := c.Param("register_number")

	session, err := h.sessionService.GetActiveSession(c.Request.Context(), registerNumber)
	if err != nil {
		response.Error(c, err)
		return
	}
	if session == nil {
		response.NotFound(c, "No open session on register "+registerNumber)
		return
	}

	response.OK(c, "Active session", session)
}

// Get handles GET /sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.sessionService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session", session)
}

// Summary handles GET /sessions/:id/summary
func (h *SessionHandler) Summary(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	summary, err := h.sessionService.Summarize(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session summary", summary)
}
