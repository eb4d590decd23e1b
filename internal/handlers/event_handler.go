package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/campus-events-api/internal/domain/event"
	"github.com/gravadigital/campus-events-api/internal/response"
	"github.com/gravadigital/campus-events-api/internal/services"
)

type EventHandler struct {
	events *services.EventService
}

func NewEventHandler(events *services.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// ListOpen handles GET /api/events
func (h *EventHandler) ListOpen(c *gin.Context) {
	events, err := h.events.ListOpenEvents(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"events": events,
		"count":  len(events),
	})
}

// Get handles GET /api/events/{event_id}
func (h *EventHandler) Get(c *gin.Context) {
	eventID, ok := pathUUID(c, "event_id")
	if !ok {
		return
	}

	e, err := h.events.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", e)
}

// Create handles POST /api/organizer/events
func (h *EventHandler) Create(c *gin.Context) {
	organizer, ok := caller(c)
	if !ok {
		return
	}

	var req services.CreateEventRequest
	if !bindJSON(c, &req) {
		return
	}

	e, err := h.events.CreateEvent(c.Request.Context(), organizer, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Event created", e)
}

// ListMine handles GET /api/organizer/events
func (h *EventHandler) ListMine(c *gin.Context) {
	organizer, ok := caller(c)
	if !ok {
		return
	}

	events, err := h.events.ListOrganizerEvents(c.Request.Context(), organizer.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"events": events,
		"count":  len(events),
	})
}

// Participants handles GET /api/organizer/events/{event_id}/participants
func (h *EventHandler) Participants(c *gin.Context) {
	organizer, ok := caller(c)
	if !ok {
		return
	}
	eventID, ok := pathUUID(c, "event_id")
	if !ok {
		return
	}

	roster, err := h.events.ListEventParticipants(c.Request.Context(), organizer.ID, eventID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"participants": roster,
		"count":        len(roster),
	})
}

type UpdateStageRequest struct {
	Stage string `json:"stage" binding:"required"`
}

// UpdateStage handles PATCH /api/organizer/events/{event_id}/stage
func (h *EventHandler) UpdateStage(c *gin.Context) {
	organizer, ok := caller(c)
	if !ok {
		return
	}
	eventID, ok := pathUUID(c, "event_id")
	if !ok {
		return
	}

	var req UpdateStageRequest
	if !bindJSON(c, &req) {
		return
	}

	stage, valid := event.StageFromString(req.Stage)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":      false,
			"error":        "Invalid stage",
			"code":         http.StatusBadRequest,
			"valid_stages": []string{"draft", "published", "registration_open", "ongoing", "completed", "archived"},
		})
		return
	}

	e, err := h.events.UpdateStage(c.Request.Context(), organizer.ID, eventID, stage)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Event stage updated", e)
}

// UploadBanner handles POST /api/organizer/events/{event_id}/banner
func (h *EventHandler) UploadBanner(c *gin.Context) {
	organizer, ok := caller(c)
	if !ok {
		return
	}
	eventID, ok := pathUUID(c, "event_id")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequestError(c, "No file provided")
		return
	}
	defer file.Close()

	e, err := h.events.UploadBanner(c.Request.Context(), organizer.ID, eventID, services.BannerUpload{
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Banner uploaded", e)
}

// CheckInQR handles GET /api/organizer/events/{event_id}/checkin-qr
func (h *EventHandler) CheckInQR(c *gin.Context) {
	organizer, ok := caller(c)
	if !ok {
		return
	}
	eventID, ok := pathUUID(c, "event_id")
	if !ok {
		return
	}

	png, err := h.events.CheckInQRCode(c.Request.Context(), organizer.ID, eventID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
