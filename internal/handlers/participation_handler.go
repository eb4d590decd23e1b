package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/campus-events-api/internal/domain/participation"
	"github.com/gravadigital/campus-events-api/internal/response"
	"github.com/gravadigital/campus-events-api/internal/services"
)

type ParticipationHandler struct {
	registration *services.RegistrationService
	attendance   *services.AttendanceService
}

func NewParticipationHandler(registration *services.RegistrationService, attendance *services.AttendanceService) *ParticipationHandler {
	return &ParticipationHandler{
		registration: registration,
		attendance:   attendance,
	}
}

// Register handles POST /api/events/{event_id}/register
func (h *ParticipationHandler) Register(c *gin.Context) {
	student, ok := caller(c)
	if !ok {
		return
	}
	eventID, ok := pathUUID(c, "event_id")
	if !ok {
		return
	}

	p, err := h.registration.Register(c.Request.Context(), student.ID, eventID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Successfully registered for the event", p)
}

type SelfCheckInRequest struct {
	Code string `json:"code"`
}

// SelfCheckIn handles POST /api/events/{event_id}/checkin
func (h *ParticipationHandler) SelfCheckIn(c *gin.Context) {
	student, ok := caller(c)
	if !ok {
		return
	}
	eventID, ok := pathUUID(c, "event_id")
	if !ok {
		return
	}

	// the body is optional for events without an attendance code
	var req SelfCheckInRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	res, err := h.attendance.SelfCheckIn(c.Request.Context(), student.ID, eventID, req.Code)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, checkInMessage(res.Outcome), res)
}

type OrganizerCheckInRequest struct {
	Email string `json:"email" binding:"required"`
}

// OrganizerCheckIn handles POST /api/organizer/events/{event_id}/attendance
func (h *ParticipationHandler) OrganizerCheckIn(c *gin.Context) {
	organizer, ok := caller(c)
	if !ok {
		return
	}
	eventID, ok := pathUUID(c, "event_id")
	if !ok {
		return
	}

	var req OrganizerCheckInRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.attendance.OrganizerCheckIn(c.Request.Context(), organizer.ID, eventID, req.Email)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, checkInMessage(res.Outcome), res)
}

type AdvanceRequest struct {
	Status participation.Status `json:"status" binding:"required"`
	Score  *float64             `json:"score"`
	Notes  *string              `json:"notes"`
}

// Advance handles POST /api/organizer/events/{event_id}/participants/{student_id}/advance
func (h *ParticipationHandler) Advance(c *gin.Context) {
	organizer, ok := caller(c)
	if !ok {
		return
	}
	eventID, ok := pathUUID(c, "event_id")
	if !ok {
		return
	}
	studentID, ok := pathUUID(c, "student_id")
	if !ok {
		return
	}

	var req AdvanceRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.attendance.Advance(c.Request.Context(), organizer.ID, eventID, studentID, services.AdvanceInput{
		Status: req.Status,
		Score:  req.Score,
		Notes:  req.Notes,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Participation updated", p)
}

func checkInMessage(outcome services.CheckInOutcome) string {
	switch outcome {
	case services.OutcomeWalkIn:
		return "Walk-in attendance recorded"
	case services.OutcomeAlreadyCheckedIn:
		return "Already checked in"
	default:
		return "Checked in successfully"
	}
}
