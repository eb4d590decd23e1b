package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/campus-events-api/internal/response"
	"github.com/gravadigital/campus-events-api/internal/services"
)

type CertificateHandler struct {
	certification *services.CertificationService
}

func NewCertificateHandler(certification *services.CertificationService) *CertificateHandler {
	return &CertificateHandler{certification: certification}
}

// List handles GET /api/me/certificates
func (h *CertificateHandler) List(c *gin.Context) {
	student, ok := caller(c)
	if !ok {
		return
	}

	list, err := h.certification.ListCertifiableEvents(c.Request.Context(), student.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"certificates": list,
		"count":        len(list),
	})
}

// Download handles GET /api/me/certificates/{participation_id}/pdf
func (h *CertificateHandler) Download(c *gin.Context) {
	student, ok := caller(c)
	if !ok {
		return
	}
	participationID, ok := pathUUID(c, "participation_id")
	if !ok {
		return
	}

	cert, err := h.certification.RenderCertificate(c.Request.Context(), student.ID, participationID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+cert.Filename+`"`)
	c.Data(http.StatusOK, "application/pdf", cert.PDF)
}
