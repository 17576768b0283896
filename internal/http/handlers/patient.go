package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bundasehat/screening-backend/internal/http/response"
	"github.com/bundasehat/screening-backend/internal/services"
)

type PatientHandler struct {
	patientService services.PatientService
}

func NewPatientHandler(patientService services.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

// POST /api/pasien-information
// body: { "user_id"?, "name", "age", "phone", "address" }
func (ph *PatientHandler) Create(c *gin.Context) {
	var req services.PatientInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := ph.patientService.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "Patient information saved", p)
}

// GET /api/pasien-information/:id
func (ph *PatientHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := ph.patientService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, "Patient information", p)
}
