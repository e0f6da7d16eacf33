package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mbpt/peertutor-backend/internal/model"
	"github.com/mbpt/peertutor-backend/internal/response"
	"github.com/mbpt/peertutor-backend/internal/service"
	"github.com/mbpt/peertutor-backend/internal/validator"
)

// MentorHandler handles mentor management endpoints.
type MentorHandler struct {
	mentorService *service.MentorService
}

// NewMentorHandler creates a new MentorHandler.
func NewMentorHandler(mentorService *service.MentorService) *MentorHandler {
	return &MentorHandler{mentorService: mentorService}
}

// CreateMentor godoc
// POST /api/v1/academic/mentor
// Creates a mentor from a multipart form with an "image" file part and
// assigns the listed classrooms atomically.
func (h *MentorHandler) CreateMentor(c *gin.Context) {
	var req model.CreateMentorRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer file.Close()

	mentor, err := h.mentorService.Create(c.Request.Context(), &req,
		fileHeader.Header.Get("Content-Type"), fileHeader.Size, file)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"mentor": mentor})
}

// ListMentors godoc
// GET /api/v1/academic/mentors
// Lists mentors with optional name, classroom, profession and certified filters.
func (h *MentorHandler) ListMentors(c *gin.Context) {
	var filter model.MentorFilter
	if v := c.Query("name"); v != "" {
		filter.Name = &v
	}
	if v := c.Query("classroom"); v != "" {
		filter.Classroom = &v
	}
	if v := c.Query("profession"); v != "" {
		filter.Profession = &v
	}
	if v := c.Query("certified"); v != "" {
		certified, err := strconv.ParseBool(v)
		if err != nil {
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, "certified must be a boolean")
			return
		}
		filter.IsCertified = &certified
	}

	mentors, err := h.mentorService.List(c.Request.Context(), filter)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"mentors": mentors})
}

// GetMentor godoc
// GET /api/v1/academic/mentor/:clerkId
// Fetches a mentor by clerk ID.
func (h *MentorHandler) GetMentor(c *gin.Context) {
	mentor, err := h.mentorService.GetByClerkID(c.Request.Context(), c.Param("clerkId"))
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"mentor": mentor})
}

// GetMentorProfile godoc
// GET /api/v1/academic/mentor/profile/:id
// Fetches a mentor with per-classroom session counts.
func (h *MentorHandler) GetMentorProfile(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	profile, err := h.mentorService.Profile(c.Request.Context(), id)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

// UpdateMentor godoc
// PUT /api/v1/academic/mentor/:id
// Overwrites the mutable fields of a mentor.
func (h *MentorHandler) UpdateMentor(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateMentorRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	mentor, err := h.mentorService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"mentor": mentor})
}

// DeleteMentor godoc
// DELETE /api/v1/academic/mentor/:clerkId
// Deletes a mentor; their classrooms become unassigned.
func (h *MentorHandler) DeleteMentor(c *gin.Context) {
	mentor, err := h.mentorService.Delete(c.Request.Context(), c.Param("clerkId"))
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"mentor": mentor})
}
