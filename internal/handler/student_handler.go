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

// StudentHandler handles student management endpoints.
type StudentHandler struct {
	studentService *service.StudentService
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// CreateStudent godoc
// POST /api/v1/academic/student
// Creates a student, idempotently per clerk ID.
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req model.CreateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Create(c.Request.Context(), &req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// ListStudents godoc
// GET /api/v1/academic/student
// Lists students with optional address, age and first_name filters.
func (h *StudentHandler) ListStudents(c *gin.Context) {
	var filter model.StudentFilter
	if v := c.Query("address"); v != "" {
		filter.Address = &v
	}
	if v := c.Query("age"); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil {
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, "age must be an integer")
			return
		}
		filter.Age = &age
	}
	if v := c.Query("first_name"); v != "" {
		filter.FirstName = &v
	}

	students, err := h.studentService.List(c.Request.Context(), filter)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"students": students})
}

// GetStudent godoc
// GET /api/v1/academic/student/:clerkId
// Fetches a student by clerk ID.
func (h *StudentHandler) GetStudent(c *gin.Context) {
	student, err := h.studentService.GetByClerkID(c.Request.Context(), c.Param("clerkId"))
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// UpdateStudent godoc
// PUT /api/v1/academic/student/:clerkId
// Overwrites the mutable fields of a student.
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	var req model.UpdateStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.studentService.Update(c.Request.Context(), c.Param("clerkId"), &req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}

// DeleteStudent godoc
// DELETE /api/v1/academic/student/:clerkId
// Deletes a student and returns the removed record.
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	student, err := h.studentService.Delete(c.Request.Context(), c.Param("clerkId"))
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"student": student})
}
