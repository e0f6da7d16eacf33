package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mbpt/peertutor-backend/internal/model"
	"github.com/mbpt/peertutor-backend/internal/response"
	"github.com/mbpt/peertutor-backend/internal/service"
)

// ClassroomHandler handles classroom management endpoints.
type ClassroomHandler struct {
	classroomService *service.ClassroomService
}

// NewClassroomHandler creates a new ClassroomHandler.
func NewClassroomHandler(classroomService *service.ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{classroomService: classroomService}
}

// CreateClassroom godoc
// POST /api/v1/academic/classroom
// Creates a classroom from a multipart form: a "title" field and an "image"
// file part, both required.
func (h *ClassroomHandler) CreateClassroom(c *gin.Context) {
	title := c.PostForm("title")

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

	classroom, err := h.classroomService.Create(c.Request.Context(), title,
		fileHeader.Header.Get("Content-Type"), fileHeader.Size, file)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"classroom": classroom})
}

// ListClassrooms godoc
// GET /api/v1/academic/classroom
// Lists classrooms with optional title, mentor name and enrolled count filters.
func (h *ClassroomHandler) ListClassrooms(c *gin.Context) {
	var filter model.ClassroomFilter
	if v := c.Query("title"); v != "" {
		filter.Title = &v
	}
	if v := c.Query("mentor"); v != "" {
		filter.MentorName = &v
	}
	if v := c.Query("min_enrolled"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, "min_enrolled must be an integer")
			return
		}
		filter.MinCount = &n
	}
	if v := c.Query("max_enrolled"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, "max_enrolled must be an integer")
			return
		}
		filter.MaxCount = &n
	}

	classrooms, err := h.classroomService.List(c.Request.Context(), filter)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classrooms": classrooms})
}

// ListUnassignedClassrooms godoc
// GET /api/v1/academic/classroom/unassigned
// Lists classrooms without an assigned mentor.
func (h *ClassroomHandler) ListUnassignedClassrooms(c *gin.Context) {
	classrooms, err := h.classroomService.ListUnassigned(c.Request.Context())
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classrooms": classrooms})
}

// GetClassroom godoc
// GET /api/v1/academic/classroom/:id
// Fetches a classroom by ID.
func (h *ClassroomHandler) GetClassroom(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	classroom, err := h.classroomService.Get(c.Request.Context(), id)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classroom": classroom})
}

// UpdateClassroom godoc
// PUT /api/v1/academic/classroom/:id
// Updates a classroom from a multipart form. The title is always replaced;
// the image only when a new file or an explicit "class_image" URL is sent.
func (h *ClassroomHandler) UpdateClassroom(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	title := c.PostForm("title")
	imageURL := c.PostForm("class_image")

	var (
		file        io.ReadCloser
		contentType string
		size        int64
	)
	if fileHeader, err := c.FormFile("image"); err == nil {
		file, err = fileHeader.Open()
		if err != nil {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		defer file.Close()
		contentType = fileHeader.Header.Get("Content-Type")
		size = fileHeader.Size
	}

	var reader io.Reader
	if file != nil {
		reader = file
	}

	classroom, err := h.classroomService.Update(c.Request.Context(), id, title, imageURL, contentType, size, reader)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classroom": classroom})
}

// DeleteClassroom godoc
// DELETE /api/v1/academic/classroom/:id
// Deletes a classroom unless it is its mentor's only one.
func (h *ClassroomHandler) DeleteClassroom(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	classroom, err := h.classroomService.Delete(c.Request.Context(), id)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"classroom": classroom})
}
