package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mbpt/peertutor-backend/internal/repository"
	"github.com/mbpt/peertutor-backend/internal/response"
	"github.com/mbpt/peertutor-backend/internal/service"
)

// failFromError translates service and database errors into the API error
// envelope. Handlers call it after their own endpoint-specific checks.
func failFromError(c *gin.Context, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		switch {
		case errors.Is(err, repository.ErrLastMentorClassroom):
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrLastClassroom, ve.Message)
		case errors.Is(err, service.ErrTransitionNotAllowed):
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrInvalidTransition, ve.Message)
		default:
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, ve.Message)
		}
		return
	}

	var nf *service.NotFoundError
	if errors.As(err, &nf) {
		response.FailWithMessage(c, http.StatusNotFound, response.ErrNotFound, nf.Error())
		return
	}

	var ie *service.IntegrityError
	if errors.As(err, &ie) {
		response.FailWithMessage(c, http.StatusInternalServerError, response.ErrDataIntegrity, ie.Message)
		return
	}

	if errors.Is(err, pgx.ErrNoRows) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique constraint violation
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		case "23503": // foreign key constraint violation
			response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
			return
		}
	}

	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
