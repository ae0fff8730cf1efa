package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
	"github.com/polkiloo/stampcard/internal/domain/model"
	"github.com/polkiloo/stampcard/internal/server/http/dto"
)

// ProgramHandler manages loyalty program endpoints.
type ProgramHandler struct {
	facade ProgramFacade
}

// NewProgramHandler constructs ProgramHandler.
func NewProgramHandler(facade ProgramFacade) *ProgramHandler {
	return &ProgramHandler{facade: facade}
}

// Create handles POST /api/programs.
func (h *ProgramHandler) Create(c *gin.Context) {
	ownerID := CurrentOperatorID(c)

	var req dto.ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	program, err := h.facade.CreateProgram(c.Request.Context(), ownerID, req.Name, req.Reward, req.TotalSlots)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidName), errors.Is(err, domainErrors.ErrInvalidSlots):
			c.Status(http.StatusUnprocessableEntity)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, toProgramResponse(*program))
}

// List handles GET /api/programs.
func (h *ProgramHandler) List(c *gin.Context) {
	ownerID := CurrentOperatorID(c)

	programs, err := h.facade.Programs(c.Request.Context(), ownerID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(programs) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.ProgramResponse, 0, len(programs))
	for _, p := range programs {
		response = append(response, toProgramResponse(p))
	}

	c.JSON(http.StatusOK, response)
}

func toProgramResponse(program model.Program) dto.ProgramResponse {
	return dto.ProgramResponse{
		ID:         program.ID,
		Name:       program.Name,
		Reward:     program.Reward,
		TotalSlots: program.TotalSlots,
		CreatedAt:  program.CreatedAt,
	}
}
