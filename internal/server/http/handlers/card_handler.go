package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
	"github.com/polkiloo/stampcard/internal/domain/model"
	"github.com/polkiloo/stampcard/internal/server/http/dto"
)

// CardHandler manages card enrollment and lookup endpoints.
type CardHandler struct {
	facade CardFacade
}

// NewCardHandler constructs CardHandler.
func NewCardHandler(facade CardFacade) *CardHandler {
	return &CardHandler{facade: facade}
}

// Enroll handles POST /api/cards.
func (h *CardHandler) Enroll(c *gin.Context) {
	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	card, err := h.facade.EnrollCard(c.Request.Context(), req.ProgramID, req.Customer)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidName):
			c.Status(http.StatusUnprocessableEntity)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, toCardResponse(card))
}

// Get handles GET /api/cards/:id.
func (h *CardHandler) Get(c *gin.Context) {
	cardID, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	card, err := h.facade.Card(c.Request.Context(), cardID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, toCardResponse(card))
}

// ListByProgram handles GET /api/programs/:id/cards.
func (h *CardHandler) ListByProgram(c *gin.Context) {
	programID, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	cards, err := h.facade.ProgramCards(c.Request.Context(), programID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(cards) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.CardResponse, 0, len(cards))
	for i := range cards {
		response = append(response, toCardResponse(&cards[i]))
	}

	c.JSON(http.StatusOK, response)
}

func toCardResponse(card *model.Card) dto.CardResponse {
	return dto.CardResponse{
		ID:            card.ID,
		ProgramID:     card.ProgramID,
		Customer:      card.Customer,
		TotalSlots:    card.TotalSlots,
		CurrentStamps: card.CurrentStamps,
		Remaining:     card.Remaining(),
		State:         string(card.State()),
		Redemptions:   card.Redemptions,
		CreatedAt:     card.CreatedAt,
		UpdatedAt:     card.UpdatedAt,
	}
}
