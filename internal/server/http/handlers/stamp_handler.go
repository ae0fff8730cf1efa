package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
	"github.com/polkiloo/stampcard/internal/server/http/dto"
	"github.com/polkiloo/stampcard/internal/usecase"
)

// StampHandler manages the interactive stamp flow, direct grants, and
// redemption endpoints.
type StampHandler struct {
	batches     BatchFacade
	redemptions RedemptionFacade
}

// NewStampHandler constructs StampHandler.
func NewStampHandler(batches BatchFacade, redemptions RedemptionFacade) *StampHandler {
	return &StampHandler{batches: batches, redemptions: redemptions}
}

// OpenBatch handles POST /api/cards/:id/batch.
func (h *StampHandler) OpenBatch(c *gin.Context) {
	cardID, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	sessionID, batch, err := h.batches.OpenBatch(c.Request.Context(), cardID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, toBatchResponse(sessionID, batch))
}

// Tap handles POST /api/batches/:session/tap.
func (h *StampHandler) Tap(c *gin.Context) {
	sessionID := c.Param("session")

	var req dto.TapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	batch, outcome, err := h.batches.TapBatch(sessionID, req.Index)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, dto.TapResponse{
		Outcome: outcome.String(),
		Batch:   toBatchResponse(sessionID, batch),
	})
}

// Cancel handles DELETE /api/batches/:session.
func (h *StampHandler) Cancel(c *gin.Context) {
	h.batches.CancelBatch(c.Param("session"))
	c.Status(http.StatusNoContent)
}

// Commit handles POST /api/batches/:session/commit.
func (h *StampHandler) Commit(c *gin.Context) {
	sessionID := c.Param("session")

	card, err := h.batches.CommitBatch(c.Request.Context(), sessionID)
	if err != nil {
		h.writeStampError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCardResponse(card))
}

// Grant handles POST /api/cards/:id/stamps.
func (h *StampHandler) Grant(c *gin.Context) {
	cardID, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	card, err := h.batches.GrantStamps(c.Request.Context(), cardID, req.Delta, req.CommitID)
	if err != nil {
		h.writeStampError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCardResponse(card))
}

// Claim handles POST /api/cards/:id/claim.
func (h *StampHandler) Claim(c *gin.Context) {
	cardID, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	card, err := h.redemptions.ClaimReward(c.Request.Context(), cardID, req.ExpectedStamps, req.AttemptID)
	if err != nil {
		h.writeStampError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCardResponse(card))
}

// Reset handles POST /api/cards/:id/reset.
func (h *StampHandler) Reset(c *gin.Context) {
	cardID, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	card, err := h.redemptions.ResetCycle(c.Request.Context(), cardID)
	if err != nil {
		h.writeStampError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCardResponse(card))
}

// Redemptions handles GET /api/cards/:id/redemptions.
func (h *StampHandler) Redemptions(c *gin.Context) {
	cardID, ok := pathID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	history, err := h.redemptions.Redemptions(c.Request.Context(), cardID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(history) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.RedemptionResponse, 0, len(history))
	for _, r := range history {
		response = append(response, dto.RedemptionResponse{
			Cycle:      r.Cycle,
			Stamps:     r.Stamps,
			RedeemedAt: r.RedeemedAt,
		})
	}

	c.JSON(http.StatusOK, response)
}

func (h *StampHandler) writeStampError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrEmptyCommit):
		c.Status(http.StatusBadRequest)
	case errors.Is(err, domainErrors.ErrOverCapacity):
		c.Status(http.StatusUnprocessableEntity)
	case errors.Is(err, domainErrors.ErrNotReady),
		errors.Is(err, domainErrors.ErrAlreadyRedeemed),
		errors.Is(err, domainErrors.ErrStaleAttempt),
		errors.Is(err, domainErrors.ErrVersionConflict):
		c.Status(http.StatusConflict)
	case errors.Is(err, domainErrors.ErrTimeout):
		c.Status(http.StatusGatewayTimeout)
	default:
		c.Status(http.StatusInternalServerError)
	}
}

func toBatchResponse(sessionID string, batch usecase.PendingBatch) dto.BatchResponse {
	return dto.BatchResponse{
		SessionID:    sessionID,
		CardID:       batch.CardID,
		BaseStamps:   batch.BaseStamps,
		PendingDelta: batch.PendingDelta,
		Frontier:     batch.Frontier(),
		TotalSlots:   batch.TotalSlots,
	}
}
