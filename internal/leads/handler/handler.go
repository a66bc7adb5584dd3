// Package handler exposes the leads API over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/domain"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/pipeline"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/queue"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/repository"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/scoring"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/transport"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/httpkit"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// LeadReader is the read access the handler needs for lead detail.
type LeadReader interface {
	GetLeadByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
}

type Handler struct {
	reader   LeadReader
	scoring  *scoring.Service
	pipeline *pipeline.Service
	queue    *queue.Service
	val      *validator.Validator
}

func New(reader LeadReader, scoringSvc *scoring.Service, pipelineSvc *pipeline.Service, queueSvc *queue.Service, val *validator.Validator) *Handler {
	return &Handler{
		reader:   reader,
		scoring:  scoringSvc,
		pipeline: pipelineSvc,
		queue:    queueSvc,
		val:      val,
	}
}

// RegisterLeadRoutes mounts the per-lead routes.
func (h *Handler) RegisterLeadRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id", h.GetByID)
	rg.POST("/:id/score", h.Rescore)
	rg.POST("/:id/events", h.RecordEvent)
	rg.PUT("/:id/phone", h.UpdatePhone)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	lead, err := h.reader.GetLeadByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httpkit.Error(c, http.StatusNotFound, "lead not found", nil)
			return
		}
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, leadResponse(lead))
}

// Rescore recomputes one lead's motivation score on demand.
func (h *Handler) Rescore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	score, err := h.scoring.RescoreLead(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httpkit.Error(c, http.StatusNotFound, "lead not found", nil)
			return
		}
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, score)
}

// RecordEvent applies a call outcome or a classified reply to a lead.
func (h *Handler) RecordEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.RecordEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	var result pipeline.TransitionResult
	switch req.EventType {
	case "call_outcome":
		result, err = h.pipeline.ApplyCallOutcome(c.Request.Context(), id, domain.CallOutcome(req.Outcome), req.FollowupAt)
	case "reply":
		result, err = h.pipeline.ApplyReply(c.Request.Context(), id, domain.ReplyClassification(req.Classification))
	}
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, result)
}

// UpdatePhone replaces the owner's phone with a normalized number.
func (h *Handler) UpdatePhone(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdatePhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	normalized, err := h.pipeline.UpdatePhone(c.Request.Context(), id, req.Phone)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, gin.H{"phone": normalized})
}

// RunScoring triggers a batch scoring pass over the whole book. The response
// records which user triggered the run.
func (h *Handler) RunScoring(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.ScoringRunRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		if err := h.val.Struct(req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
			return
		}
	}

	summary, err := h.scoring.ScoreAll(c.Request.Context(), req.MinScore)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, gin.H{
		"triggered_by": identity.UserID(),
		"summary":      summary,
	})
}

// CallerSheet generates the prioritized calling queue for a market.
func (h *Handler) CallerSheet(c *gin.Context) {
	market := c.Query("market")
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		limit = parsed
	}

	sheet, err := h.queue.Generate(c.Request.Context(), market, limit)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, sheet)
}

func leadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:              lead.ID,
		ParcelID:        lead.ParcelID,
		MotivationScore: lead.MotivationScore,
		ScoreDetails:    lead.ScoreDetails,
		PipelineStage:   lead.PipelineStage,
		Status:          lead.Status,
		FollowupCount:   lead.FollowupCount,
		NextFollowupAt:  lead.NextFollowupAt,
		Tags:            lead.Tags,
		CreatedAt:       lead.CreatedAt,
		UpdatedAt:       lead.UpdatedAt,
	}
}
