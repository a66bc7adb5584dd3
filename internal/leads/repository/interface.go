package repository

import (
	"context"

	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/domain"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// ScoringStore is what the scoring service needs from the record store.
type ScoringStore interface {
	GetLeadByID(ctx context.Context, id uuid.UUID) (Lead, error)
	GetRecordForLead(ctx context.Context, leadID uuid.UUID) (domain.ParcelOwnerRecord, error)
	ListLeadsForScoring(ctx context.Context) ([]LeadWithRecord, error)
	UpdateLeadScore(ctx context.Context, id uuid.UUID, score int, details []byte, stage string, expectedVersion int) error
	MedianValuePerAcreByParish(ctx context.Context) (map[string]float64, error)
}

// PipelineStore is what the pipeline state machine needs.
type PipelineStore interface {
	GetLeadByID(ctx context.Context, id uuid.UUID) (Lead, error)
	UpdateLeadPipeline(ctx context.Context, id uuid.UUID, params UpdatePipelineParams) (Lead, error)
	ClearOwnerPhone(ctx context.Context, leadID uuid.UUID) error
	UpdateOwnerPhone(ctx context.Context, leadID uuid.UUID, phone string) error
	SetOwnerOptOut(ctx context.Context, leadID uuid.UUID) error
	AppendLeadTag(ctx context.Context, leadID uuid.UUID, tag string) error
}

// QueueStore is what the caller-queue selector needs.
type QueueStore interface {
	ListCallerQueue(ctx context.Context, market string, contactThreshold, hotThreshold, limit int) ([]QueueLead, int, error)
	QueueDiagnostics(ctx context.Context, market string, contactThreshold int) (DiagnosticCounts, error)
}

// FollowupStore is what the follow-up reminder worker needs.
type FollowupStore interface {
	GetLeadByID(ctx context.Context, id uuid.UUID) (Lead, error)
}
