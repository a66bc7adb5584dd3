package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound     = errors.New("lead not found")
	ErrStaleVersion = errors.New("lead was modified concurrently")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Lead is the mutable pipeline aggregate. Version backs optimistic locking:
// every write must carry the version it read.
type Lead struct {
	ID                      uuid.UUID
	ParcelID                uuid.UUID
	MotivationScore         int
	ScoreDetails            []byte
	PipelineStage           string
	Status                  string
	FollowupCount           int
	NextFollowupAt          *time.Time
	LastReplyClassification *string
	Tags                    []string
	Version                 int
	DeletedAt               *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// LeadWithRecord pairs a lead with the parcel/owner view scoring consumes.
type LeadWithRecord struct {
	Lead   Lead
	Record domain.ParcelOwnerRecord
}

const leadColumns = `l.id, l.parcel_id, l.motivation_score, l.score_details, l.pipeline_stage, l.status,
	l.followup_count, l.next_followup_at, l.last_reply_classification, l.tags, l.version,
	l.deleted_at, l.created_at, l.updated_at`

const recordColumns = `p.id, p.parcel_number, p.parish, p.state, p.lot_size_acres, p.land_assessed_value,
	p.improvement_assessed_value, p.is_adjudicated, p.years_tax_delinquent, p.last_sale_date,
	o.phone_primary, o.is_tcpa_safe, o.is_dnr, o.opt_out,
	pt.party_type, pt.raw_mailing_address, pt.mailing_state, pt.mailing_parish`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.ParcelID, &lead.MotivationScore, &lead.ScoreDetails, &lead.PipelineStage, &lead.Status,
		&lead.FollowupCount, &lead.NextFollowupAt, &lead.LastReplyClassification, &lead.Tags, &lead.Version,
		&lead.DeletedAt, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

func (r *Repository) GetLeadByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads l
		WHERE l.id = $1 AND l.deleted_at IS NULL
	`, id)
	return scanLead(row)
}

// GetRecordForLead assembles the read-only parcel/owner view for one lead.
func (r *Repository) GetRecordForLead(ctx context.Context, leadID uuid.UUID) (domain.ParcelOwnerRecord, error) {
	var rec domain.ParcelOwnerRecord
	err := r.pool.QueryRow(ctx, `
		SELECT `+recordColumns+`
		FROM leads l
		JOIN parcels p ON p.id = l.parcel_id
		JOIN owners o ON o.parcel_id = p.id
		JOIN parties pt ON pt.parcel_id = p.id
		WHERE l.id = $1 AND l.deleted_at IS NULL
	`, leadID).Scan(
		&rec.Parcel.ID, &rec.Parcel.ParcelNumber, &rec.Parcel.Parish, &rec.Parcel.State,
		&rec.Parcel.LotSizeAcres, &rec.Parcel.LandAssessedValue, &rec.Parcel.ImprovementAssessedValue,
		&rec.Parcel.IsAdjudicated, &rec.Parcel.YearsTaxDelinquent, &rec.Parcel.LastSaleDate,
		&rec.Owner.PhonePrimary, &rec.Owner.IsTCPASafe, &rec.Owner.IsDNR, &rec.Owner.OptOut,
		&rec.Party.PartyType, &rec.Party.RawMailingAddress, &rec.Party.MailingState, &rec.Party.MailingParish,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ParcelOwnerRecord{}, ErrNotFound
	}
	if err != nil {
		return domain.ParcelOwnerRecord{}, err
	}
	return rec, nil
}

// ListLeadsForScoring streams every live lead with its record, in insertion
// order, for a sequential batch pass.
func (r *Repository) ListLeadsForScoring(ctx context.Context) ([]LeadWithRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`, `+recordColumns+`
		FROM leads l
		JOIN parcels p ON p.id = l.parcel_id
		JOIN owners o ON o.parcel_id = p.id
		JOIN parties pt ON pt.parcel_id = p.id
		WHERE l.deleted_at IS NULL
		ORDER BY l.created_at ASC, l.id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]LeadWithRecord, 0)
	for rows.Next() {
		var item LeadWithRecord
		if err := rows.Scan(
			&item.Lead.ID, &item.Lead.ParcelID, &item.Lead.MotivationScore, &item.Lead.ScoreDetails,
			&item.Lead.PipelineStage, &item.Lead.Status, &item.Lead.FollowupCount, &item.Lead.NextFollowupAt,
			&item.Lead.LastReplyClassification, &item.Lead.Tags, &item.Lead.Version,
			&item.Lead.DeletedAt, &item.Lead.CreatedAt, &item.Lead.UpdatedAt,
			&item.Record.Parcel.ID, &item.Record.Parcel.ParcelNumber, &item.Record.Parcel.Parish, &item.Record.Parcel.State,
			&item.Record.Parcel.LotSizeAcres, &item.Record.Parcel.LandAssessedValue, &item.Record.Parcel.ImprovementAssessedValue,
			&item.Record.Parcel.IsAdjudicated, &item.Record.Parcel.YearsTaxDelinquent, &item.Record.Parcel.LastSaleDate,
			&item.Record.Owner.PhonePrimary, &item.Record.Owner.IsTCPASafe, &item.Record.Owner.IsDNR, &item.Record.Owner.OptOut,
			&item.Record.Party.PartyType, &item.Record.Party.RawMailingAddress, &item.Record.Party.MailingState, &item.Record.Party.MailingParish,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// UpdateLeadScore replaces the lead's score fields and stage in one write.
// The score is always fully replaced, never partially updated.
func (r *Repository) UpdateLeadScore(ctx context.Context, id uuid.UUID, score int, details []byte, stage string, expectedVersion int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET motivation_score = $2, score_details = $3, pipeline_stage = $4,
			version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $5 AND deleted_at IS NULL
	`, id, score, details, stage, expectedVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleVersion
	}
	return nil
}

// UpdatePipelineParams carries the per-lead mutation a transition produces.
// Nil pointer fields are left untouched.
type UpdatePipelineParams struct {
	Stage                   *string
	Status                  *string
	IncrementFollowup       bool
	NextFollowupAt          *time.Time
	LastReplyClassification *string
	ExpectedVersion         int
}

// UpdateLeadPipeline applies a transition atomically. The version predicate
// serializes concurrent writers; losers get ErrStaleVersion and must re-read.
func (r *Repository) UpdateLeadPipeline(ctx context.Context, id uuid.UUID, params UpdatePipelineParams) (Lead, error) {
	followupDelta := 0
	if params.IncrementFollowup {
		followupDelta = 1
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE leads l
		SET pipeline_stage = COALESCE($2, l.pipeline_stage),
			status = COALESCE($3, l.status),
			followup_count = l.followup_count + $4,
			next_followup_at = COALESCE($5, l.next_followup_at),
			last_reply_classification = COALESCE($6, l.last_reply_classification),
			version = l.version + 1,
			updated_at = now()
		WHERE l.id = $1 AND l.version = $7 AND l.deleted_at IS NULL
		RETURNING `+leadColumns+`
	`, id, params.Stage, params.Status, followupDelta, params.NextFollowupAt, params.LastReplyClassification, params.ExpectedVersion)

	lead, err := scanLead(row)
	if errors.Is(err, ErrNotFound) {
		// Row exists but the version moved, or the lead is gone. Distinguish
		// so callers can retry stale writes instead of 404ing.
		if _, lookupErr := r.GetLeadByID(ctx, id); lookupErr == nil {
			return Lead{}, ErrStaleVersion
		}
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// ClearOwnerPhone removes the phone and marks the owner TCPA-unsafe, for
// wrong-number dispositions.
func (r *Repository) ClearOwnerPhone(ctx context.Context, leadID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE owners o
		SET phone_primary = NULL, is_tcpa_safe = false, updated_at = now()
		FROM leads l
		WHERE l.id = $1 AND o.parcel_id = l.parcel_id
	`, leadID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateOwnerPhone replaces the owner's phone after a skiptrace correction.
// The new number is unverified, so the TCPA flag resets until the next scrub.
func (r *Repository) UpdateOwnerPhone(ctx context.Context, leadID uuid.UUID, phone string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE owners o
		SET phone_primary = $2, is_tcpa_safe = false, updated_at = now()
		FROM leads l
		WHERE l.id = $1 AND o.parcel_id = l.parcel_id
	`, leadID, phone)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetOwnerOptOut honors a STOP/unsubscribe unconditionally.
func (r *Repository) SetOwnerOptOut(ctx context.Context, leadID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE owners o
		SET opt_out = true, updated_at = now()
		FROM leads l
		WHERE l.id = $1 AND o.parcel_id = l.parcel_id
	`, leadID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendLeadTag appends a short annotation tag (offer/contract amounts).
// Tags are append-only.
func (r *Repository) AppendLeadTag(ctx context.Context, leadID uuid.UUID, tag string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET tags = array_append(tags, $2), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, leadID, tag)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
