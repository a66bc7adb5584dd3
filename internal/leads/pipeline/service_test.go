package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/events"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/domain"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/internal/leads/repository"
	"github.com/ptanner66-prog/la-land-wholesale-sub001/platform/apperr"

	"github.com/google/uuid"
)

type fakePipelineStore struct {
	leads map[uuid.UUID]repository.Lead

	clearedPhones []uuid.UUID
	optedOut      []uuid.UUID
	tags          map[uuid.UUID][]string
	phones        map[uuid.UUID]string

	staleAttempts int
}

func newFakePipelineStore() *fakePipelineStore {
	return &fakePipelineStore{
		leads: map[uuid.UUID]repository.Lead{},
		tags:  map[uuid.UUID][]string{},
	}
}

func (f *fakePipelineStore) GetLeadByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakePipelineStore) UpdateLeadPipeline(_ context.Context, id uuid.UUID, params repository.UpdatePipelineParams) (repository.Lead, error) {
	if f.staleAttempts > 0 {
		f.staleAttempts--
		lead := f.leads[id]
		lead.Version++
		f.leads[id] = lead
		return repository.Lead{}, repository.ErrStaleVersion
	}

	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	if lead.Version != params.ExpectedVersion {
		return repository.Lead{}, repository.ErrStaleVersion
	}
	if params.Stage != nil {
		lead.PipelineStage = *params.Stage
	}
	if params.Status != nil {
		lead.Status = *params.Status
	}
	if params.IncrementFollowup {
		lead.FollowupCount++
	}
	if params.NextFollowupAt != nil {
		lead.NextFollowupAt = params.NextFollowupAt
	}
	if params.LastReplyClassification != nil {
		lead.LastReplyClassification = params.LastReplyClassification
	}
	lead.Version++
	f.leads[id] = lead
	return lead, nil
}

func (f *fakePipelineStore) ClearOwnerPhone(_ context.Context, leadID uuid.UUID) error {
	f.clearedPhones = append(f.clearedPhones, leadID)
	return nil
}

func (f *fakePipelineStore) UpdateOwnerPhone(_ context.Context, leadID uuid.UUID, phone string) error {
	if _, ok := f.leads[leadID]; !ok {
		return repository.ErrNotFound
	}
	f.phones = map[uuid.UUID]string{leadID: phone}
	return nil
}

func (f *fakePipelineStore) SetOwnerOptOut(_ context.Context, leadID uuid.UUID) error {
	f.optedOut = append(f.optedOut, leadID)
	return nil
}

func (f *fakePipelineStore) AppendLeadTag(_ context.Context, leadID uuid.UUID, tag string) error {
	f.tags[leadID] = append(f.tags[leadID], tag)
	return nil
}

type fakeBus struct {
	published []events.Event
}

func (b *fakeBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *fakeBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *fakeBus) Subscribe(string, events.Handler) {}

type fakeScheduler struct {
	scheduled []time.Time
	fail      bool
}

func (s *fakeScheduler) ScheduleFollowup(_ context.Context, _ uuid.UUID, at time.Time) error {
	if s.fail {
		return context.DeadlineExceeded
	}
	s.scheduled = append(s.scheduled, at)
	return nil
}

func seedLead(store *fakePipelineStore, stage string) repository.Lead {
	lead := repository.Lead{
		ID:            uuid.New(),
		ParcelID:      uuid.New(),
		PipelineStage: stage,
		Status:        "new",
		Version:       1,
	}
	store.leads[lead.ID] = lead
	return lead
}

func TestApplyCallOutcome_NotInterestedMovesToReview(t *testing.T) {
	store := newFakePipelineStore()
	lead := seedLead(store, domain.StageNew)
	bus := &fakeBus{}
	svc := New(store, nil, bus, nil)

	result, err := svc.ApplyCallOutcome(context.Background(), lead.ID, domain.OutcomeNotInterested, nil)
	if err != nil {
		t.Fatalf("ApplyCallOutcome: %v", err)
	}

	if result.OldStage != domain.StageNew || result.NewStage != domain.StageReview {
		t.Fatalf("expected New -> Review, got %s -> %s", result.OldStage, result.NewStage)
	}
	if got := store.leads[lead.ID].Status; got != domain.StatusRejected {
		t.Fatalf("expected status %s, got %s", domain.StatusRejected, got)
	}
	if len(bus.published) != 1 || bus.published[0].EventName() != "leads.pipeline.stage_changed" {
		t.Fatalf("expected one stage_changed event, got %+v", bus.published)
	}
}

func TestApplyCallOutcome_NoAnswerIncrementsFollowup(t *testing.T) {
	store := newFakePipelineStore()
	lead := seedLead(store, domain.StageNew)
	svc := New(store, nil, &fakeBus{}, nil)

	result, err := svc.ApplyCallOutcome(context.Background(), lead.ID, domain.OutcomeNoAnswer, nil)
	if err != nil {
		t.Fatalf("ApplyCallOutcome: %v", err)
	}

	if result.NewStage != domain.StageNew {
		t.Fatalf("no_answer must not move the lead, got %s", result.NewStage)
	}
	if got := store.leads[lead.ID].FollowupCount; got != 1 {
		t.Fatalf("expected followup count 1, got %d", got)
	}
}

func TestApplyCallOutcome_CallBackSchedulesFollowup(t *testing.T) {
	store := newFakePipelineStore()
	lead := seedLead(store, domain.StageOffer)
	scheduler := &fakeScheduler{}
	svc := New(store, scheduler, &fakeBus{}, nil)

	at := time.Now().Add(48 * time.Hour)
	result, err := svc.ApplyCallOutcome(context.Background(), lead.ID, domain.OutcomeCallBack, &at)
	if err != nil {
		t.Fatalf("ApplyCallOutcome: %v", err)
	}

	if result.NewStage != domain.StageOffer {
		t.Fatalf("call_back must not move the lead, got %s", result.NewStage)
	}
	if got := store.leads[lead.ID].Status; got != domain.StatusCallback {
		t.Fatalf("expected status %s, got %s", domain.StatusCallback, got)
	}
	if store.leads[lead.ID].NextFollowupAt == nil || !store.leads[lead.ID].NextFollowupAt.Equal(at) {
		t.Fatalf("follow-up time was not persisted")
	}
	if len(scheduler.scheduled) != 1 || !scheduler.scheduled[0].Equal(at) {
		t.Fatalf("follow-up was not scheduled: %v", scheduler.scheduled)
	}
}

func TestApplyCallOutcome_SchedulerFailureIsNotFatal(t *testing.T) {
	store := newFakePipelineStore()
	lead := seedLead(store, domain.StageNew)
	svc := New(store, &fakeScheduler{fail: true}, &fakeBus{}, nil)

	at := time.Now().Add(24 * time.Hour)
	if _, err := svc.ApplyCallOutcome(context.Background(), lead.ID, domain.OutcomeCallBack, &at); err != nil {
		t.Fatalf("transition must survive a scheduling failure, got %v", err)
	}
	if store.leads[lead.ID].NextFollowupAt == nil {
		t.Fatal("follow-up time must still be persisted for the sweep")
	}
}

func TestApplyCallOutcome_WrongNumberClearsPhoneAndTags(t *testing.T) {
	store := newFakePipelineStore()
	lead := seedLead(store, domain.StageContacted)
	svc := New(store, nil, &fakeBus{}, nil)

	result, err := svc.ApplyCallOutcome(context.Background(), lead.ID, domain.OutcomeWrongNumber, nil)
	if err != nil {
		t.Fatalf("ApplyCallOutcome: %v", err)
	}

	if result.NewStage != domain.StageContacted {
		t.Fatalf("wrong_number must not move the lead, got %s", result.NewStage)
	}
	if len(store.clearedPhones) != 1 || store.clearedPhones[0] != lead.ID {
		t.Fatalf("phone was not cleared: %v", store.clearedPhones)
	}
	if tags := store.tags[lead.ID]; len(tags) != 1 || tags[0] != "wrong_number" {
		t.Fatalf("expected wrong_number tag, got %v", tags)
	}
}

func TestApplyCallOutcome_UnknownOutcomeIsValidationError(t *testing.T) {
	store := newFakePipelineStore()
	lead := seedLead(store, domain.StageNew)
	svc := New(store, nil, &fakeBus{}, nil)

	_, err := svc.ApplyCallOutcome(context.Background(), lead.ID, "hung_up_politely", nil)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApplyCallOutcome_MissingLead(t *testing.T) {
	svc := New(newFakePipelineStore(), nil, &fakeBus{}, nil)
	_, err := svc.ApplyCallOutcome(context.Background(), uuid.New(), domain.OutcomeInterested, nil)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestApplyReply_DeadOptsOutWithoutMovingStage(t *testing.T) {
	for _, stage := range []string{domain.StageNew, domain.StageContract, domain.StageRejected} {
		t.Run(stage, func(t *testing.T) {
			store := newFakePipelineStore()
			lead := seedLead(store, stage)
			bus := &fakeBus{}
			svc := New(store, nil, bus, nil)

			result, err := svc.ApplyReply(context.Background(), lead.ID, domain.ReplyDead)
			if err != nil {
				t.Fatalf("ApplyReply: %v", err)
			}

			if result.NewStage != stage {
				t.Fatalf("dead reply must not move the lead, got %s", result.NewStage)
			}
			if got := store.leads[lead.ID].Status; got != domain.StatusOptedOut {
				t.Fatalf("expected status %s, got %s", domain.StatusOptedOut, got)
			}
			if len(store.optedOut) != 1 {
				t.Fatal("owner opt-out flag was not set")
			}
			if len(bus.published) != 1 || bus.published[0].EventName() != "leads.owner.opted_out" {
				t.Fatalf("expected opted_out event, got %+v", bus.published)
			}
			if rc := store.leads[lead.ID].LastReplyClassification; rc == nil || *rc != "dead" {
				t.Fatalf("reply classification was not recorded: %v", rc)
			}
		})
	}
}

func TestApplyReply_YesOverridesManualStage(t *testing.T) {
	store := newFakePipelineStore()
	lead := seedLead(store, domain.StageContract)
	svc := New(store, nil, &fakeBus{}, nil)

	result, err := svc.ApplyReply(context.Background(), lead.ID, domain.ReplyYes)
	if err != nil {
		t.Fatalf("ApplyReply: %v", err)
	}

	if result.NewStage != domain.StageHot {
		t.Fatalf("explicit yes must pull the lead to Hot, got %s", result.NewStage)
	}
	if got := store.leads[lead.ID].Status; got != domain.StatusHot {
		t.Fatalf("expected status %s, got %s", domain.StatusHot, got)
	}
}

func TestUpdatePhone_NormalizesToE164(t *testing.T) {
	store := newFakePipelineStore()
	lead := seedLead(store, domain.StageNew)
	svc := New(store, nil, &fakeBus{}, nil)

	normalized, err := svc.UpdatePhone(context.Background(), lead.ID, "(225) 555-0147")
	if err != nil {
		t.Fatalf("UpdatePhone: %v", err)
	}
	if normalized != "+12255550147" {
		t.Fatalf("expected +12255550147, got %s", normalized)
	}
	if store.phones[lead.ID] != "+12255550147" {
		t.Fatalf("normalized phone not persisted: %v", store.phones)
	}
}

func TestUpdatePhone_RejectsInvalidNumber(t *testing.T) {
	store := newFakePipelineStore()
	lead := seedLead(store, domain.StageNew)
	svc := New(store, nil, &fakeBus{}, nil)

	_, err := svc.UpdatePhone(context.Background(), lead.ID, "not a phone")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTransition_RetriesStaleVersion(t *testing.T) {
	store := newFakePipelineStore()
	lead := seedLead(store, domain.StageNew)
	store.staleAttempts = 1
	svc := New(store, nil, &fakeBus{}, nil)

	result, err := svc.ApplyCallOutcome(context.Background(), lead.ID, domain.OutcomeInterested, nil)
	if err != nil {
		t.Fatalf("expected retry to absorb the version race, got %v", err)
	}
	if result.NewStage != domain.StageOffer {
		t.Fatalf("expected Offer after retry, got %s", result.NewStage)
	}
}

func TestTransition_GivesUpAfterRepeatedRaces(t *testing.T) {
	store := newFakePipelineStore()
	lead := seedLead(store, domain.StageNew)
	store.staleAttempts = 10
	svc := New(store, nil, &fakeBus{}, nil)

	_, err := svc.ApplyCallOutcome(context.Background(), lead.ID, domain.OutcomeInterested, nil)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}
