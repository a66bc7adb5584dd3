package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskLeadsRescore = "leads.rescore"

const TaskLeadFollowupDue = "leads.followup.due"

type LeadsRescorePayload struct {
	MinScore *int `json:"minScore,omitempty"`
}

type LeadFollowupDuePayload struct {
	LeadID string `json:"leadId"`
}

func NewLeadsRescoreTask(payload LeadsRescorePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadsRescore, data), nil
}

func ParseLeadsRescorePayload(task *asynq.Task) (LeadsRescorePayload, error) {
	var payload LeadsRescorePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadsRescorePayload{}, err
	}
	return payload, nil
}

func NewLeadFollowupDueTask(payload LeadFollowupDuePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadFollowupDue, data), nil
}

func ParseLeadFollowupDuePayload(task *asynq.Task) (LeadFollowupDuePayload, error) {
	var payload LeadFollowupDuePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadFollowupDuePayload{}, err
	}
	return payload, nil
}
