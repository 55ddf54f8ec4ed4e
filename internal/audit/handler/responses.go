package handler

import (
	"time"

	"medtrust/internal/audit"
)

type entryResponse struct {
	ID            string         `json:"id"`
	IdentityID    string         `json:"identity_id"`
	Role          string         `json:"role,omitempty"`
	PatientID     string         `json:"patient_id,omitempty"`
	Tier          string         `json:"tier,omitempty"`
	Action        string         `json:"action"`
	Justification string         `json:"justification,omitempty"`
	AILabel       string         `json:"ai_label,omitempty"`
	AIConfidence  float64        `json:"ai_confidence,omitempty"`
	IP            string         `json:"ip,omitempty"`
	Status        string         `json:"status"`
	Factors       map[string]any `json:"factors,omitempty"`
	RequestID     string         `json:"request_id,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}

type logsResponse struct {
	Entries []entryResponse `json:"entries"`
	Count   int             `json:"count"`
}

func newEntryResponses(entries []audit.Entry) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{
			ID:            e.ID.String(),
			IdentityID:    e.IdentityID,
			Role:          e.Role,
			PatientID:     e.PatientID,
			Tier:          e.Tier,
			Action:        string(e.Action),
			Justification: e.Justification,
			AILabel:       e.AILabel,
			AIConfidence:  e.AIConfidence,
			IP:            e.IP,
			Status:        string(e.Status),
			Factors:       e.Factors,
			RequestID:     e.RequestID,
			Timestamp:     e.Timestamp,
		})
	}
	return out
}
