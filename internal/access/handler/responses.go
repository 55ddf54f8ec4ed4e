package handler

import (
	"medtrust/internal/access"
	"medtrust/internal/patient"
)

type decisionResponse struct {
	Outcome    string          `json:"outcome"`
	Reason     string          `json:"reason"`
	TrustDelta float64         `json:"trust_delta"`
	TrustScore float64         `json:"trust_score,omitempty"`
	Patient    *patient.Record `json:"patient,omitempty"`
	// ExpiresInSeconds is set on temporary grants.
	ExpiresInSeconds int64 `json:"expires_in_seconds,omitempty"`
}

func newDecisionResponse(dec access.Decision) decisionResponse {
	return decisionResponse{
		Outcome:          string(dec.Outcome),
		Reason:           dec.Reason,
		TrustDelta:       dec.TrustDelta,
		TrustScore:       dec.TrustScore,
		Patient:          dec.Patient,
		ExpiresInSeconds: int64(dec.ExpiresIn.Seconds()),
	}
}

type precheckResponse struct {
	Status string  `json:"status"`
	Score  float64 `json:"score"`
}
