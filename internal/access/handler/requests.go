package handler

import (
	"strings"

	"medtrust/internal/identity"
	dErrors "medtrust/pkg/domain-errors"
)

type accessRequest struct {
	UserID        string `json:"user_id"`
	Role          string `json:"role"`
	PatientName   string `json:"patient_name"`
	Justification string `json:"justification,omitempty"`
}

func (r accessRequest) validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "user_id is required")
	}
	if strings.TrimSpace(r.PatientName) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "patient_name is required")
	}
	if identity.ParseRole(r.Role) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "unknown role")
	}
	return nil
}

type precheckRequest struct {
	Justification string `json:"justification"`
}
