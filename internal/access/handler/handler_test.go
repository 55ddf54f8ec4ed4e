package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"medtrust/internal/access"
	"medtrust/internal/access/handler"
	"medtrust/internal/access/handler/mocks"
	"medtrust/internal/patient"
	"medtrust/pkg/requestcontext"
)

type HandlerSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	svc    *mocks.MockService
	router *chi.Mux
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.svc = mocks.NewMockService(s.ctrl)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	handler.NewHandler(s.svc, logger).Routes(s.router)
}

func (s *HandlerSuite) post(path, body, clientIP string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(requestcontext.WithClientMetadata(req.Context(), clientIP, "test-agent"))

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

const validBody = `{"user_id":"dr-grey","role":"doctor","patient_name":"John Doe"}`

func (s *HandlerSuite) TestNormalGranted() {
	var seen access.Request
	s.svc.EXPECT().
		EvaluateNormal(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req access.Request) access.Decision {
			seen = req
			return access.Decision{
				Outcome:    access.OutcomeGranted,
				Reason:     access.ReasonGranted,
				TrustDelta: 2,
				TrustScore: 52,
				Patient:    &patient.Record{ID: "p-1001", Name: "John Doe", Age: 57},
			}
		})

	rec := s.post("/access/normal", validBody, "192.168.1.23")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("dr-grey", seen.IdentityID)
	s.Equal("192.168.1.23", seen.SourceIP)
	s.Equal("John Doe", seen.PatientName)

	body := s.decode(rec)
	s.Equal("granted", body["outcome"])
	s.Equal("p-1001", body["patient"].(map[string]any)["id"])
}

func (s *HandlerSuite) TestDecisionStatusMapping() {
	cases := []struct {
		name     string
		decision access.Decision
		want     int
	}{
		{
			name:     "outside network is forbidden",
			decision: access.Decision{Outcome: access.OutcomeDenied, Reason: access.ReasonOutsideNetwork, TrustDelta: -15},
			want:     http.StatusForbidden,
		},
		{
			name:     "flagged is forbidden",
			decision: access.Decision{Outcome: access.OutcomeFlagged, Reason: access.ReasonNotGenuine, TrustDelta: -10},
			want:     http.StatusForbidden,
		},
		{
			name:     "unknown patient is not found",
			decision: access.Decision{Outcome: access.OutcomeDenied, Reason: access.ReasonPatientNotFound},
			want:     http.StatusNotFound,
		},
		{
			name:     "missing justification is bad request",
			decision: access.Decision{Outcome: access.OutcomeDenied, Reason: access.ReasonJustificationRequired},
			want:     http.StatusBadRequest,
		},
		{
			name:     "record unavailable is internal",
			decision: access.Decision{Outcome: access.OutcomeDenied, Reason: access.ReasonRecordUnavailable},
			want:     http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.svc.EXPECT().
				EvaluateEmergency(gomock.Any(), gomock.Any()).
				Return(tc.decision)

			rec := s.post("/access/emergency", validBody, "203.0.113.7")

			s.Equal(tc.want, rec.Code)
			s.Equal(tc.decision.Reason, s.decode(rec)["reason"])
		})
	}
}

func (s *HandlerSuite) TestRequestValidation() {
	cases := []struct {
		name string
		body string
	}{
		{name: "malformed JSON", body: `{"user_id":`},
		{name: "missing user_id", body: `{"role":"doctor","patient_name":"John Doe"}`},
		{name: "missing patient_name", body: `{"user_id":"dr-grey","role":"doctor"}`},
		{name: "unknown role", body: `{"user_id":"dr-grey","role":"janitor","patient_name":"John Doe"}`},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			rec := s.post("/access/restricted", tc.body, "192.168.1.23")

			s.Equal(http.StatusBadRequest, rec.Code)
			s.Equal("bad_request", s.decode(rec)["error"])
		})
	}
}

func (s *HandlerSuite) TestTemporaryGrantReportsTTL() {
	s.svc.EXPECT().
		EvaluateTemporary(gomock.Any(), gomock.Any()).
		Return(access.Decision{
			Outcome:    access.OutcomeGranted,
			Reason:     access.ReasonGranted,
			TrustDelta: 1,
			TrustScore: 51,
			Patient:    &patient.Record{ID: "p-1001", Name: "John Doe"},
			ExpiresIn:  30 * time.Minute,
		})

	rec := s.post("/access/temporary", `{"user_id":"nurse-kim","role":"nurse","patient_name":"John Doe"}`, "192.168.1.23")

	s.Equal(http.StatusOK, rec.Code)
	s.InDelta(1800, s.decode(rec)["expires_in_seconds"], 0.001)
}

func (s *HandlerSuite) TestPrecheck() {
	s.svc.EXPECT().
		PrecheckJustification(gomock.Any(), "patient coding now").
		Return(access.PrecheckResult{Status: access.PrecheckValid, Score: 0.91})

	rec := s.post("/access/precheck", `{"justification":"patient coding now"}`, "203.0.113.7")

	s.Equal(http.StatusOK, rec.Code)
	body := s.decode(rec)
	s.Equal("valid", body["status"])
	s.InDelta(0.91, body["score"], 0.001)
}
