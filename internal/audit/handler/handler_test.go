package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"medtrust/internal/audit"
	"medtrust/internal/audit/handler"
	auditmem "medtrust/internal/audit/store/memory"
)

type HandlerSuite struct {
	suite.Suite
	store  *auditmem.InMemoryStore
	router *chi.Mux
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.store = auditmem.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.router = chi.NewRouter()
	handler.NewHandler(audit.NewService(s.store, logger), logger).Routes(s.router)
}

func (s *HandlerSuite) seed(identityID string, ts time.Time) {
	s.Require().NoError(s.store.Append(context.Background(), audit.Entry{
		IdentityID: identityID,
		PatientID:  "p-1001",
		Action:     audit.ActionEmergencyAccess,
		Status:     audit.StatusApproved,
		Timestamp:  ts,
	}))
}

func (s *HandlerSuite) get(url string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func (s *HandlerSuite) TestLogs() {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.seed("dr-a", base)
	s.seed("dr-b", base.Add(time.Hour))
	s.seed("dr-a", base.Add(2*time.Hour))

	var body struct {
		Entries []map[string]any `json:"entries"`
		Count   int              `json:"count"`
	}

	s.Run("returns all newest first", func() {
		rec := s.get("/logs")
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Require().Equal(3, body.Count)
		s.Equal("dr-a", body.Entries[0]["identity_id"])
		s.Equal("dr-b", body.Entries[1]["identity_id"])
	})

	s.Run("filters by identity", func() {
		rec := s.get("/logs?identity_id=dr-b")
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal(1, body.Count)
	})

	s.Run("filters by time range", func() {
		rec := s.get("/logs?from=2025-06-01T12:30:00Z&to=2025-06-01T13:30:00Z")
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal(1, body.Count)
	})

	s.Run("honors limit", func() {
		rec := s.get("/logs?limit=2")
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal(2, body.Count)
	})
}

func (s *HandlerSuite) TestLogsRejectsBadParams() {
	s.Run("bad from", func() {
		rec := s.get("/logs?from=yesterday")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("bad limit", func() {
		rec := s.get("/logs?limit=-1")
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
