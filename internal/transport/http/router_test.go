package httptransport_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	accesshandler "medtrust/internal/access/handler"
	"medtrust/internal/access/handler/mocks"
	"medtrust/internal/audit"
	audithandler "medtrust/internal/audit/handler"
	auditmem "medtrust/internal/audit/store/memory"
	jwttoken "medtrust/internal/jwt_token"
	httptransport "medtrust/internal/transport/http"
)

type RouterSuite struct {
	suite.Suite
	tokens *jwttoken.Service
	router http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.tokens = jwttoken.NewService("test-signing-key", "medtrust", "medtrust")
	auditSvc := audit.NewService(auditmem.New(), logger)

	// No expectations are set: these tests exercise the middleware chain and
	// must never reach the engine.
	engine := mocks.NewMockService(gomock.NewController(s.T()))

	s.router = httptransport.NewRouter(httptransport.Dependencies{
		Logger:         logger,
		Access:         accesshandler.NewHandler(engine, logger),
		Audit:          audithandler.NewHandler(auditSvc, logger),
		TokenValidator: s.tokens,
	})
}

func (s *RouterSuite) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) TestHealthz() {
	rec := s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"ok"`)
}

func (s *RouterSuite) TestRequestIDPropagation() {
	s.Run("mints when absent", func() {
		rec := s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
		s.NotEmpty(rec.Header().Get("X-Request-ID"))
	})

	s.Run("honors upstream", func() {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("X-Request-ID", "req-42")
		rec := s.do(req)
		s.Equal("req-42", rec.Header().Get("X-Request-ID"))
	})
}

func (s *RouterSuite) TestLogsRequiresAdminToken() {
	s.Run("no token", func() {
		rec := s.do(httptest.NewRequest(http.MethodGet, "/logs", nil))
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("garbage token", func() {
		req := httptest.NewRequest(http.MethodGet, "/logs", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := s.do(req)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("non-admin role", func() {
		token, err := s.tokens.GenerateToken("nurse-kim", "nurse", time.Hour)
		s.Require().NoError(err)

		req := httptest.NewRequest(http.MethodGet, "/logs", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := s.do(req)
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("admin role", func() {
		token, err := s.tokens.GenerateToken("admin-1", "admin", time.Hour)
		s.Require().NoError(err)

		req := httptest.NewRequest(http.MethodGet, "/logs", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := s.do(req)
		s.Equal(http.StatusOK, rec.Code)
	})
}

// The decode path rejects the body before any engine call; the mock would
// fail the test if one were made.
func (s *RouterSuite) TestMalformedAccessBodyIsBadRequest() {
	req := httptest.NewRequest(http.MethodPost, "/access/normal", strings.NewReader("{"))
	rec := s.do(req)
	s.Equal(http.StatusBadRequest, rec.Code)
}
