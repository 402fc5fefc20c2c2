package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"quoteme/internal/database"
	"quoteme/internal/domain"
	"quoteme/internal/middleware"
	"quoteme/internal/modules/aggregator"
	"quoteme/internal/modules/matching"
	"quoteme/internal/modules/notification"
	"quoteme/internal/modules/projects"
	"quoteme/internal/modules/provider"
	"quoteme/internal/modules/quotes"
	"quoteme/internal/modules/rating"
	"quoteme/internal/pkg/ai"
	jwtsvc "quoteme/internal/pkg/jwt"
	"quoteme/internal/repository"
)

type TestSuite struct {
	router *gin.Engine
	db     *gorm.DB
	jwt    *jwtsvc.Service
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *TestSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	logger := zap.NewNop()
	jwt := jwtsvc.New("e2e-secret", time.Hour)
	auth := middleware.Auth(jwt)

	providerRepo := repository.NewProviderRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	hub := notification.NewHub()
	notificationService := notification.NewService(notificationRepo, hub, logger)
	notificationHandler := notification.NewHandler(notificationService, hub, logger)

	matchingService := matching.NewService(
		matching.Config{RadiusKm: 50, Workers: 2},
		providerRepo, notificationService, logger)

	ratingService := rating.NewService(providerRepo,
		rating.Config{Floor: 3.0, MinReviews: 3}, logger)

	providerService := provider.NewService(providerRepo, ratingService, logger)
	providerHandler := provider.NewHandler(providerService, jwt)

	projectService := projects.NewService(projectRepo, ai.KeywordClassifier{}, matchingService, logger)
	projectHandler := projects.NewHandler(projectService)

	quoteService := quotes.NewService(quoteRepo, projectRepo, logger)
	quoteHandler := quotes.NewHandler(quoteService)

	aggregatorService := aggregator.NewService(
		aggregator.Config{BidWindow: 48 * time.Hour, ProfileBaseURL: "http://test.local"},
		projectRepo, quoteRepo, providerRepo, notificationRepo, ai.StaticSummarizer{}, logger)
	aggregatorHandler := aggregator.NewHandler(aggregatorService)

	r := gin.New()
	v1 := r.Group("/api/v1")
	projectHandler.RegisterRoutes(v1)
	quoteHandler.RegisterRoutes(v1, auth)
	aggregatorHandler.RegisterRoutes(v1)
	providerHandler.RegisterRoutes(v1, auth)
	notificationHandler.RegisterRoutes(v1, auth)

	return &TestSuite{router: r, db: db, jwt: jwt}
}

func (s *TestSuite) request(t *testing.T, method, path string, body any, token string) (*httptest.ResponseRecorder, *TestResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	// List endpoints return an array under data; those tests decode the
	// body themselves, so a failed unmarshal here is fine.
	var resp TestResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, &resp
}

// registerActiveProvider registers a provider and completes the profile so
// onboarding promotes it to ACTIVE. Returns the provider id and token.
func (s *TestSuite) registerActiveProvider(t *testing.T, name, email, trade string) (int64, string) {
	t.Helper()

	w, resp := s.request(t, http.MethodPost, "/api/v1/sp/register", map[string]any{
		"name":  name,
		"email": email,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	token := resp.Data["token"].(string)
	providerData := resp.Data["provider"].(map[string]interface{})
	id := int64(providerData["id"].(float64))

	w, resp = s.request(t, http.MethodPut, "/api/v1/sp/profile", map[string]any{
		"trades": []string{trade},
		"lat":    51.51,
		"lon":    -0.12,
	}, token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, string(domain.ProviderActive), resp.Data["status"])

	return id, token
}

func (s *TestSuite) submitProject(t *testing.T, description string) int64 {
	t.Helper()
	w, resp := s.request(t, http.MethodPost, "/api/v1/projects", map[string]any{
		"user_name":   "Dana Reeves",
		"user_email":  "dana@example.com",
		"description": description,
		"lat":         51.5074,
		"lon":         -0.1278,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	return int64(resp.Data["id"].(float64))
}

func (s *TestSuite) submitQuote(t *testing.T, token string, projectID int64, amount float64, trade string) int64 {
	t.Helper()
	body := map[string]any{
		"project_id": projectID,
		"amount":     amount,
		"proposal":   "Can start next week, materials included.",
	}
	if trade != "" {
		body["trade"] = trade
	}
	w, resp := s.request(t, http.MethodPost, "/api/v1/quotes", body, token)
	require.Equal(t, http.StatusCreated, w.Code)
	return int64(resp.Data["id"].(float64))
}

func (s *TestSuite) backdateProject(t *testing.T, projectID int64, age time.Duration) {
	t.Helper()
	require.NoError(t, s.db.Table("projects").Where("id = ?", projectID).
		Update("created_at", time.Now().Add(-age)).Error)
}

func TestFullQuoteLifecycle(t *testing.T) {
	s := setupTestSuite(t)

	plumberID, plumberToken := s.registerActiveProvider(t, "Ace Plumbing", "ace@example.com", string(domain.TradePlumber))
	sparkID, sparkToken := s.registerActiveProvider(t, "Volt Works", "volt@example.com", string(domain.TradeElectrician))

	projectID := s.submitProject(t, "Fix the leaking pipe under the sink and replace the broken light fixture")

	// Contact details stay masked while bidding is open.
	w, resp := s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d", projectID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.MaskedUserName, resp.Data["user_name"])
	assert.Equal(t, domain.MaskedUserEmail, resp.Data["user_email"])

	q1 := s.submitQuote(t, plumberToken, projectID, 1800, string(domain.TradePlumber))
	q2 := s.submitQuote(t, sparkToken, projectID, 1000, string(domain.TradeElectrician))

	w, _ = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/quotes/%d/select", projectID, q1), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/quotes/%d/select", projectID, q2), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d/aggregate", projectID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "COMPLETE", resp.Data["status"])
	assert.Equal(t, 2800.0, resp.Data["total_cost"])
	assert.NotEmpty(t, resp.Data["summary"])
	assert.Len(t, resp.Data["provider_links"], 2)

	// Acceptance unmasks the homeowner.
	w, resp = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d", projectID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dana Reeves", resp.Data["user_name"])

	// Each winner got exactly one QUOTE_ACCEPTED notification with real
	// contact details, even after a second aggregation.
	w, resp = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d/aggregate", projectID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2800.0, resp.Data["total_cost"])

	for _, token := range []string{plumberToken, sparkToken} {
		w, resp = s.request(t, http.MethodGet, "/api/v1/sp/notifications", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		items := resp.Data["notifications"].([]interface{})
		require.Len(t, items, 1)
		n := items[0].(map[string]interface{})
		assert.Equal(t, string(domain.NotifQuoteAccepted), n["type"])
		assert.Contains(t, n["message"], "dana@example.com")
	}
	_ = plumberID
	_ = sparkID
}

func TestDoubleBidConflict(t *testing.T) {
	s := setupTestSuite(t)

	_, token := s.registerActiveProvider(t, "Ace Plumbing", "ace@example.com", string(domain.TradePlumber))
	projectID := s.submitProject(t, "Fix the leaking pipe under the kitchen sink")

	s.submitQuote(t, token, projectID, 1800, string(domain.TradePlumber))

	w, resp := s.request(t, http.MethodPost, "/api/v1/quotes", map[string]any{
		"project_id": projectID,
		"amount":     1500.0,
		"proposal":   "Actually, cheaper.",
	}, token)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_QUOTED", resp.Error.Code)
}

func TestIncompleteProjectWaitsThenFinalizesPartial(t *testing.T) {
	s := setupTestSuite(t)

	_, token := s.registerActiveProvider(t, "Ace Plumbing", "ace@example.com", string(domain.TradePlumber))
	projectID := s.submitProject(t, "Fix the leaking pipe and repair some faulty wiring")

	q := s.submitQuote(t, token, projectID, 1800, string(domain.TradePlumber))
	w, _ := s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/quotes/%d/select", projectID, q), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d/aggregate", projectID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "INCOMPLETE", resp.Data["status"])
	assert.Contains(t, resp.Data["missing_trades"], string(domain.TradeElectrician))

	s.backdateProject(t, projectID, 49*time.Hour)

	w, resp = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d/aggregate", projectID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PARTIAL_COMPLETE", resp.Data["status"])
	assert.Equal(t, 1800.0, resp.Data["total_cost"])
}

func TestDeactivatedProviderBlocksFinalize(t *testing.T) {
	s := setupTestSuite(t)

	providerID, token := s.registerActiveProvider(t, "Ace Plumbing", "ace@example.com", string(domain.TradePlumber))
	projectID := s.submitProject(t, "Fix the leaking pipe under the kitchen sink")

	q := s.submitQuote(t, token, projectID, 1800, string(domain.TradePlumber))
	w, _ := s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/quotes/%d/select", projectID, q), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Three bad reviews deactivate the provider before finalize.
	w, resp := s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/sp/%d/rating", providerID), map[string]any{
		"rating":       1.5,
		"review_count": 3,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, string(domain.ProviderDeactivated), resp.Data["status"])

	w, resp = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d/aggregate", projectID), nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "PROVIDER_INACTIVE", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "Ace Plumbing")

	// The latch stayed down, so the homeowner is still masked.
	w, resp = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d", projectID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.MaskedUserName, resp.Data["user_name"])
}

func TestDeactivatedProfileEditDoesNotResurrect(t *testing.T) {
	s := setupTestSuite(t)

	providerID, token := s.registerActiveProvider(t, "Ace Plumbing", "ace@example.com", string(domain.TradePlumber))

	w, resp := s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/sp/%d/rating", providerID), map[string]any{
		"rating":       1.0,
		"review_count": 5,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, string(domain.ProviderDeactivated), resp.Data["status"])

	w, resp = s.request(t, http.MethodPut, "/api/v1/sp/profile", map[string]any{
		"name": "Ace Plumbing, Reformed",
		"bio":  "Under new management.",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(domain.ProviderDeactivated), resp.Data["status"])
}

func TestSelectionReplacesPreviousWinner(t *testing.T) {
	s := setupTestSuite(t)

	_, tokenA := s.registerActiveProvider(t, "Ace Plumbing", "ace@example.com", string(domain.TradePlumber))
	_, tokenB := s.registerActiveProvider(t, "Best Pipes", "best@example.com", string(domain.TradePlumber))
	projectID := s.submitProject(t, "Fix the leaking pipe under the kitchen sink")

	qa := s.submitQuote(t, tokenA, projectID, 1800, string(domain.TradePlumber))
	qb := s.submitQuote(t, tokenB, projectID, 1600, string(domain.TradePlumber))

	for _, q := range []int64{qa, qb} {
		w, _ := s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/quotes/%d/select", projectID, q), nil, "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, resp := s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d/quotes", projectID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	_ = resp
	var raw struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))

	selectedCount := 0
	for _, q := range raw.Data {
		if q["is_selected"].(bool) {
			selectedCount++
			assert.Equal(t, float64(qb), q["id"])
		}
	}
	assert.Equal(t, 1, selectedCount)
}
