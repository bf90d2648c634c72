package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"coworking_app_go/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *mockGenerator) ModelName() string { return "mock-model" }

func reportFixture(t *testing.T) (*gorm.DB, *fixture, *Principal) {
	t.Helper()
	db := setupTestDB(t)
	f := newFixture(t, db)
	f.openSession(t, db, f.ComputerID, time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC))
	analyst, err := ResolvePrincipal(db, RoleAnalyst, f.AnalystID)
	require.NoError(t, err)
	return db, f, analyst
}

func TestGenerateReport(t *testing.T) {
	db, f, analyst := reportFixture(t)
	store := NewLocalStorage(t.TempDir())
	freezeClock(t, time.Date(2025, 4, 2, 15, 0, 0, 0, time.UTC))

	gen := new(mockGenerator)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Sessões ativas no momento: 1") &&
			strings.Contains(prompt, "Abril/2025: 1 sessões") &&
			strings.Contains(prompt, analyst.Name)
	})).Return("## Relatório\n\nTudo certo.", nil).Once()

	req := ReportRequest{SubsectionID: f.SubsectionID, UnitID: f.UnitID, RoomID: f.RoomID}
	result, err := GenerateReport(context.Background(), db, gen, store, req, analyst)
	require.NoError(t, err)
	gen.AssertExpectations(t)

	assert.Equal(t, "## Relatório\n\nTudo certo.", result.Markdown)
	assert.Equal(t, int64(1), result.TotalSessions)
	assert.Equal(t, int64(1), result.ActiveSessions)
	assert.Equal(t, "SEDE", result.UnitHierarchy)
	assert.Equal(t, analyst.ID, result.GeneratedByID)
	require.NotEmpty(t, result.ID)

	t.Run("archived report can be read back", func(t *testing.T) {
		reports, total, err := ListReports(db, ReportFilter{RoomID: f.RoomID}, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "mock-model", reports[0].Model)

		report, content, err := GetReportContent(context.Background(), db, store, result.ID)
		require.NoError(t, err)
		assert.Equal(t, result.StorageKey, report.StorageKey)
		assert.Equal(t, result.Markdown, content)
	})

	t.Run("analyst with reports cannot be deleted", func(t *testing.T) {
		assert.True(t, errors.Is(DeleteAnalyst(db, analyst.ID), ErrConflict))
	})
}

func TestGenerateReport_Failures(t *testing.T) {
	db, f, analyst := reportFixture(t)
	req := ReportRequest{SubsectionID: f.SubsectionID, UnitID: f.UnitID, RoomID: f.RoomID}

	t.Run("generator error is Upstream", func(t *testing.T) {
		gen := new(mockGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))
		_, err := GenerateReport(context.Background(), db, gen, nil, req, analyst)
		assert.True(t, errors.Is(err, ErrUpstream))
	})

	t.Run("empty text is Upstream", func(t *testing.T) {
		gen := new(mockGenerator)
		gen.On("Generate", mock.Anything, mock.Anything).Return("   ", nil)
		_, err := GenerateReport(context.Background(), db, gen, nil, req, analyst)
		assert.True(t, errors.Is(err, ErrUpstream))
	})

	t.Run("hierarchy is validated before generating", func(t *testing.T) {
		other := newFixture(t, db)
		gen := new(mockGenerator)
		bad := req
		bad.UnitID = other.UnitID
		_, err := GenerateReport(context.Background(), db, gen, nil, bad, analyst)
		assert.True(t, errors.Is(err, ErrValidation))
		gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("only analysts", func(t *testing.T) {
		gen := new(mockGenerator)
		_, err := GenerateReport(context.Background(), db, gen, nil, req, &Principal{ID: f.AdminID, Role: RoleAdmin})
		assert.True(t, errors.Is(err, ErrForbidden))
	})

	t.Run("missing ids", func(t *testing.T) {
		_, err := GenerateReport(context.Background(), db, new(mockGenerator), nil, ReportRequest{}, analyst)
		assert.True(t, errors.Is(err, ErrValidation))
	})
}

func TestGeminiClient(t *testing.T) {
	var gotKey, gotPath string
	var gotBody geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"## Parte 1"},{"text":"\nParte 2"}]}}]}`))
	}))
	defer server.Close()

	client := NewGeminiClient(&config.Config{GeminiAPIKey: "key-123", GeminiModel: "gemini-2.5-flash", GeminiBaseURL: server.URL + "/"})
	text, err := client.Generate(context.Background(), "olá")
	require.NoError(t, err)

	assert.Equal(t, "## Parte 1\nParte 2", text)
	assert.Equal(t, "key-123", gotKey)
	assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", gotPath)
	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "olá", gotBody.Contents[0].Parts[0].Text)
}

func TestGeminiClient_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"Resource exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	client := NewGeminiClient(&config.Config{GeminiAPIKey: "key", GeminiModel: "m", GeminiBaseURL: server.URL})
	_, err := client.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Resource exhausted")

	noKey := NewGeminiClient(&config.Config{GeminiModel: "m", GeminiBaseURL: server.URL})
	_, err = noKey.Generate(context.Background(), "x")
	assert.Error(t, err)
}
