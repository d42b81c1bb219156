package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chatUsecase "mailrag-backend/internal/chat/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	answer string
}

func (f *fakeChat) Answer(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return chatUsecase.EmptyQuestionReply, nil
	}
	return f.answer, nil
}

type fakeIngest struct {
	count     int
	lastQuery string
	lastLimit int
}

func (f *fakeIngest) Ingest(ctx context.Context, query string, limit int) (int, error) {
	f.lastQuery = query
	f.lastLimit = limit
	return f.count, nil
}

func (f *fakeIngest) IngestNew(ctx context.Context, query string, limit int) (int, error) {
	return f.count, nil
}

func (f *fakeIngest) Vectorize(ctx context.Context, limit int) (int, error) {
	return 0, nil
}

func testRouter(chat *fakeChat, ingest *fakeIngest) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r, chat, ingest)
	return r
}

func TestChatEndpoint(t *testing.T) {
	r := testRouter(&fakeChat{answer: "the meeting is at noon"}, &fakeIngest{})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"question":"when is the meeting?"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp chatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "the meeting is at noon", resp.Answer)
}

func TestChatEndpointMissingQuestion(t *testing.T) {
	r := testRouter(&fakeChat{answer: "unused"}, &fakeIngest{})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp chatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, chatUsecase.EmptyQuestionReply, resp.Answer)
}

func TestIngestEndpoint(t *testing.T) {
	ingest := &fakeIngest{count: 3}
	r := testRouter(&fakeChat{}, ingest)

	req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(`{"query":"newer_than:7d","limit":10}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ingestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, "newer_than:7d", ingest.lastQuery)
	assert.Equal(t, 10, ingest.lastLimit)
}

func TestIngestEndpointEmptyBody(t *testing.T) {
	ingest := &fakeIngest{count: 5}
	r := testRouter(&fakeChat{}, ingest)

	// No body at all means "ingest everything".
	req := httptest.NewRequest(http.MethodPost, "/api/ingest", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ingestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Count)
	assert.Equal(t, "", ingest.lastQuery)
}

func TestIngestEndpointRejectsMalformedBody(t *testing.T) {
	r := testRouter(&fakeChat{}, &fakeIngest{})

	req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(`{"limit":"ten"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	r := testRouter(&fakeChat{}, &fakeIngest{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
