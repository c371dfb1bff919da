package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheme-assist/backend/internal/api/handlers"
	"github.com/scheme-assist/backend/internal/bookmarks"
	"github.com/scheme-assist/backend/internal/responder"
	"github.com/scheme-assist/backend/pkg/config"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type testServer struct {
	app  *fiber.App
	chat *responder.Registry
}

func newTestServer(t *testing.T, delay time.Duration, ready map[string]handlers.Pinger) *testServer {
	t.Helper()
	cfg := &config.Config{}
	cfg.Chat.MaxMessageLength = 1000
	cfg.Metrics.Enabled = true
	cfg.Server.Development = true

	opts := responder.Options{Delay: delay}
	chat := responder.NewRegistry(opts)
	app := NewApp(Deps{
		Config:      cfg,
		Bookmarks:   bookmarks.NewManager(bookmarks.NewMemoryStorage()),
		Chat:        chat,
		ChatOptions: opts,
		Ready:       ready,
	})
	return &testServer{app: app, chat: chat}
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (r response) decode(t *testing.T) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(r.body, &out), string(r.body))
	return out
}

func (s *testServer) do(t *testing.T, method, path, body, client string) response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if client != "" {
		req.Header.Set("X-Client-ID", client)
	}

	resp, err := s.app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, header: resp.Header, body: data}
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t, 0, nil)

	r := s.do(t, http.MethodGet, "/api/v1/schemes?q=pension", "", "")
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Greater(t, r.decode(t)["count"], 0.0)

	r = s.do(t, http.MethodGet, "/api/v1/schemes?category=Agriculture", "", "")
	require.Equal(t, fiber.StatusOK, r.status)
	for _, sc := range r.decode(t)["schemes"].([]interface{}) {
		assert.Equal(t, "Agriculture", sc.(map[string]interface{})["category"])
	}

	r = s.do(t, http.MethodGet, "/api/v1/schemes/1", "", "")
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, "PM Kisan Samman Nidhi", r.decode(t)["name"])

	assert.Equal(t, fiber.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/schemes/999", "", "").status)
	assert.Equal(t, fiber.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/schemes/abc", "", "").status)

	r = s.do(t, http.MethodGet, "/api/v1/schemes/categories", "", "")
	require.Equal(t, fiber.StatusOK, r.status)
	assert.NotEmpty(t, r.decode(t)["categories"])

	r = s.do(t, http.MethodGet, "/api/v1/states?q=kera", "", "")
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Len(t, r.decode(t)["states"], 1)

	r = s.do(t, http.MethodGet, "/api/v1/languages", "", "")
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Len(t, r.decode(t)["languages"], 6)
	assert.Equal(t, "english", r.decode(t)["default"])
}

func TestEligibilityRoutes(t *testing.T) {
	s := newTestServer(t, 0, nil)

	r := s.do(t, http.MethodPost, "/api/v1/eligibility", `{"state":"kerala","age":30}`, "")
	require.Equal(t, fiber.StatusBadRequest, r.status)
	body := r.decode(t)
	assert.Equal(t, 2.0, body["step"])
	assert.Equal(t, []interface{}{"gender", "income", "occupation"}, body["missing"])

	r = s.do(t, http.MethodPost, "/api/v1/eligibility",
		`{"state":"kerala","age":30,"gender":"female","income":"below-1l","occupation":"farmer","disability":true}`, "")
	require.Equal(t, fiber.StatusOK, r.status)

	var ids []float64
	for _, sc := range r.decode(t)["schemes"].([]interface{}) {
		ids = append(ids, sc.(map[string]interface{})["id"].(float64))
	}
	assert.Equal(t, []float64{2, 3, 1, 7, 8, 9}, ids)

	r = s.do(t, http.MethodPost, "/api/v1/eligibility", `{"gender":"robot"}`, "")
	assert.Equal(t, fiber.StatusBadRequest, r.status)

	r = s.do(t, http.MethodPost, "/api/v1/eligibility/steps/1", `{}`, "")
	require.Equal(t, fiber.StatusOK, r.status)
	body = r.decode(t)
	assert.Equal(t, false, body["complete"])
	assert.Equal(t, []interface{}{"state"}, body["missing"])

	r = s.do(t, http.MethodPost, "/api/v1/eligibility/steps/3", `{}`, "")
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, true, r.decode(t)["complete"])

	assert.Equal(t, fiber.StatusBadRequest, s.do(t, http.MethodPost, "/api/v1/eligibility/steps/9", `{}`, "").status)
}

func TestBookmarkRoutes(t *testing.T) {
	s := newTestServer(t, 0, nil)
	const client = "3f1c9a52-1111-4c1e-9d53-2a6f1c0b7e10"

	assert.Equal(t, fiber.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/bookmarks", "", "").status)

	r := s.do(t, http.MethodPost, "/api/v1/bookmarks", `{"id":2}`, client)
	require.Equal(t, fiber.StatusCreated, r.status)
	assert.Equal(t, true, r.decode(t)["added"])

	r = s.do(t, http.MethodPost, "/api/v1/bookmarks", `{"id":2}`, client)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, false, r.decode(t)["added"])

	assert.Equal(t, fiber.StatusNotFound, s.do(t, http.MethodPost, "/api/v1/bookmarks", `{"id":404}`, client).status)

	r = s.do(t, http.MethodGet, "/api/v1/bookmarks", "", client)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, 1.0, r.decode(t)["count"])

	r = s.do(t, http.MethodGet, "/api/v1/bookmarks/2/share", "", client)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.True(t, strings.HasPrefix(r.decode(t)["text"].(string), "Ayushman Bharat"))

	r = s.do(t, http.MethodGet, "/api/v1/bookmarks/2/export?lang=hindi", "", client)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Contains(t, r.header.Get("Content-Disposition"), "ayushman-bharat.txt")
	assert.Contains(t, string(r.body), "[हिन्दी] Benefits:")

	assert.Equal(t, fiber.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/bookmarks/2/export?lang=klingon", "", client).status)
	assert.Equal(t, fiber.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/bookmarks/5/share", "", client).status)

	r = s.do(t, http.MethodDelete, "/api/v1/bookmarks/2", "", client)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, true, r.decode(t)["removed"])

	r = s.do(t, http.MethodDelete, "/api/v1/bookmarks/2", "", client)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, false, r.decode(t)["removed"])

	r = s.do(t, http.MethodGet, "/api/v1/bookmarks", "", "someone-else")
	assert.Equal(t, 0.0, r.decode(t)["count"])
}

type downStorage struct{ sets int }

func (d *downStorage) Get(context.Context, string, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (d *downStorage) Set(context.Context, string, string, []byte) error {
	d.sets++
	return errors.New("connection refused")
}

func TestBookmarkRoutes_StorageDown(t *testing.T) {
	down := &downStorage{}
	cfg := &config.Config{}
	cfg.Chat.MaxMessageLength = 1000
	s := &testServer{app: NewApp(Deps{
		Config:    cfg,
		Bookmarks: bookmarks.NewManager(down),
		Chat:      responder.NewRegistry(responder.Options{}),
	})}
	const client = "client-during-outage"

	r := s.do(t, http.MethodGet, "/api/v1/bookmarks", "", client)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Equal(t, 0.0, r.decode(t)["count"])

	assert.Equal(t, fiber.StatusServiceUnavailable, s.do(t, http.MethodPost, "/api/v1/bookmarks", `{"id":2}`, client).status)
	assert.Equal(t, fiber.StatusServiceUnavailable, s.do(t, http.MethodDelete, "/api/v1/bookmarks/2", "", client).status)
	assert.Zero(t, down.sets)
}

func TestChatRoutes(t *testing.T) {
	s := newTestServer(t, 0, nil)

	r := s.do(t, http.MethodPost, "/api/v1/chat", `{"message":"What about Pension plans?"}`, "")
	require.Equal(t, fiber.StatusOK, r.status)
	body := r.decode(t)
	session := body["session_id"].(string)
	require.NotEmpty(t, session)
	reply := body["reply"].(map[string]interface{})
	assert.Equal(t, "bot", reply["sender"])
	assert.Contains(t, reply["text"], "National Pension Scheme")

	r = s.do(t, http.MethodPost, "/api/v1/chat", `{"session_id":"`+session+`","message":"   "}`, "")
	assert.Equal(t, fiber.StatusBadRequest, r.status)

	r = s.do(t, http.MethodGet, "/api/v1/chat/"+session+"/messages", "", "")
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Len(t, r.decode(t)["messages"], 3)

	assert.Equal(t, fiber.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/chat/nope/messages", "", "").status)
}

func TestChatRoutes_BusySession(t *testing.T) {
	s := newTestServer(t, 300*time.Millisecond, nil)

	done := make(chan response, 1)
	go func() {
		done <- s.do(t, http.MethodPost, "/api/v1/chat", `{"session_id":"s1","message":"farmer"}`, "")
	}()
	require.Eventually(t, func() bool {
		c, ok := s.chat.Lookup("s1")
		return ok && c.IsProcessing()
	}, time.Second, 5*time.Millisecond)

	r := s.do(t, http.MethodPost, "/api/v1/chat", `{"session_id":"s1","message":"health"}`, "")
	assert.Equal(t, fiber.StatusConflict, r.status)

	assert.Equal(t, fiber.StatusOK, (<-done).status)
}

func TestHealthRoutes(t *testing.T) {
	ok := newTestServer(t, 0, map[string]handlers.Pinger{
		"storage": pingFunc(func(context.Context) error { return nil }),
	})
	assert.Equal(t, fiber.StatusOK, ok.do(t, http.MethodGet, "/api/v1/health", "", "").status)
	assert.Equal(t, fiber.StatusOK, ok.do(t, http.MethodGet, "/api/v1/ready", "", "").status)

	r := ok.do(t, http.MethodGet, "/api/v1/metrics", "", "")
	assert.Equal(t, fiber.StatusOK, r.status)

	down := newTestServer(t, 0, map[string]handlers.Pinger{
		"storage": pingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})
	r = down.do(t, http.MethodGet, "/api/v1/ready", "", "")
	assert.Equal(t, fiber.StatusServiceUnavailable, r.status)
	assert.Equal(t, "unavailable", r.decode(t)["checks"].(map[string]interface{})["storage"])
}

func TestWebSocketRouteRejectsPlainHTTP(t *testing.T) {
	s := newTestServer(t, 0, nil)
	assert.Equal(t, fiber.StatusUpgradeRequired, s.do(t, http.MethodGet, "/api/v1/chat/ws", "", "").status)
}
