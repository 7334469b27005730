package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callqueue/internal/queue"
	"callqueue/internal/store"
)

func setupTestServer(t *testing.T) (*httptest.Server, *queue.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemory()
	engine, err := queue.NewEngine(queue.Config{Store: st, Logger: zerolog.Nop()})
	require.NoError(t, err)
	reader := queue.NewReader(st, nil)
	h := NewHandler(engine, reader, zerolog.Nop())

	r := gin.New()
	r.GET("/", Root)
	r.GET("/healthz", Healthz)
	r.GET("/dashboard", Dashboard)
	q := r.Group("/queue")
	{
		q.POST("/increment", h.IncrementQueue)
		q.POST("/decrement", h.DecrementQueue)
		q.GET("/status", h.QueueStatus)
		q.GET("/count/:queue_name", h.QueueCount)
	}
	qs := r.Group("/queues")
	{
		qs.GET("/summary", h.QueuesSummary)
	}

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, engine
}

func postJSON(t *testing.T, url string, body string) (int, map[string]any) {
	t.Helper()
	res, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer res.Body.Close()

	var payload map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	return res.StatusCode, payload
}

func getJSON(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()

	var payload map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	return res.StatusCode, payload
}

func callerBody(phone, queueName string) string {
	return fmt.Sprintf(`{"phone_number": %q, "queue_name": %q}`, phone, queueName)
}

func TestIncrementAssignsPositions(t *testing.T) {
	ts, _ := setupTestServer(t)

	status, payload := postJSON(t, ts.URL+"/queue/increment", callerBody("555-1111", "Sales"))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), payload["position"])

	status, payload = postJSON(t, ts.URL+"/queue/increment", callerBody("555-2222", "Sales"))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), payload["position"])
}

func TestIncrementDuplicateConflict(t *testing.T) {
	ts, _ := setupTestServer(t)

	status, _ := postJSON(t, ts.URL+"/queue/increment", callerBody("555-1111", "Sales"))
	require.Equal(t, http.StatusOK, status)

	status, payload := postJSON(t, ts.URL+"/queue/increment", callerBody("555-1111", "Sales"))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE_CALLER", payload["code"])

	// The queue itself is untouched.
	status, payload = getJSON(t, ts.URL+"/queue/count/Sales")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), payload["count"])
}

func TestIncrementRejectsBadBody(t *testing.T) {
	ts, _ := setupTestServer(t)

	for name, body := range map[string]string{
		"missing queue_name": `{"phone_number": "555-1111"}`,
		"missing phone":      `{"queue_name": "Sales"}`,
		"empty values":       `{"phone_number": "", "queue_name": ""}`,
		"not json":           `phone=555`,
	} {
		status, payload := postJSON(t, ts.URL+"/queue/increment", body)
		assert.Equal(t, http.StatusBadRequest, status, name)
		assert.Equal(t, "INVALID_REQUEST", payload["code"], name)
	}
}

func TestDecrementRemovesAndRenumbers(t *testing.T) {
	ts, _ := setupTestServer(t)

	for _, phone := range []string{"555-1111", "555-2222", "555-3333"} {
		status, _ := postJSON(t, ts.URL+"/queue/increment", callerBody(phone, "Sales"))
		require.Equal(t, http.StatusOK, status)
	}

	status, payload := postJSON(t, ts.URL+"/queue/decrement", callerBody("555-1111", "Sales"))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Caller 555-1111 removed from queue Sales.", payload["message"])

	status, payload = getJSON(t, ts.URL+"/queue/status?phone_number=555-2222&queue_name=Sales")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, payload["in_queue"])
	assert.Equal(t, float64(1), payload["position"])

	status, payload = getJSON(t, ts.URL+"/queue/count/Sales")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), payload["count"])
}

func TestDecrementAbsentCallerIsOK(t *testing.T) {
	ts, _ := setupTestServer(t)

	status, payload := postJSON(t, ts.URL+"/queue/decrement", callerBody("555-9999", "Sales"))
	assert.Equal(t, http.StatusOK, status, "removing an absent caller is a normal outcome")
	assert.Equal(t, "Caller not found in the queue or already removed.", payload["message"])
}

func TestStatusEndpoint(t *testing.T) {
	ts, _ := setupTestServer(t)

	status, _ := postJSON(t, ts.URL+"/queue/increment", callerBody("555-1111", "Sales"))
	require.Equal(t, http.StatusOK, status)

	status, payload := getJSON(t, ts.URL+"/queue/status?phone_number=555-1111&queue_name=Sales")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, payload["in_queue"])
	assert.Equal(t, float64(1), payload["position"])

	status, payload = getJSON(t, ts.URL+"/queue/status?phone_number=555-9999&queue_name=Sales")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, payload["in_queue"])
	assert.Nil(t, payload["position"])

	status, payload = getJSON(t, ts.URL+"/queue/status?phone_number=555-1111")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_REQUEST", payload["code"])
}

func TestCountEndpoint(t *testing.T) {
	ts, _ := setupTestServer(t)

	status, payload := getJSON(t, ts.URL+"/queue/count/Nowhere")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Nowhere", payload["queue_name"])
	assert.Equal(t, float64(0), payload["count"])
}

func TestSummaryEndpoint(t *testing.T) {
	ts, _ := setupTestServer(t)

	for _, seed := range []struct{ phone, queueName string }{
		{"555-1111", "Sales"},
		{"555-2222", "Sales"},
		{"555-3333", "Support"},
	} {
		status, _ := postJSON(t, ts.URL+"/queue/increment", callerBody(seed.phone, seed.queueName))
		require.Equal(t, http.StatusOK, status)
	}

	status, payload := getJSON(t, ts.URL+"/queues/summary")
	assert.Equal(t, http.StatusOK, status)
	queues, ok := payload["queues"].([]any)
	require.True(t, ok)
	require.Len(t, queues, 2)
	first := queues[0].(map[string]any)
	assert.Equal(t, "Sales", first["queue_name"])
	assert.Equal(t, float64(2), first["count"])
	second := queues[1].(map[string]any)
	assert.Equal(t, "Support", second["queue_name"])
	assert.Equal(t, float64(1), second["count"])
}

func TestSummaryEmpty(t *testing.T) {
	ts, _ := setupTestServer(t)

	status, payload := getJSON(t, ts.URL+"/queues/summary")
	assert.Equal(t, http.StatusOK, status)
	queues, ok := payload["queues"].([]any)
	require.True(t, ok, "queues must be a list even when empty")
	assert.Empty(t, queues)
}

func TestRootAndHealth(t *testing.T) {
	ts, _ := setupTestServer(t)

	status, payload := getJSON(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Welcome to the Call Queue Management Service.", payload["message"])

	status, payload = getJSON(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", payload["status"])
}

func TestDashboardServesHTML(t *testing.T) {
	ts, _ := setupTestServer(t)

	res, err := http.Get(ts.URL + "/dashboard")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, strings.HasPrefix(res.Header.Get("Content-Type"), "text/html"))
}
