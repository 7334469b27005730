package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

// pointAtStub routes the generator at a stub service for the test and
// restores the flag afterwards.
func pointAtStub(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	prev := baseURL
	baseURL = ts.URL
	t.Cleanup(func() { baseURL = prev })
}

func TestJoinCountsOutcomes(t *testing.T) {
	codes := []int{http.StatusOK, http.StatusConflict, http.StatusInternalServerError}
	var calls atomic.Int64
	pointAtStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(codes[calls.Add(1)-1])
	})

	client := &http.Client{}
	p := &pool{waiting: make(map[string][]callerRequest)}
	var st stats
	c := callerRequest{PhoneNumber: "555-0001", QueueName: "Sales"}
	for range codes {
		join(context.Background(), client, p, &st, c)
	}

	assert.Equal(t, int64(1), st.added.Load())
	assert.Equal(t, int64(1), st.duplicates.Load())
	assert.Equal(t, int64(1), st.failures.Load())

	got, ok := p.take("Sales")
	assert.True(t, ok, "joined caller should be waiting in the pool")
	assert.Equal(t, c, got)
}

func TestLeaveCountsOutcomes(t *testing.T) {
	var calls atomic.Int64
	pointAtStub(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	})

	client := &http.Client{}
	p := &pool{waiting: make(map[string][]callerRequest)}
	var st stats

	leave(context.Background(), client, p, &st, "Sales")
	assert.Zero(t, calls.Load(), "an empty pool must not produce a request")

	p.put(callerRequest{PhoneNumber: "555-0002", QueueName: "Sales"})
	leave(context.Background(), client, p, &st, "Sales")

	assert.Equal(t, int64(1), st.removed.Load())
	assert.Zero(t, st.failures.Load())
}

// A request cut short because the run itself is winding down (duration
// elapsed or interrupt) is not a failed request: a run against a
// healthy service must exit zero.
func TestShutdownCancellationIsNotAFailure(t *testing.T) {
	pointAtStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &http.Client{}
	p := &pool{waiting: make(map[string][]callerRequest)}
	var st stats

	join(ctx, client, p, &st, callerRequest{PhoneNumber: "555-0003", QueueName: "Sales"})
	p.put(callerRequest{PhoneNumber: "555-0004", QueueName: "Sales"})
	leave(ctx, client, p, &st, "Sales")

	assert.Zero(t, st.failures.Load(), "cancellations must not count as failures")
	assert.Zero(t, st.added.Load())
	assert.Zero(t, st.removed.Load())
}
