package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-event-reservation/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientAddEvent(t *testing.T) {
	var gotPath string
	var gotMsg model.CalendarSyncMessage

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotMsg))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(server.URL)

	err := c.AddEvent(context.Background(), &model.CalendarSyncMessage{
		Action:        model.CalendarSyncAdd,
		UserID:        7,
		EventID:       3,
		ReservationID: "res-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "/calendar/events", gotPath)
	assert.Equal(t, model.CalendarSyncAdd, gotMsg.Action)
	assert.Equal(t, "res-1", gotMsg.ReservationID)
}

func TestClientRemoveEvent(t *testing.T) {
	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(server.URL)

	err := c.RemoveEvent(context.Background(), &model.CalendarSyncMessage{
		Action:        model.CalendarSyncRemove,
		ReservationID: "res-2",
	})

	require.NoError(t, err)
	assert.Equal(t, "/calendar/events/remove", gotPath)
}

func TestClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(server.URL)

	err := c.AddEvent(context.Background(), &model.CalendarSyncMessage{ReservationID: "res-3"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClientDisabledWithoutBaseURL(t *testing.T) {
	c := NewClient("")

	assert.False(t, c.Enabled())
	assert.NoError(t, c.AddEvent(context.Background(), &model.CalendarSyncMessage{}))
	assert.NoError(t, c.RemoveEvent(context.Background(), &model.CalendarSyncMessage{}))
}
