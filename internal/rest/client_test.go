package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depotray/depotray/internal/domain"
)

const notificationsJSON = `[
	{"id":1,"title":"Low stock","message":"Aisle 4","type":"ALERT","read":false,"workerId":null},
	{"id":2,"title":"Dock delay","message":"Dock 2","type":"WARNING","read":true,"workerId":null},
	{"id":3,"title":"Pick task","message":"Bay 9","type":"INFO","read":false,"workerId":7},
	{"id":4,"title":"Mystery","message":"ignored","type":"BANANA","read":false,"workerId":null}
]`

func TestClient_Notifications(t *testing.T) {
	t.Run("decodes the user's list", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/api/notifications/user/7", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(notificationsJSON))
		}))
		defer srv.Close()

		list, err := New(srv.URL).Notifications(context.Background(), 7)
		require.NoError(t, err)
		// The unknown-kind record is skipped, not fatal.
		require.Len(t, list, 3)
		assert.Equal(t, domain.KindWarning, list[0].Kind)
		assert.Equal(t, domain.KindError, list[1].Kind)
		assert.True(t, list[1].Read)
		assert.Equal(t, int64(7), list[2].Recipient.Value)
	})

	t.Run("server error surfaces", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := New(srv.URL).Notifications(context.Background(), 7)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})

	t.Run("malformed body surfaces", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"not":"a list"`))
		}))
		defer srv.Close()

		_, err := New(srv.URL).Notifications(context.Background(), 7)
		assert.Error(t, err)
	})
}

func TestClient_UnreadNotifications(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(notificationsJSON))
	}))
	defer srv.Close()

	unread, err := New(srv.URL).UnreadNotifications(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, unread, 2)
	assert.Equal(t, int64(1), unread[0].ID)
	assert.Equal(t, int64(3), unread[1].ID)
}

func TestClient_DeleteNotification(t *testing.T) {
	t.Run("issues a delete for the id", func(t *testing.T) {
		var gotPath, gotMethod string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotMethod = r.Method
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		require.NoError(t, New(srv.URL).DeleteNotification(context.Background(), 42))
		assert.Equal(t, http.MethodDelete, gotMethod)
		assert.Equal(t, "/api/notifications/42", gotPath)
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		}))
		defer srv.Close()

		err := New(srv.URL).DeleteNotification(context.Background(), 42)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
	})
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/notifications/user/1", r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := New(srv.URL+"/").Notifications(context.Background(), 1)
	assert.NoError(t, err)
}
