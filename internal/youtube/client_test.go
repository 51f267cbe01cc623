package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Taichi-iskw/yt-metrics/internal/errors"
)

func TestClient_FetchChannel(t *testing.T) {
	mockResponse := map[string]interface{}{
		"items": []map[string]interface{}{
			{
				"id": "UC123",
				"snippet": map[string]interface{}{
					"title": "Test Channel",
				},
				"statistics": map[string]interface{}{
					"subscriberCount": "52300",
				},
				"contentDetails": map[string]interface{}{
					"relatedPlaylists": map[string]interface{}{
						"uploads": "UU123",
					},
				},
			},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/channels", r.URL.Path)
		assert.Equal(t, "UC123", r.URL.Query().Get("id"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(mockResponse)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	channel, err := client.FetchChannel(context.Background(), "UC123")
	require.NoError(t, err)

	assert.Equal(t, "UC123", channel.ID)
	assert.Equal(t, "Test Channel", channel.Title)
	assert.Equal(t, "UU123", channel.UploadsPlaylistID)
	assert.Equal(t, int64(52300), channel.SubscriberCount)
}

func TestClient_FetchChannel_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"items": []interface{}{}})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	_, err := client.FetchChannel(context.Background(), "UCmissing")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.Code(err))
}

func TestClient_ListPage(t *testing.T) {
	mockResponse := map[string]interface{}{
		"items": []map[string]interface{}{
			{"contentDetails": map[string]interface{}{"videoId": "vid1"}},
			{"contentDetails": map[string]interface{}{"videoId": "vid2"}},
		},
		"nextPageToken": "CAUQAA",
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/playlistItems", r.URL.Path)
		assert.Equal(t, "UU123", r.URL.Query().Get("playlistId"))
		assert.Equal(t, "50", r.URL.Query().Get("maxResults"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(mockResponse)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	page, err := client.ListPage(context.Background(), "UU123", 50, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"vid1", "vid2"}, page.VideoIDs)
	assert.Equal(t, "CAUQAA", page.NextPageToken)
}

func TestClient_ListPage_SendsContinuationToken(t *testing.T) {
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("pageToken")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"items": []interface{}{}})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	page, err := client.ListPage(context.Background(), "UU123", 50, "CAUQAA")
	require.NoError(t, err)

	assert.Equal(t, "CAUQAA", gotToken)
	assert.Empty(t, page.VideoIDs)
	assert.Empty(t, page.NextPageToken)
}

func TestClient_FetchBatch(t *testing.T) {
	mockResponse := map[string]interface{}{
		"items": []map[string]interface{}{
			{
				"id": "vid1",
				"snippet": map[string]interface{}{
					"title":       "First Video",
					"publishedAt": "2024-01-15T12:00:00Z",
					"thumbnails": map[string]interface{}{
						"high": map[string]interface{}{"url": "https://example.com/hq1.jpg"},
					},
				},
				"contentDetails": map[string]interface{}{"duration": "PT10M30S"},
				"statistics": map[string]interface{}{
					"viewCount":    "1000",
					"likeCount":    "50",
					"commentCount": "7",
				},
			},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/videos", r.URL.Path)
		assert.Equal(t, "vid1,vid2", r.URL.Query().Get("id"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(mockResponse)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	raws, err := client.FetchBatch(context.Background(), []string{"vid1", "vid2"})
	require.NoError(t, err)
	require.Len(t, raws, 1)

	assert.Equal(t, "vid1", raws[0].ID)
	assert.Equal(t, "First Video", raws[0].Snippet.Title)
	assert.Equal(t, "PT10M30S", raws[0].ContentDetails.Duration)
	assert.Equal(t, "1000", raws[0].Statistics.ViewCount)
	assert.Equal(t, "https://example.com/hq1.jpg", raws[0].Snippet.Thumbnails.High.URL)
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     map[string]interface{}
		wantCode string
	}{
		{
			name:   "403 quotaExceeded",
			status: http.StatusForbidden,
			body: map[string]interface{}{
				"error": map[string]interface{}{
					"code":    403,
					"message": "The request cannot be completed because you have exceeded your quota.",
					"errors":  []map[string]interface{}{{"reason": "quotaExceeded"}},
				},
			},
			wantCode: apperrors.CodeQuotaExceeded,
		},
		{
			name:   "403 dailyLimitExceeded",
			status: http.StatusForbidden,
			body: map[string]interface{}{
				"error": map[string]interface{}{
					"errors": []map[string]interface{}{{"reason": "dailyLimitExceeded"}},
				},
			},
			wantCode: apperrors.CodeQuotaExceeded,
		},
		{
			name:     "bare 403 without reason",
			status:   http.StatusForbidden,
			body:     map[string]interface{}{},
			wantCode: apperrors.CodeQuotaExceeded,
		},
		{
			name:   "403 with unrelated reason",
			status: http.StatusForbidden,
			body: map[string]interface{}{
				"error": map[string]interface{}{
					"errors": []map[string]interface{}{{"reason": "channelForbidden"}},
				},
			},
			wantCode: apperrors.CodeExternal,
		},
		{
			name:     "429 rate limited",
			status:   http.StatusTooManyRequests,
			body:     map[string]interface{}{},
			wantCode: apperrors.CodeTransient,
		},
		{
			name:     "503 unavailable",
			status:   http.StatusServiceUnavailable,
			body:     map[string]interface{}{},
			wantCode: apperrors.CodeTransient,
		},
		{
			name:     "500 server error",
			status:   http.StatusInternalServerError,
			body:     map[string]interface{}{},
			wantCode: apperrors.CodeTransient,
		},
		{
			name:     "404 not found",
			status:   http.StatusNotFound,
			body:     map[string]interface{}{},
			wantCode: apperrors.CodeExternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(tt.body)
			}))
			defer server.Close()

			client := NewClient("test-key", WithBaseURL(server.URL))

			_, err := client.FetchBatch(context.Background(), []string{"vid1"})
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.Code(err))
		})
	}
}

func TestClient_TransportErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient("test-key", WithBaseURL(server.URL))

	_, err := client.ListPage(context.Background(), "UU123", 50, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsTransient(err))
}

func TestClient_RequestTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL), WithTimeout(10*time.Millisecond))

	_, err := client.ListPage(context.Background(), "UU123", 50, "")
	require.Error(t, err)
	// deadline expiry must classify as retryable
	assert.True(t, apperrors.IsTransient(err))
}

func TestClient_QueryEscapesIdentifiers(t *testing.T) {
	var rawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"items": []interface{}{}})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))

	_, err := client.ListPage(context.Background(), "UU+we/ird", 50, "")
	require.NoError(t, err)
	assert.NotContains(t, rawQuery, "UU+we/ird")
}
