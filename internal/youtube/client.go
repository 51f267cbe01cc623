// Package youtube provides a client for the YouTube Data API v3.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/Taichi-iskw/yt-metrics/internal/errors"
	"github.com/Taichi-iskw/yt-metrics/internal/model"
)

const (
	defaultBaseURL = "https://www.googleapis.com"
	defaultTimeout = 120 * time.Second
)

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the per-request deadline.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// Client is a YouTube Data API client authenticated by API key.
// It implements ChannelSource, PlaylistSource and VideoSource.
type Client struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient HTTPClient
}

// NewClient creates a new YouTube API client with the given API key.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		timeout:    defaultTimeout,
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchChannel retrieves a channel's title, subscriber count and
// uploads playlist ID. Costs 1 quota unit.
func (c *Client) FetchChannel(ctx context.Context, channelID string) (*model.Channel, error) {
	reqURL := fmt.Sprintf("%s/youtube/v3/channels?part=snippet,statistics,contentDetails&id=%s&key=%s",
		c.baseURL, url.QueryEscape(channelID), url.QueryEscape(c.apiKey))

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var response channelsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternal, "failed to parse channels response")
	}

	if len(response.Items) == 0 {
		return nil, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("channel not found: %s", channelID))
	}

	item := response.Items[0]
	subscribers, _ := strconv.ParseInt(item.Statistics.SubscriberCount, 10, 64)

	return &model.Channel{
		ID:                item.ID,
		Title:             item.Snippet.Title,
		UploadsPlaylistID: item.ContentDetails.RelatedPlaylists.Uploads,
		SubscriberCount:   subscribers,
	}, nil
}

// ListPage retrieves one page of a playlist's video IDs. An empty
// pageToken starts from the beginning. Costs 1 quota unit.
func (c *Client) ListPage(ctx context.Context, playlistID string, pageSize int, pageToken string) (*PlaylistPage, error) {
	reqURL := fmt.Sprintf("%s/youtube/v3/playlistItems?part=contentDetails&playlistId=%s&maxResults=%d&key=%s",
		c.baseURL, url.QueryEscape(playlistID), pageSize, url.QueryEscape(c.apiKey))
	if pageToken != "" {
		reqURL += "&pageToken=" + url.QueryEscape(pageToken)
	}

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var response playlistItemsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternal, "failed to parse playlist items response")
	}

	ids := make([]string, 0, len(response.Items))
	for _, item := range response.Items {
		ids = append(ids, item.ContentDetails.VideoID)
	}

	return &PlaylistPage{
		VideoIDs:      ids,
		NextPageToken: response.NextPageToken,
	}, nil
}

// FetchBatch retrieves full raw records for up to 50 video IDs in one
// call. Costs 1 quota unit regardless of batch size.
func (c *Client) FetchBatch(ctx context.Context, ids []string) ([]RawVideo, error) {
	escaped := make([]string, 0, len(ids))
	for _, id := range ids {
		escaped = append(escaped, url.QueryEscape(id))
	}
	reqURL := fmt.Sprintf("%s/youtube/v3/videos?part=snippet,statistics,contentDetails&id=%s&key=%s",
		c.baseURL, strings.Join(escaped, ","), url.QueryEscape(c.apiKey))

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var response videosListResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternal, "failed to parse videos response")
	}

	return response.Items, nil
}

func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, apperrors.CodeTransient, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeTransient, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, body)
	}

	return body, nil
}

// classifyStatus maps a non-200 response onto the error taxonomy.
// A 403 is quota exhaustion unless the API names a different reason.
func classifyStatus(statusCode int, body []byte) error {
	switch {
	case statusCode == http.StatusForbidden:
		reason := apiErrorReason(body)
		switch reason {
		case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded", "":
			return apperrors.New(apperrors.CodeQuotaExceeded, "YouTube API daily quota exceeded")
		default:
			return apperrors.New(apperrors.CodeExternal, fmt.Sprintf("YouTube API access denied (%s)", reason))
		}
	case statusCode == http.StatusTooManyRequests, statusCode >= http.StatusInternalServerError:
		return apperrors.New(apperrors.CodeTransient, fmt.Sprintf("YouTube API unavailable (status %d)", statusCode))
	default:
		return apperrors.New(apperrors.CodeExternal, fmt.Sprintf("YouTube API error (status %d)", statusCode))
	}
}

// apiErrorReason extracts the first error reason from an API error
// body, or an empty string when the body carries none.
func apiErrorReason(body []byte) string {
	var response apiErrorResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return ""
	}
	if len(response.Error.Errors) == 0 {
		return ""
	}
	return response.Error.Errors[0].Reason
}

// API response types (private - implementation detail)

type channelsResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
		Statistics struct {
			SubscriberCount string `json:"subscriberCount"`
		} `json:"statistics"`
		ContentDetails struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	Items []struct {
		ContentDetails struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

type videosListResponse struct {
	Items []RawVideo `json:"items"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}
