// Package scheduleapi provides a client for the schedule coordination server.
package scheduleapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/singingsandhill/calendar/internal/errors"
	"github.com/singingsandhill/calendar/internal/logger"
	"github.com/singingsandhill/calendar/internal/models"
)

// ScheduleDetail is the full page-load payload: the schedule context plus
// its participants and both poll option lists.
type ScheduleDetail struct {
	models.Schedule
	Participants []models.Participant `json:"participants"`
	Locations    []models.Option      `json:"locations"`
	Menus        []models.Option      `json:"menus"`
}

// errorResponse is the server's rejection payload
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client defines the remote authority operations the coordination session
// depends on. All mutations go through the server; its responses are
// authoritative over any locally computed state.
type Client interface {
	// FetchSchedule loads a schedule with its participants and poll options
	FetchSchedule(ctx context.Context, ownerID string, year, month int) (*ScheduleDetail, error)
	// ListParticipants reloads the participant list for a schedule
	ListParticipants(ctx context.Context, scheduleID int) ([]models.Participant, error)
	// CreateParticipant registers a new participant; the server assigns id and color
	CreateParticipant(ctx context.Context, scheduleID int, name string) (*models.Participant, error)
	// DeleteParticipant removes a participant
	DeleteParticipant(ctx context.Context, participantID int) error
	// UpdateSelections commits a day-index set; the echo is the committed baseline
	UpdateSelections(ctx context.Context, participantID int, days []int) (*models.Participant, error)
	// AddOption creates a poll option of the given kind
	AddOption(ctx context.Context, scheduleID int, kind models.OptionKind, name, optionURL string) (*models.Option, error)
	// RemoveOption deletes a poll option
	RemoveOption(ctx context.Context, kind models.OptionKind, optionID int) error
	// Vote records a vote; the echo carries the option's reconciled state
	Vote(ctx context.Context, kind models.OptionKind, optionID int, voterName string) (*models.Option, error)
	// Unvote withdraws a vote; the echo carries the option's reconciled state
	Unvote(ctx context.Context, kind models.OptionKind, optionID int, voterName string) (*models.Option, error)
	// BaseURL returns the configured server base URL
	BaseURL() string
}

// HTTPClient is the real HTTP client for the schedule server
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a new schedule server client
func NewHTTPClient(baseURL string, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// NewHTTPClientWithHTTPClient creates a client with a custom http.Client
func NewHTTPClientWithHTTPClient(baseURL string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{baseURL: baseURL, httpClient: httpClient, log: log}
}

// BaseURL returns the configured server base URL
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// kindPath returns the URL path segment for a poll option kind
func kindPath(kind models.OptionKind) string {
	if kind == models.KindMenu {
		return "menus"
	}
	return "locations"
}

// doRequest executes one HTTP call against the server, decoding either the
// success payload into out (unless out is nil or the response is 204) or
// the server's {code, message} rejection into a kind-tagged error.
func (c *HTTPClient) doRequest(ctx context.Context, method, path string, payload, out interface{}) error {
	reqID := uuid.NewString()
	reqURL := c.baseURL + path

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return apperrors.Internal(fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(encoded)
	}

	if c.log.IsRequestLoggingEnabled() {
		c.log.Debug("schedule server request", "request_id", reqID, "method", method, "url", reqURL)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Transportf(err, "failed to reach schedule server")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Transportf(err, "failed to read server response")
	}

	if c.log.IsRequestLoggingEnabled() {
		c.log.Debug("schedule server response", "request_id", reqID, "status", resp.StatusCode, "bytes", len(respBody))
	}

	if resp.StatusCode >= 400 {
		var rejection errorResponse
		if err := json.Unmarshal(respBody, &rejection); err != nil || rejection.Code == "" {
			return apperrors.Transportf(
				fmt.Errorf("status %d: %s", resp.StatusCode, respBody),
				"unexpected server response")
		}
		return remoteError(rejection)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return apperrors.Transportf(err, "malformed server response")
	}
	return nil
}

// remoteError maps a server rejection code to an application error kind,
// preserving the server's code and message verbatim.
func remoteError(rejection errorResponse) error {
	kind := apperrors.ErrInternal
	switch rejection.Code {
	case "DUPLICATE_PARTICIPANT", "DUPLICATE_LOCATION", "DUPLICATE_MENU", "DUPLICATE_SCHEDULE":
		kind = apperrors.ErrConflict
	case "PARTICIPANT_LIMIT_EXCEEDED":
		kind = apperrors.ErrLimitExceeded
	case "SCHEDULE_NOT_FOUND", "PARTICIPANT_NOT_FOUND", "LOCATION_NOT_FOUND", "MENU_NOT_FOUND", "OWNER_NOT_FOUND":
		kind = apperrors.ErrNotFound
	case "VALIDATION_ERROR", "INVALID_SELECTION", "INVALID_ARGUMENT", "INVALID_OWNER_ID", "INVALID_PATH_PARAM":
		kind = apperrors.ErrValidation
	}
	return apperrors.Remote(kind, rejection.Code, rejection.Message)
}

// FetchSchedule loads a schedule with its participants and poll options
func (c *HTTPClient) FetchSchedule(ctx context.Context, ownerID string, year, month int) (*ScheduleDetail, error) {
	path := fmt.Sprintf("/api/owners/%s/schedules/%d/%d", url.PathEscape(ownerID), year, month)
	var detail ScheduleDetail
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &detail); err != nil {
		return nil, err
	}
	for i := range detail.Locations {
		detail.Locations[i].Kind = models.KindLocation
	}
	for i := range detail.Menus {
		detail.Menus[i].Kind = models.KindMenu
	}
	return &detail, nil
}

// ListParticipants reloads the participant list for a schedule
func (c *HTTPClient) ListParticipants(ctx context.Context, scheduleID int) ([]models.Participant, error) {
	path := fmt.Sprintf("/api/schedules/%d/participants", scheduleID)
	var participants []models.Participant
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &participants); err != nil {
		return nil, err
	}
	return participants, nil
}

// CreateParticipant registers a new participant
func (c *HTTPClient) CreateParticipant(ctx context.Context, scheduleID int, name string) (*models.Participant, error) {
	path := fmt.Sprintf("/api/schedules/%d/participants", scheduleID)
	payload := map[string]string{"name": name}
	var participant models.Participant
	if err := c.doRequest(ctx, http.MethodPost, path, payload, &participant); err != nil {
		return nil, err
	}
	return &participant, nil
}

// DeleteParticipant removes a participant
func (c *HTTPClient) DeleteParticipant(ctx context.Context, participantID int) error {
	path := fmt.Sprintf("/api/participants/%d", participantID)
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}

// UpdateSelections commits a day-index set for a participant
func (c *HTTPClient) UpdateSelections(ctx context.Context, participantID int, days []int) (*models.Participant, error) {
	path := fmt.Sprintf("/api/participants/%d/selections", participantID)
	payload := map[string][]int{"selections": days}
	var participant models.Participant
	if err := c.doRequest(ctx, http.MethodPatch, path, payload, &participant); err != nil {
		return nil, err
	}
	return &participant, nil
}

// AddOption creates a poll option of the given kind
func (c *HTTPClient) AddOption(ctx context.Context, scheduleID int, kind models.OptionKind, name, optionURL string) (*models.Option, error) {
	path := fmt.Sprintf("/api/schedules/%d/%s", scheduleID, kindPath(kind))
	payload := map[string]string{"name": name}
	if kind == models.KindMenu && optionURL != "" {
		payload["url"] = optionURL
	}
	var option models.Option
	if err := c.doRequest(ctx, http.MethodPost, path, payload, &option); err != nil {
		return nil, err
	}
	option.Kind = kind
	return &option, nil
}

// RemoveOption deletes a poll option
func (c *HTTPClient) RemoveOption(ctx context.Context, kind models.OptionKind, optionID int) error {
	path := fmt.Sprintf("/api/%s/%d", kindPath(kind), optionID)
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}

// Vote records a vote for voterName on an option
func (c *HTTPClient) Vote(ctx context.Context, kind models.OptionKind, optionID int, voterName string) (*models.Option, error) {
	path := fmt.Sprintf("/api/%s/%d/votes", kindPath(kind), optionID)
	payload := map[string]string{"voterName": voterName}
	var option models.Option
	if err := c.doRequest(ctx, http.MethodPost, path, payload, &option); err != nil {
		return nil, err
	}
	option.Kind = kind
	return &option, nil
}

// Unvote withdraws voterName's vote from an option
func (c *HTTPClient) Unvote(ctx context.Context, kind models.OptionKind, optionID int, voterName string) (*models.Option, error) {
	path := fmt.Sprintf("/api/%s/%d/votes/%s", kindPath(kind), optionID, url.PathEscape(voterName))
	var option models.Option
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, &option); err != nil {
		return nil, err
	}
	option.Kind = kind
	return &option, nil
}

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)
