// Package apiclient talks to a running habittrax server.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Emes13/habittrax/internal/server"
	"github.com/Emes13/habittrax/internal/stats"
	"github.com/Emes13/habittrax/pkg/habit"
	"github.com/Emes13/habittrax/pkg/versioninfo"
)

type Client struct {
	BaseURL string
	// Token is sent as a bearer token when set: an API key or a
	// "provider:jwt" ID token.
	Token string
	HTTP  *http.Client
}

func New(base, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(base, "/"),
		Token:   token,
		HTTP:    http.DefaultClient,
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{StatusCode: res.StatusCode}
		var e struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(res.Body).Decode(&e) == nil {
			apiErr.Message = e.Error
		}
		return apiErr
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) ListHabits(ctx context.Context) ([]habit.Habit, error) {
	var resp server.HabitListResponse
	if err := c.do(ctx, http.MethodGet, "/api/habits", nil, &resp); err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return resp.Habits, nil
}

// ActiveHabits lists the habits scheduled on d.
func (c *Client) ActiveHabits(ctx context.Context, d habit.Date) ([]habit.Habit, error) {
	var resp server.HabitListResponse
	if err := c.do(ctx, http.MethodGet, "/api/habits?date="+d.String(), nil, &resp); err != nil {
		return nil, fmt.Errorf("list habits for %s: %w", d, err)
	}
	return resp.Habits, nil
}

func (c *Client) CreateHabit(ctx context.Context, req server.HabitRequest) (habit.Habit, error) {
	var h habit.Habit
	if err := c.do(ctx, http.MethodPost, "/api/habits", req, &h); err != nil {
		return habit.Habit{}, fmt.Errorf("create habit: %w", err)
	}
	return h, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]habit.Category, error) {
	var resp server.CategoryListResponse
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &resp); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return resp.Categories, nil
}

func (c *Client) LogsByDate(ctx context.Context, d habit.Date) ([]habit.HabitLog, error) {
	var resp server.LogListResponse
	if err := c.do(ctx, http.MethodGet, "/api/habit-logs?date="+d.String(), nil, &resp); err != nil {
		return nil, fmt.Errorf("logs for %s: %w", d, err)
	}
	return resp.Logs, nil
}

func (c *Client) GetHabitSummary(ctx context.Context, habitID string) (*habit.HabitSummary, error) {
	var resp server.HabitSummaryResponse
	if err := c.do(ctx, http.MethodGet, "/api/habits/"+url.PathEscape(habitID)+"/summary", nil, &resp); err != nil {
		return nil, fmt.Errorf("summary %s: %w", habitID, err)
	}
	return &resp.HabitSummary, nil
}

// Toggle cycles the habit's status on d and returns the stored log.
func (c *Client) Toggle(ctx context.Context, habitID string, d habit.Date) (habit.HabitLog, error) {
	var l habit.HabitLog
	body := server.StatusRequest{Date: d.String()}
	if err := c.do(ctx, http.MethodPost, "/api/habits/"+url.PathEscape(habitID)+"/toggle", body, &l); err != nil {
		return habit.HabitLog{}, fmt.Errorf("toggle %s: %w", habitID, err)
	}
	return l, nil
}

func (c *Client) SetStatus(ctx context.Context, habitID string, d habit.Date, st habit.Status) (habit.HabitLog, error) {
	var l habit.HabitLog
	s := string(st)
	body := server.StatusRequest{Date: d.String(), Status: &s}
	if err := c.do(ctx, http.MethodPut, "/api/habits/"+url.PathEscape(habitID)+"/status", body, &l); err != nil {
		return habit.HabitLog{}, fmt.Errorf("set status %s: %w", habitID, err)
	}
	return l, nil
}

func (c *Client) DailyStats(ctx context.Context, d habit.Date) (stats.Snapshot, error) {
	var snap stats.Snapshot
	if err := c.do(ctx, http.MethodGet, "/api/stats/daily?date="+d.String(), nil, &snap); err != nil {
		return stats.Snapshot{}, fmt.Errorf("daily stats: %w", err)
	}
	return snap, nil
}

func (c *Client) Version(ctx context.Context) (versioninfo.VersionInfo, error) {
	var info versioninfo.VersionInfo
	if err := c.do(ctx, http.MethodGet, "/version", nil, &info); err != nil {
		return versioninfo.VersionInfo{}, fmt.Errorf("version: %w", err)
	}
	return info, nil
}
