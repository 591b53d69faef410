// Package api is the typed client for the remote game-logic service. One
// method per capability; no retries — retry policy belongs to callers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// StatusError is the single error shape for non-success service responses.
// Detail comes from the structured error body when the service sent one,
// else from the transport status text.
type StatusError struct {
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("service error %d: %s", e.Status, e.Detail)
}

type Client struct {
	base string
	http *http.Client
}

func NewClient(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func statusError(resp *http.Response) *StatusError {
	detail := http.StatusText(resp.StatusCode)
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && strings.TrimSpace(body.Detail) != "" {
		detail = body.Detail
	}
	return &StatusError{Status: resp.StatusCode, Detail: detail}
}

func (c *Client) WorldState(ctx context.Context) (WorldState, error) {
	var state WorldState
	err := c.do(ctx, http.MethodGet, "/api/world-state", nil, &state)
	return state, err
}

func (c *Client) Operatives(ctx context.Context) ([]Operative, error) {
	var roster []Operative
	err := c.do(ctx, http.MethodGet, "/api/operatives", nil, &roster)
	return roster, err
}

// IssueOrder submits a composed order. operative may be empty, in which case
// the service's own routing picks the recipient.
func (c *Client) IssueOrder(ctx context.Context, order, operative string) (OrderResult, error) {
	body := map[string]any{"order": order, "operative": nil}
	if operative != "" {
		body["operative"] = operative
	}
	var result OrderResult
	err := c.do(ctx, http.MethodPost, "/api/order", body, &result)
	return result, err
}

func (c *Client) StartTurn(ctx context.Context) (StartTurnResult, error) {
	var result StartTurnResult
	err := c.do(ctx, http.MethodPost, "/api/start-turn", nil, &result)
	return result, err
}

func (c *Client) EndTurn(ctx context.Context) (EndTurnResult, error) {
	var result EndTurnResult
	err := c.do(ctx, http.MethodPost, "/api/end-turn", nil, &result)
	return result, err
}

// RespondToEvent acknowledges a world-event directive. The ack body is
// service-defined and opaque to the console.
func (c *Client) RespondToEvent(ctx context.Context, action string) (map[string]any, error) {
	var ack map[string]any
	err := c.do(ctx, http.MethodPost, "/api/respond-to-event", map[string]string{"action": action}, &ack)
	return ack, err
}

func (c *Client) Transmissions(ctx context.Context) ([]Transmission, error) {
	var log []Transmission
	err := c.do(ctx, http.MethodGet, "/api/transmissions", nil, &log)
	return log, err
}

func (c *Client) Briefing(ctx context.Context) (string, error) {
	var result BriefingResult
	err := c.do(ctx, http.MethodGet, "/api/briefing", nil, &result)
	return result.Briefing, err
}

func (c *Client) RogueEvents(ctx context.Context) ([]Alert, error) {
	var events []Alert
	err := c.do(ctx, http.MethodGet, "/api/rogue-events", nil, &events)
	return events, err
}

func (c *Client) ExtractOperative(ctx context.Context, codename string) (map[string]any, error) {
	var ack map[string]any
	err := c.do(ctx, http.MethodPost, "/api/extract", map[string]string{"codename": codename}, &ack)
	return ack, err
}

func (c *Client) NewGame(ctx context.Context) (ResetResult, error) {
	var result ResetResult
	err := c.do(ctx, http.MethodPost, "/api/new-game", nil, &result)
	return result, err
}

func (c *Client) GameOver(ctx context.Context) (GameOverState, error) {
	var state GameOverState
	err := c.do(ctx, http.MethodGet, "/api/game-over", nil, &state)
	return state, err
}

// GenerateAudio renders a transmission as audio. Audio is a best-effort
// enhancement: every failure, transport or otherwise, degrades to (nil, nil).
func (c *Client) GenerateAudio(ctx context.Context, codename, text string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, nil
	}
	endpoint := c.base + "/api/audio/generate/" + url.PathEscape(codename)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "audio") {
		return nil, nil
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil || len(audio) == 0 {
		return nil, nil
	}
	return audio, nil
}
