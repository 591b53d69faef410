package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWorldStateDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/world-state" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		body := `{
			"turn": 3,
			"threat_level": "HIGH",
			"agency_exposure_level": 42,
			"director_trust_score": 61,
			"regions": {"middle_east": {"name": "Middle East", "tension": 70, "active_missions": ["op-1"]}},
			"compromised_assets": ["RAVEN"]
		}`
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write body: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	state, err := client.WorldState(context.Background())
	if err != nil {
		t.Fatalf("world state: %v", err)
	}
	if state.Turn != 3 || state.ThreatLevel != ThreatHigh {
		t.Fatalf("unexpected state: %+v", state)
	}
	if state.Regions["middle_east"].Tension != 70 {
		t.Fatalf("unexpected region decode: %+v", state.Regions)
	}
	if len(state.CompromisedAssets) != 1 || state.CompromisedAssets[0] != "RAVEN" {
		t.Fatalf("unexpected compromised assets: %+v", state.CompromisedAssets)
	}
}

func TestIssueOrderSendsBodyAndDecodesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/order" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Order     string  `json:"order"`
			Operative *string `json:"operative"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode order body: %v", err)
		}
		if body.Order != "GHOST: observe" {
			t.Fatalf("unexpected order text: %q", body.Order)
		}
		if body.Operative == nil || *body.Operative != "GHOST" {
			t.Fatalf("unexpected operative: %v", body.Operative)
		}
		w.Header().Set("Content-Type", "application/json")
		resp := `{"transmission": {"id": "1", "codename": "GHOST", "order": "observe", "response": "Done.", "risk_level": "low", "turn": 1}, "intel_report": "Quiet.", "game_over": null}`
		if _, err := w.Write([]byte(resp)); err != nil {
			t.Fatalf("write body: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	result, err := client.IssueOrder(context.Background(), "GHOST: observe", "GHOST")
	if err != nil {
		t.Fatalf("issue order: %v", err)
	}
	if result.Transmission == nil || result.Transmission.ID != "1" {
		t.Fatalf("unexpected transmission: %+v", result.Transmission)
	}
	if result.IntelReport != "Quiet." {
		t.Fatalf("unexpected intel report: %q", result.IntelReport)
	}
	if result.GameOver.Active() {
		t.Fatalf("null game_over must not be active")
	}
}

func TestAutoRoutedOrderSendsNullOperative(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode order body: %v", err)
		}
		if op, present := body["operative"]; !present || op != nil {
			t.Fatalf("expected operative to be explicit null, got %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{}`)); err != nil {
			t.Fatalf("write body: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	if _, err := client.IssueOrder(context.Background(), "observe", ""); err != nil {
		t.Fatalf("issue auto-routed order: %v", err)
	}
}

func TestStatusErrorFromStructuredBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		if _, err := w.Write([]byte(`{"detail": "orchestrator offline"}`)); err != nil {
			t.Fatalf("write body: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.StartTurn(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Status != http.StatusInternalServerError || statusErr.Detail != "orchestrator offline" {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
}

func TestStatusErrorFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		if _, err := w.Write([]byte("<html>gateway</html>")); err != nil {
			t.Fatalf("write body: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.EndTurn(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Detail != http.StatusText(http.StatusBadGateway) {
		t.Fatalf("expected status-text fallback, got %q", statusErr.Detail)
	}
}

func TestGenerateAudioReturnsBinary(t *testing.T) {
	payload := []byte{0xff, 0xfb, 0x90, 0x00}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/audio/generate/GHOST" {
			t.Fatalf("unexpected audio path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		if _, err := w.Write(payload); err != nil {
			t.Fatalf("write body: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	audio, err := client.GenerateAudio(context.Background(), "GHOST", "Standing by.")
	if err != nil {
		t.Fatalf("generate audio: %v", err)
	}
	if len(audio) != len(payload) {
		t.Fatalf("unexpected audio length: %d", len(audio))
	}
}

func TestGenerateAudioSwallowsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	audio, err := client.GenerateAudio(context.Background(), "GHOST", "text")
	if err != nil || audio != nil {
		t.Fatalf("audio failures must degrade to nil, got %v %v", audio, err)
	}

	srv.Close()
	audio, err = client.GenerateAudio(context.Background(), "GHOST", "text")
	if err != nil || audio != nil {
		t.Fatalf("transport failures must degrade to nil, got %v %v", audio, err)
	}
}

func TestGenerateAudioRejectsNonAudioContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"status": "unavailable"}`)); err != nil {
			t.Fatalf("write body: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	audio, err := client.GenerateAudio(context.Background(), "GHOST", "text")
	if err != nil || audio != nil {
		t.Fatalf("non-audio success must degrade to nil, got %v %v", audio, err)
	}
}

func TestEndTurnDecodesRogueEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		body := `{"new_turn": 2, "threat_level": "HIGH", "rogue_events": [{"title": "Leak", "narration": "...", "severity": "critical"}], "game_over": null}`
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write body: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	result, err := client.EndTurn(context.Background())
	if err != nil {
		t.Fatalf("end turn: %v", err)
	}
	if result.NewTurn != 2 || result.ThreatLevel != ThreatHigh {
		t.Fatalf("unexpected end-turn result: %+v", result)
	}
	if len(result.RogueEvents) != 1 || result.RogueEvents[0].Severity != SeverityCritical {
		t.Fatalf("unexpected rogue events: %+v", result.RogueEvents)
	}
}

func TestReadBackEndpoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/transmissions":
			if _, err := w.Write([]byte(`[{"id": "1", "codename": "GHOST"}]`)); err != nil {
				t.Fatalf("write body: %v", err)
			}
		case "/api/briefing":
			if _, err := w.Write([]byte(`{"briefing": "All quiet."}`)); err != nil {
				t.Fatalf("write body: %v", err)
			}
		case "/api/game-over":
			if _, err := w.Write([]byte(`{"game_over": false}`)); err != nil {
				t.Fatalf("write body: %v", err)
			}
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	log, err := client.Transmissions(context.Background())
	if err != nil || len(log) != 1 || log[0].Codename != "GHOST" {
		t.Fatalf("unexpected transmissions: %+v %v", log, err)
	}
	briefing, err := client.Briefing(context.Background())
	if err != nil || briefing != "All quiet." {
		t.Fatalf("unexpected briefing: %q %v", briefing, err)
	}
	over, err := client.GameOver(context.Background())
	if err != nil || over.GameOver {
		t.Fatalf("unexpected game-over check: %+v %v", over, err)
	}
}
