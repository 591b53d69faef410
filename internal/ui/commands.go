package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"shadownet/internal/api"
	"shadownet/internal/console"
)

// Begin* helpers run the session guard on the Update goroutine and, when the
// guard passes, hand the captured token to a network command. Guard
// rejections stay local: no network call is made.

func (m *Model) beginStartTurn() tea.Cmd {
	tok, err := m.session.BeginStartTurn()
	if err != nil {
		m.reportGuard(err)
		return nil
	}
	m.setStatus("Generating world event and intelligence briefing...")
	client := m.client
	return func() tea.Msg {
		res, err := client.StartTurn(context.Background())
		return startTurnDoneMsg{tok: tok, res: res, err: err}
	}
}

func (m *Model) beginEndTurn() tea.Cmd {
	tok, err := m.session.BeginEndTurn()
	if err != nil {
		m.reportGuard(err)
		return nil
	}
	m.setStatus("Processing end of turn... checking autonomous triggers...")
	client := m.client
	return func() tea.Msg {
		res, err := client.EndTurn(context.Background())
		return endTurnDoneMsg{tok: tok, res: res, err: err}
	}
}

func (m *Model) beginOrder(text string) tea.Cmd {
	target := m.targetCodename()
	tok, composed, err := m.session.BeginOrder(text, target)
	if err != nil {
		m.reportGuard(err)
		return nil
	}
	if target != "" {
		m.setStatus("Transmitting order to " + target + "...")
	} else {
		m.setStatus("Transmitting order...")
	}
	client := m.client
	return func() tea.Msg {
		res, err := client.IssueOrder(context.Background(), composed, target)
		return orderDoneMsg{tok: tok, res: res, err: err}
	}
}

func (m *Model) beginNewGame() tea.Cmd {
	tok := m.session.BeginNewGame()
	m.targetIndex = autoRoute
	m.setStatus("Resetting operation...")
	m.renderPanes()
	client := m.client
	return func() tea.Msg {
		_, err := client.NewGame(context.Background())
		return newGameDoneMsg{tok: tok, err: err}
	}
}

func (m *Model) beginEventResponse(actionIndex int) tea.Cmd {
	event := m.session.CurrentEvent()
	if event == nil || actionIndex < 0 || actionIndex >= len(event.SuggestedActions) {
		m.setError("No such suggested action.")
		return nil
	}
	action := event.SuggestedActions[actionIndex]
	tok, err := m.session.BeginEventResponse()
	if err != nil {
		m.reportGuard(err)
		return nil
	}
	excerpt := action
	if len(excerpt) > 50 {
		excerpt = excerpt[:50]
	}
	m.setStatus("Processing directive: " + excerpt + "...")
	client := m.client
	return func() tea.Msg {
		_, err := client.RespondToEvent(context.Background(), action)
		return ackDoneMsg{tok: tok, status: "Directive acknowledged.", err: err}
	}
}

func (m *Model) beginExtraction(codename string) tea.Cmd {
	tok, err := m.session.BeginExtraction()
	if err != nil {
		m.reportGuard(err)
		return nil
	}
	m.setStatus("Extraction order issued for " + codename + "...")
	client := m.client
	return func() tea.Msg {
		_, err := client.ExtractOperative(context.Background(), codename)
		return ackDoneMsg{tok: tok, status: codename + " extraction underway.", err: err}
	}
}

// beginAudio renders the most recent transmission as audio. Best-effort:
// failures surface only as "no audio available".
func (m *Model) beginAudio() tea.Cmd {
	log := m.session.Transmissions()
	if len(log) == 0 {
		m.setStatus("No transmission to render.")
		return nil
	}
	last := log[len(log)-1]
	m.setStatus("Requesting transmission audio...")
	client := m.client
	return func() tea.Msg {
		audio, _ := client.GenerateAudio(context.Background(), last.Codename, last.Response)
		if audio == nil {
			return audioDoneMsg{}
		}
		name := fmt.Sprintf("shadownet-%s-%d.mp3", strings.ToLower(last.Codename), time.Now().Unix())
		path := filepath.Join(os.TempDir(), name)
		if err := os.WriteFile(path, audio, 0o644); err != nil {
			return audioDoneMsg{}
		}
		return audioDoneMsg{path: path}
	}
}

// refreshCmd fetches the world state and operative roster concurrently. The
// pair applies atomically or not at all; a failed fetch leaves the previous
// snapshots in place.
func (m Model) refreshCmd(tok console.RefreshToken) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		var (
			wg        sync.WaitGroup
			world     api.WorldState
			roster    []api.Operative
			worldErr  error
			rosterErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			world, worldErr = client.WorldState(context.Background())
		}()
		go func() {
			defer wg.Done()
			roster, rosterErr = client.Operatives(context.Background())
		}()
		wg.Wait()
		if worldErr != nil {
			return refreshDoneMsg{tok: tok, err: worldErr}
		}
		if rosterErr != nil {
			return refreshDoneMsg{tok: tok, err: rosterErr}
		}
		return refreshDoneMsg{tok: tok, world: world, roster: roster}
	}
}

func (m Model) alertExpiryCmd(tok console.ExpiryToken) tea.Cmd {
	return tea.Tick(m.cfg.AlertTTL(), func(time.Time) tea.Msg {
		return alertExpiryMsg{tok: tok}
	})
}

func (m Model) archiveCmd(tx api.Transmission) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		return archiveDoneMsg{err: store.Append(tx)}
	}
}

func (m Model) historyCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		entries, err := store.Recent(50)
		return historyDoneMsg{entries: entries, err: err}
	}
}

func (m *Model) reportGuard(err error) {
	switch {
	case errors.Is(err, console.ErrBusy):
		// A mutation is already pending; drop the input silently, matching
		// the disabled-controls behavior of the reference console.
	case errors.Is(err, console.ErrEmptyOrder):
		m.setError("Order text is empty.")
	case errors.Is(err, console.ErrWrongPhase):
		if m.session.Phase() == console.PhaseIdle {
			m.setError("No active turn. Start one with ctrl+s.")
		} else {
			m.setError("Not valid right now (" + m.session.Phase().String() + ").")
		}
	case errors.Is(err, console.ErrGameOver):
		m.setError("Operation terminated. Start a new game with ctrl+n.")
	case errors.Is(err, console.ErrNoEvent):
		m.setError("No active event to respond to.")
	default:
		m.setError(err.Error())
	}
}
