// Package console owns the turn/order orchestration state machine for the
// director console. A Session is the single typed state container: the UI
// layer calls a Begin* guard before dispatching a network request and feeds
// the decoded result back through the matching Apply* transition. Sessions
// are not safe for concurrent use; the hosting program runtime serializes
// all transitions on one goroutine.
package console

import (
	"errors"
	"strings"

	"shadownet/internal/api"
)

// Phase is the turn lifecycle state. Exactly one phase is active at a time;
// PhaseStarting and PhaseEnding are transient request-in-flight states and
// PhaseGameOver absorbs every other phase until a new game.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseStarting
	PhaseActive
	PhaseEnding
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseStarting:
		return "starting"
	case PhaseActive:
		return "active"
	case PhaseEnding:
		return "ending"
	case PhaseGameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

var (
	ErrBusy       = errors.New("another operation is in flight")
	ErrWrongPhase = errors.New("operation not valid in current phase")
	ErrGameOver   = errors.New("session is in game-over state")
	ErrEmptyOrder = errors.New("order text is empty")
	ErrNoEvent    = errors.New("no active event to respond to")
)

// Token binds an in-flight operation to the session epoch it was issued in.
// Apply/Fail with a stale token is a no-op, so a response that lands after a
// new-game reset cannot resurrect cleared state.
type Token struct {
	epoch uint64
}

// RefreshToken additionally carries the refresh generation; only the newest
// issued refresh may replace the snapshots.
type RefreshToken struct {
	epoch uint64
	gen   uint64
}

// ExpiryToken identifies one scheduled alert-expiry timer. Scheduling a newer
// timer supersedes all earlier ones.
type ExpiryToken struct {
	epoch uint64
	gen   uint64
}

type Session struct {
	phase Phase
	busy  bool

	epoch      uint64
	refreshGen uint64
	alertGen   uint64

	world         *api.WorldState
	operatives    []api.Operative
	transmissions []api.Transmission
	briefing      string
	currentEvent  *api.WorldEvent
	alerts        []api.Alert
	gameOver      *api.GameOverState
}

func NewSession() *Session {
	return &Session{phase: PhaseIdle}
}

func (s *Session) Phase() Phase                      { return s.phase }
func (s *Session) Busy() bool                        { return s.busy }
func (s *Session) World() *api.WorldState            { return s.world }
func (s *Session) Operatives() []api.Operative       { return s.operatives }
func (s *Session) Transmissions() []api.Transmission { return s.transmissions }
func (s *Session) Briefing() string                  { return s.briefing }
func (s *Session) CurrentEvent() *api.WorldEvent     { return s.currentEvent }
func (s *Session) GameOver() *api.GameOverState      { return s.gameOver }

func (s *Session) token() Token { return Token{epoch: s.epoch} }

func (s *Session) stale(t Token) bool { return t.epoch != s.epoch }

func (s *Session) guardMutation() error {
	if s.phase == PhaseGameOver {
		return ErrGameOver
	}
	if s.busy {
		return ErrBusy
	}
	return nil
}

func (s *Session) enterGameOver(state *api.GameOverState) {
	s.phase = PhaseGameOver
	s.busy = false
	s.gameOver = state
}

// BeginStartTurn moves idle -> starting. The caller must follow up with
// ApplyStartTurn or Fail using the returned token.
func (s *Session) BeginStartTurn() (Token, error) {
	if err := s.guardMutation(); err != nil {
		return Token{}, err
	}
	if s.phase != PhaseIdle {
		return Token{}, ErrWrongPhase
	}
	s.busy = true
	s.phase = PhaseStarting
	return s.token(), nil
}

// ApplyStartTurn reconciles a start-turn response. A game-over signal
// short-circuits every other state update.
func (s *Session) ApplyStartTurn(t Token, res api.StartTurnResult) bool {
	if s.stale(t) {
		return false
	}
	s.busy = false
	if res.GameOver.Active() {
		s.enterGameOver(res.GameOver)
		return true
	}
	s.currentEvent = res.Event
	s.briefing = res.Briefing
	s.phase = PhaseActive
	return true
}

// BeginEndTurn moves active -> ending.
func (s *Session) BeginEndTurn() (Token, error) {
	if err := s.guardMutation(); err != nil {
		return Token{}, err
	}
	if s.phase != PhaseActive {
		return Token{}, ErrWrongPhase
	}
	s.busy = true
	s.phase = PhaseEnding
	return s.token(), nil
}

// ApplyEndTurn reconciles an end-turn response: rogue events enter the alert
// queue, the briefing and current event are cleared, and the turn counter and
// threat level are adopted from the response. The returned ExpiryToken is
// valid only when scheduled is true.
func (s *Session) ApplyEndTurn(t Token, res api.EndTurnResult) (expiry ExpiryToken, scheduled, applied bool) {
	if s.stale(t) {
		return ExpiryToken{}, false, false
	}
	s.busy = false
	if res.GameOver.Active() {
		s.enterGameOver(res.GameOver)
		return ExpiryToken{}, false, true
	}
	expiry, scheduled = s.IngestAlerts(res.RogueEvents)
	s.currentEvent = nil
	s.briefing = ""
	if s.world != nil {
		s.world.Turn = res.NewTurn
		s.world.ThreatLevel = res.ThreatLevel
	}
	s.phase = PhaseIdle
	return expiry, scheduled, true
}

// BeginOrder validates and composes an order. An explicit target is addressed
// by codename prefix; otherwise the service auto-routes. The composed order
// text is returned for transmission. Empty text never reaches the network.
func (s *Session) BeginOrder(text, target string) (Token, string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Token{}, "", ErrEmptyOrder
	}
	if err := s.guardMutation(); err != nil {
		return Token{}, "", err
	}
	if s.phase != PhaseActive {
		return Token{}, "", ErrWrongPhase
	}
	composed := text
	if target != "" {
		composed = target + ": " + text
	}
	s.busy = true
	return s.token(), composed, nil
}

// ApplyOrder appends the returned transmission (if present) and replaces the
// briefing with the returned intel report (if present). Transmissions are
// appended in response-completion order.
func (s *Session) ApplyOrder(t Token, res api.OrderResult) bool {
	if s.stale(t) {
		return false
	}
	s.busy = false
	if res.GameOver.Active() {
		s.enterGameOver(res.GameOver)
		return true
	}
	if res.Transmission != nil {
		s.transmissions = append(s.transmissions, *res.Transmission)
	}
	if strings.TrimSpace(res.IntelReport) != "" {
		s.briefing = res.IntelReport
	}
	return true
}

// BeginEventResponse guards a respond-to-event directive.
func (s *Session) BeginEventResponse() (Token, error) {
	if err := s.guardMutation(); err != nil {
		return Token{}, err
	}
	if s.currentEvent == nil {
		return Token{}, ErrNoEvent
	}
	s.busy = true
	return s.token(), nil
}

// BeginExtraction guards an operative extraction order.
func (s *Session) BeginExtraction() (Token, error) {
	if err := s.guardMutation(); err != nil {
		return Token{}, err
	}
	s.busy = true
	return s.token(), nil
}

// ApplyAck completes an operation whose response carries no state to
// reconcile (respond-to-event, extraction).
func (s *Session) ApplyAck(t Token) bool {
	if s.stale(t) {
		return false
	}
	s.busy = false
	return true
}

// BeginNewGame resets all local state immediately and invalidates every
// in-flight operation, including any that is still pending. It is the only
// transition valid from every phase and the only one that clears the
// transmission log.
func (s *Session) BeginNewGame() Token {
	s.epoch++
	s.phase = PhaseIdle
	s.busy = true
	s.refreshGen = 0
	s.alertGen = 0
	s.world = nil
	s.operatives = nil
	s.transmissions = nil
	s.briefing = ""
	s.currentEvent = nil
	s.alerts = nil
	s.gameOver = nil
	return s.token()
}

func (s *Session) ApplyNewGame(t Token) bool {
	if s.stale(t) {
		return false
	}
	s.busy = false
	return true
}

// Fail releases the busy flag after a failed mutating call and rolls a
// transient phase back to its origin. Nothing from the failed response is
// applied.
func (s *Session) Fail(t Token) bool {
	if s.stale(t) {
		return false
	}
	s.busy = false
	switch s.phase {
	case PhaseStarting:
		s.phase = PhaseIdle
	case PhaseEnding:
		s.phase = PhaseActive
	}
	return true
}

// BeginRefresh issues a new snapshot-refresh generation. Refreshes do not
// take the busy flag: they are fire-and-forget relative to the mutation that
// triggered them.
func (s *Session) BeginRefresh() RefreshToken {
	s.refreshGen++
	return RefreshToken{epoch: s.epoch, gen: s.refreshGen}
}

// ApplyRefresh replaces the world state and operative roster together, never
// one without the other. Only the newest issued refresh in the current epoch
// may apply, so a slow stale fetch cannot overwrite fresher snapshots.
func (s *Session) ApplyRefresh(t RefreshToken, world api.WorldState, roster []api.Operative) bool {
	if t.epoch != s.epoch || t.gen != s.refreshGen {
		return false
	}
	s.world = &world
	s.operatives = roster
	return true
}
