package api

// Wire types for the game-logic service. Snapshots are replaced wholesale on
// refresh; nothing in here is merged field-by-field.

type Region struct {
	Name           string   `json:"name"`
	Tension        int      `json:"tension"`
	ActiveMissions []string `json:"active_missions"`
}

type WorldState struct {
	Turn                int               `json:"turn"`
	ThreatLevel         string            `json:"threat_level"`
	AgencyExposureLevel int               `json:"agency_exposure_level"`
	DirectorTrustScore  int               `json:"director_trust_score"`
	Regions             map[string]Region `json:"regions"`
	CompromisedAssets   []string          `json:"compromised_assets"`
}

const (
	ThreatLow      = "LOW"
	ThreatModerate = "MODERATE"
	ThreatHigh     = "HIGH"
	ThreatCritical = "CRITICAL"
)

type Operative struct {
	Codename      string `json:"codename"`
	Status        string `json:"status"`
	Location      string `json:"location"`
	SignalQuality int    `json:"signal_quality"`
	MissionCount  int    `json:"mission_count"`
}

const (
	OperativeActive      = "active"
	OperativeDark        = "dark"
	OperativeCompromised = "compromised"
	OperativeExtracted   = "extracted"
)

type Transmission struct {
	ID          string `json:"id"`
	Turn        int    `json:"turn"`
	Timestamp   string `json:"timestamp"`
	Codename    string `json:"codename"`
	Order       string `json:"order"`
	Response    string `json:"response"`
	MissionType string `json:"mission_type,omitempty"`
	RiskLevel   string `json:"risk_level,omitempty"`
}

type WorldEvent struct {
	Turn             int      `json:"turn"`
	EventTitle       string   `json:"event_title"`
	EventDescription string   `json:"event_description"`
	SuggestedActions []string `json:"suggested_actions"`
	AffectedRegion   string   `json:"affected_region,omitempty"`
	Timestamp        string   `json:"timestamp,omitempty"`
}

type Alert struct {
	Title     string `json:"title"`
	Narration string `json:"narration"`
	Severity  string `json:"severity"`
}

const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

type GameOverState struct {
	GameOver bool   `json:"game_over"`
	Type     string `json:"type"`
	Reason   string `json:"reason"`
}

// Active reports whether a mutating response signaled a terminal condition.
// The service sends null while the game is live.
func (g *GameOverState) Active() bool {
	return g != nil && g.GameOver
}

type StartTurnResult struct {
	Turn     int            `json:"turn"`
	Event    *WorldEvent    `json:"event"`
	Briefing string         `json:"briefing"`
	GameOver *GameOverState `json:"game_over"`
}

type OrderResult struct {
	Transmission *Transmission  `json:"transmission"`
	IntelReport  string         `json:"intel_report"`
	GameOver     *GameOverState `json:"game_over"`
}

type EndTurnResult struct {
	NewTurn     int            `json:"new_turn"`
	ThreatLevel string         `json:"threat_level"`
	RogueEvents []Alert        `json:"rogue_events"`
	GameOver    *GameOverState `json:"game_over"`
}

type BriefingResult struct {
	Briefing string `json:"briefing"`
}

type ResetResult struct {
	Message string `json:"message"`
	Turn    int    `json:"turn"`
}
