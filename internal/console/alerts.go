package console

import "shadownet/internal/api"

// Alert queue. Alerts arrive in batches from end-turn responses; each batch
// arms one shared expiry timer. Arming a new timer supersedes the previous
// one rather than stacking, so a flurry of ingests keeps extending the window
// for every live non-critical alert. Critical alerts only leave via manual
// dismissal or a new game.

func (s *Session) Alerts() []api.Alert { return s.alerts }

// IngestAlerts appends a batch to the live set and arms a fresh expiry timer.
// scheduled is false for an empty batch, in which case no timer should run.
func (s *Session) IngestAlerts(alerts []api.Alert) (ExpiryToken, bool) {
	if len(alerts) == 0 {
		return ExpiryToken{}, false
	}
	s.alerts = append(s.alerts, alerts...)
	s.alertGen++
	return ExpiryToken{epoch: s.epoch, gen: s.alertGen}, true
}

// ExpireNonCritical removes every non-critical alert, but only when fired by
// the most recently armed timer in the current epoch.
func (s *Session) ExpireNonCritical(t ExpiryToken) bool {
	if t.epoch != s.epoch || t.gen != s.alertGen {
		return false
	}
	kept := s.alerts[:0]
	for _, alert := range s.alerts {
		if alert.Severity == api.SeverityCritical {
			kept = append(kept, alert)
		}
	}
	s.alerts = kept
	return true
}

// DismissAlert removes exactly one alert by its current position. This is the
// only way to clear a critical alert short of a new game.
func (s *Session) DismissAlert(index int) bool {
	if index < 0 || index >= len(s.alerts) {
		return false
	}
	s.alerts = append(s.alerts[:index], s.alerts[index+1:]...)
	return true
}
