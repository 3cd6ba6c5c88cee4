// Package offline implements the offline-mode switch that forces every cascade onto its
// non-networked tiers.
package offline

import (
	"log/slog"
	"sync"

	"github.com/BTreeMap/MoodPipe/internal/credential"
	"github.com/BTreeMap/MoodPipe/internal/locale"
	"github.com/BTreeMap/MoodPipe/internal/models"
)

// StateReader exposes the cached credential verdict without triggering validation.
type StateReader interface {
	State() credential.State
}

// Governor holds the shared offline flag.
type Governor struct {
	mu      sync.Mutex
	offline bool
	// pendingAuto is set when offline mode was switched on automatically and the caller has not
	// yet been told.
	pendingAuto bool
	creds       StateReader
}

// NewGovernor creates a Governor starting in the given mode.
func NewGovernor(startOffline bool, creds StateReader) *Governor {
	return &Governor{offline: startOffline, creds: creds}
}

// Watch subscribes the governor to v so offline mode turns on whenever v detects invalidity.
func (g *Governor) Watch(v *credential.Validator) {
	v.OnInvalid(g.AutoActivate)
}

// Offline reports the current mode.
func (g *Governor) Offline() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.offline
}

// AutoActivate switches offline mode on after the credential was found invalid and queues a
// one-time advisory.
func (g *Governor) AutoActivate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.offline {
		slog.Info("Governor.AutoActivate: credential invalid, switching to offline mode")
	}
	g.offline = true
	g.pendingAuto = true
}

// TakeAdvisory returns the queued auto-activation advisory at most once.
func (g *Governor) TakeAdvisory(l models.Language) *models.Advisory {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.pendingAuto {
		return nil
	}
	g.pendingAuto = false
	s := locale.For(l)
	return &models.Advisory{Title: s.OfflineModeActivated, Description: s.APIKeyIssuesDetected, Warning: true}
}

// Set applies an explicit user toggle and returns the advisory to show. Going online while the
// credential is known to be invalid is allowed but yields a warning.
func (g *Governor) Set(offline bool, l models.Language) models.Advisory {
	g.mu.Lock()
	g.offline = offline
	g.pendingAuto = false
	g.mu.Unlock()

	s := locale.For(l)
	if offline {
		slog.Info("Governor.Set: offline mode enabled by user")
		return models.Advisory{Title: s.OfflineModeActivated, Description: s.UsingLocalResponses}
	}
	if g.creds != nil && g.creds.State() == credential.Invalid {
		slog.Warn("Governor.Set: online mode enabled while credential is invalid")
		return models.Advisory{Title: s.APIKeyInvalid, Description: s.NoValidAPIKeyFound, Warning: true}
	}
	slog.Info("Governor.Set: online mode enabled by user")
	return models.Advisory{Title: s.OnlineModeActivated, Description: s.UsingAIPoweredResponses}
}
