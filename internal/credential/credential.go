// Package credential holds the single external-service credential and caches whether the
// AI service accepts it.
//
// The verdict is computed lazily by one live probe and kept until the credential changes.
// Concurrent first-time validations share a single in-flight probe.
package credential

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/BTreeMap/MoodPipe/internal/genai"
	"github.com/BTreeMap/MoodPipe/internal/metrics"
)

// State is the cached validity verdict.
type State int

const (
	// Unvalidated means no probe has completed for the current credential.
	Unvalidated State = iota
	// Valid means the last probe succeeded and a live client is held.
	Valid
	// Invalid means the last probe failed for any reason.
	Invalid
)

// String returns the lower-case name of the state.
func (s State) String() string {
	switch s {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unvalidated"
	}
}

// DefaultProbeTimeout bounds the live validation call.
const DefaultProbeTimeout = 15 * time.Second

// probePrompt is the minimal request sent to test the credential.
const probePrompt = "test"

// ClientFactory builds an AI client bound to apiKey.
type ClientFactory func(ctx context.Context, apiKey string) (genai.Generator, error)

// Option configures a Validator.
type Option func(*Validator)

// WithMetrics records probe results on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(v *Validator) {
		v.metrics = r
	}
}

// WithProbeTimeout overrides DefaultProbeTimeout.
func WithProbeTimeout(d time.Duration) Option {
	return func(v *Validator) {
		v.probeTimeout = d
	}
}

// Validator owns the credential, its cached State and the client bound to it.
type Validator struct {
	mu         sync.Mutex
	apiKey     string
	state      State
	client     genai.Generator
	generation uint64
	onInvalid  []func()

	factory      ClientFactory
	group        singleflight.Group
	metrics      *metrics.Recorder
	probeTimeout time.Duration
}

// NewValidator creates a Validator holding apiKey in the Unvalidated state.
func NewValidator(apiKey string, factory ClientFactory, opts ...Option) *Validator {
	v := &Validator{
		apiKey:       apiKey,
		factory:      factory,
		probeTimeout: DefaultProbeTimeout,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// OnInvalid registers fn to run every time a probe concludes the credential is Invalid.
func (v *Validator) OnInvalid(fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onInvalid = append(v.onInvalid, fn)
}

// State returns the cached state without probing.
func (v *Validator) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// SetCredential replaces the credential, resets the state to Unvalidated and drops the client
// bound to the previous value. A probe still in flight for the old value is ignored.
func (v *Validator) SetCredential(apiKey string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.apiKey = apiKey
	v.state = Unvalidated
	v.client = nil
	v.generation++
	slog.Info("Validator.SetCredential: credential replaced", "api_key_set", apiKey != "", "generation", v.generation)
}

// Update replaces the credential and revalidates it immediately.
func (v *Validator) Update(ctx context.Context, apiKey string) bool {
	v.SetCredential(apiKey)
	return v.IsValid(ctx)
}

// Validate returns the cached state, probing the service once if the state is Unvalidated.
func (v *Validator) Validate(ctx context.Context) State {
	v.mu.Lock()
	if v.state != Unvalidated {
		state := v.state
		v.mu.Unlock()
		return state
	}
	gen, key := v.generation, v.apiKey
	v.mu.Unlock()

	res, _, _ := v.group.Do(strconv.FormatUint(gen, 10), func() (interface{}, error) {
		return v.probe(ctx, gen, key), nil
	})
	return res.(State)
}

// IsValid reports whether the AI tier may be used, validating lazily.
func (v *Validator) IsValid(ctx context.Context) bool {
	return v.Validate(ctx) == Valid
}

// Client returns the live client when the credential is Valid, validating lazily.
func (v *Validator) Client(ctx context.Context) (genai.Generator, bool) {
	if v.Validate(ctx) != Valid {
		return nil, false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != Valid || v.client == nil {
		return nil, false
	}
	return v.client, true
}

// probe performs the live call for credential generation gen and stores the verdict.
func (v *Validator) probe(ctx context.Context, gen uint64, key string) State {
	client, ok := v.tryKey(ctx, key)
	v.metrics.Validation(ok)

	v.mu.Lock()
	if v.generation != gen {
		// Credential changed while probing; the verdict belongs to a value no longer held.
		state := v.state
		v.mu.Unlock()
		return state
	}
	if ok {
		v.state = Valid
		v.client = client
		v.mu.Unlock()
		slog.Info("Validator.probe: credential accepted")
		return Valid
	}
	v.state = Invalid
	v.client = nil
	observers := append([]func(){}, v.onInvalid...)
	v.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
	return Invalid
}

func (v *Validator) tryKey(ctx context.Context, key string) (genai.Generator, bool) {
	if key == "" {
		slog.Warn("Validator.probe: no API key configured")
		return nil, false
	}
	if v.factory == nil {
		slog.Error("Validator.probe: no client factory configured")
		return nil, false
	}

	// The probe result is shared by every waiter, so it must not die with the first caller.
	ctx = context.WithoutCancel(ctx)
	if v.probeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.probeTimeout)
		defer cancel()
	}

	client, err := v.factory(ctx, key)
	if err != nil {
		slog.Warn("Validator.probe: client construction failed", "error", err)
		return nil, false
	}
	if _, err := client.Generate(ctx, "", probePrompt); err != nil {
		slog.Warn("Validator.probe: API key validation failed", "error", err)
		return nil, false
	}
	return client, true
}
