package formclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"
)

// State is the submission lifecycle state.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateSuccess
	StateError
)

// MessageKind distinguishes feedback message styling.
type MessageKind int

const (
	MessageSuccess MessageKind = iota
	MessageError
)

// User-facing messages, matching the marketing site copy.
const (
	MsgMissingFullName      = "Please enter your full name"
	MsgMissingContactNumber = "Please enter your contact number"
	MsgSubmitting           = "Submitting..."
	MsgNetworkError         = "Network error. Please try again."
	MsgGenericError         = "Something went wrong"
)

// ErrSubmissionInFlight is returned by Submit when a submission is already
// in progress for this controller. The attempt is ignored.
var ErrSubmissionInFlight = errors.New("submission already in flight")

// Surface is the rendered form the controller drives. Implementations wrap
// whatever UI hosts the form; the controller never touches markup directly.
//
// ClearInputs resets every non-submit control: text controls to empty,
// select controls to their first option.
type Surface interface {
	Controls() []Control
	SubmitLabel() string
	SetSubmitLabel(label string)
	SetSubmitEnabled(enabled bool)
	ShowMessage(kind MessageKind, text string)
	FadeMessage(d time.Duration)
	RemoveMessage()
	ClearInputs()
}

// Options tunes controller behavior. Zero values select the defaults
// (5s success display, 0.3s fade, 4s error display, http.DefaultClient).
type Options struct {
	SuccessVisible time.Duration
	SuccessFade    time.Duration
	ErrorVisible   time.Duration
	HTTPClient     *http.Client
}

func (o Options) withDefaults() Options {
	if o.SuccessVisible == 0 {
		o.SuccessVisible = 5 * time.Second
	}
	if o.SuccessFade == 0 {
		o.SuccessFade = 300 * time.Millisecond
	}
	if o.ErrorVisible == 0 {
		o.ErrorVisible = 4 * time.Second
	}
	if o.HTTPClient == nil {
		// No timeout: once issued, the submission request is not cancelled
		o.HTTPClient = http.DefaultClient
	}
	return o
}

// submitResponse is the wire shape of the submit-form API response.
type submitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Controller owns the submit lifecycle state machine:
// Idle -> Validating -> Submitting -> {Success, Error} -> Idle.
// At most one submission is in flight per controller; re-entrant Submit
// calls are rejected by an explicit flag rather than relying on the
// disabled submit control, which a programmatic caller could bypass.
type Controller struct {
	surface  Surface
	endpoint string
	opts     Options

	mu       sync.Mutex
	state    State
	inFlight bool
	timers   []*time.Timer
	msgGen   int
}

// NewController creates a controller for one form instance posting to the
// given submit-form endpoint URL.
func NewController(surface Surface, endpoint string, opts Options) *Controller {
	return &Controller{
		surface:  surface,
		endpoint: endpoint,
		opts:     opts.withDefaults(),
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit runs one submission attempt end to end: presubmit validation,
// the network call, UI feedback, and cleanup. All outcomes are surfaced
// through the Surface; the only error returned is ErrSubmissionInFlight.
//
// The submit control is restored (re-enabled, original label) on every
// path, including transport errors and malformed response bodies.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrSubmissionInFlight
	}
	c.inFlight = true
	c.state = StateValidating
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	payload := Normalize(c.surface.Controls())

	// Presubmit gate: no network call is made when a required field is
	// missing. Full name is checked first.
	if strings.TrimSpace(payload.FullName) == "" {
		c.fail(MsgMissingFullName)
		return nil
	}
	if strings.TrimSpace(payload.ContactNumber) == "" {
		c.fail(MsgMissingContactNumber)
		return nil
	}

	c.setState(StateSubmitting)
	originalLabel := c.surface.SubmitLabel()
	c.surface.SetSubmitEnabled(false)
	c.surface.SetSubmitLabel(MsgSubmitting)

	// Cleanup runs unconditionally, whatever branch the attempt takes
	defer func() {
		c.surface.SetSubmitEnabled(true)
		c.surface.SetSubmitLabel(originalLabel)
	}()

	resp, err := c.post(ctx, payload)
	if err != nil {
		c.fail(MsgNetworkError)
		return nil
	}

	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = MsgGenericError
		}
		c.fail(msg)
		return nil
	}

	c.surface.ClearInputs()
	c.succeed(resp.Message)
	return nil
}

// post issues the submission request. Any transport failure, non-JSON body,
// or unreadable response is reported as a single error; an HTTP error status
// with a parseable body is returned as a non-success response so the
// server's message can be displayed.
func (c *Controller) post(ctx context.Context, payload Payload) (*submitResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	var resp submitResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// succeed shows the confirmation message: visible for SuccessVisible, then
// faded over SuccessFade, then removed.
func (c *Controller) succeed(message string) {
	c.setState(StateSuccess)
	c.showMessage(MessageSuccess, message)

	c.schedule(c.opts.SuccessVisible, func() {
		c.surface.FadeMessage(c.opts.SuccessFade)
		c.schedule(c.opts.SuccessFade, func() {
			c.surface.RemoveMessage()
			c.setState(StateIdle)
		})
	})
}

// fail shows an error message: visible for ErrorVisible, then removed
// immediately (no fade).
func (c *Controller) fail(message string) {
	c.setState(StateError)
	c.showMessage(MessageError, message)

	c.schedule(c.opts.ErrorVisible, func() {
		c.surface.RemoveMessage()
		c.setState(StateIdle)
	})
}

// showMessage displays a feedback message, removing any prior one first so
// only one message is ever visible. Bumping the generation invalidates any
// removal timers still pending for the prior message.
func (c *Controller) showMessage(kind MessageKind, text string) {
	c.mu.Lock()
	c.msgGen++
	for _, t := range c.timers {
		t.Stop()
	}
	c.timers = nil
	c.mu.Unlock()

	c.surface.RemoveMessage()
	c.surface.ShowMessage(kind, text)
}

// schedule runs fn after d unless a newer message has replaced the one the
// timer belongs to.
func (c *Controller) schedule(d time.Duration, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.msgGen
	c.timers = append(c.timers, time.AfterFunc(d, func() {
		c.mu.Lock()
		stale := gen != c.msgGen
		c.mu.Unlock()
		if stale {
			return
		}
		fn()
	}))
}
