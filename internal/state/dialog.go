package state

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/campus-console/pkg/errors"
)

// Phase is the dialog state.
type Phase string

const (
	PhaseClosed     Phase = "closed"
	PhaseOpen       Phase = "open"
	PhaseSubmitting Phase = "submitting"
)

// Mode tells whether the dialog creates a new record or edits an existing one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// SubmitObserver counts dialog submissions.
type SubmitObserver interface {
	RecordDialogSubmit(dialog string, success bool)
}

// DialogConfig wires a dialog to its mutation and owner.
type DialogConfig[D any] struct {
	Name string
	// Submit performs the mutation. key is the immutable identifier in edit mode.
	Submit func(ctx context.Context, mode Mode, key string, draft D) error
	// OnSuccess runs after a successful submit, typically the owner's refresh.
	OnSuccess func(ctx context.Context, mode Mode, key string, draft D)
	// Pin restores immutable fields after a draft update in edit mode.
	Pin       func(draft *D, key string)
	// Check runs after the required-field validation. A failure is kept in the
	// dialog's error slot and nothing is sent.
	Check     func(draft D) error
	Validator *validator.Validate
	Observer  SubmitObserver
	Logger    *zap.Logger
}

// Dialog is the form state machine: closed -> open(draft) -> submitting -> closed | open(error).
type Dialog[D any] struct {
	cfg DialogConfig[D]

	mu    sync.Mutex
	phase Phase
	mode  Mode
	key   string
	draft D
	err   string
}

// NewDialog constructs a closed dialog.
func NewDialog[D any](cfg DialogConfig[D]) *Dialog[D] {
	if cfg.Validator == nil {
		cfg.Validator = NewValidator()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Dialog[D]{cfg: cfg, phase: PhaseClosed}
}

// OpenCreate opens the dialog with an initial draft and clears any previous error.
func (d *Dialog[D]) OpenCreate(initial D) error {
	return d.open(ModeCreate, "", initial)
}

// OpenEdit opens the dialog seeded from an existing entity.
func (d *Dialog[D]) OpenEdit(key string, draft D) error {
	return d.open(ModeEdit, key, draft)
}

func (d *Dialog[D]) open(mode Mode, key string, draft D) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.phase == PhaseSubmitting {
		return appErrors.ErrSubmitInFlight
	}
	if mode == ModeEdit && d.cfg.Pin != nil {
		d.cfg.Pin(&draft, key)
	}
	d.phase = PhaseOpen
	d.mode = mode
	d.key = key
	d.draft = draft
	d.err = ""
	return nil
}

// Update mutates the draft locally. No network activity happens until Submit.
func (d *Dialog[D]) Update(fn func(draft *D)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.editableLocked(); err != nil {
		return err
	}
	fn(&d.draft)
	if d.mode == ModeEdit && d.cfg.Pin != nil {
		d.cfg.Pin(&d.draft, d.key)
	}
	return nil
}

// Patch merges a JSON object into the draft. Fields absent from the patch are kept.
func (d *Dialog[D]) Patch(raw []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.editableLocked(); err != nil {
		return err
	}
	next := d.draft
	if err := json.Unmarshal(raw, &next); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid draft payload")
	}
	if d.mode == ModeEdit && d.cfg.Pin != nil {
		d.cfg.Pin(&next, d.key)
	}
	d.draft = next
	return nil
}

func (d *Dialog[D]) editableLocked() error {
	switch d.phase {
	case PhaseClosed:
		return appErrors.ErrDialogClosed
	case PhaseSubmitting:
		return appErrors.ErrSubmitInFlight
	}
	return nil
}

// Submit validates required fields, runs the mutation and, on success, closes the dialog
// before invoking OnSuccess. On failure the dialog reopens with the error and the draft intact.
func (d *Dialog[D]) Submit(ctx context.Context) error {
	d.mu.Lock()
	if err := d.editableLocked(); err != nil {
		d.mu.Unlock()
		return err
	}
	if err := checkRequired(d.cfg.Validator, d.draft); err != nil {
		d.err = appErrors.DisplayMessage(err)
		d.mu.Unlock()
		return err
	}
	if d.cfg.Check != nil {
		if err := d.cfg.Check(d.draft); err != nil {
			d.err = appErrors.DisplayMessage(err)
			d.mu.Unlock()
			return err
		}
	}
	d.phase = PhaseSubmitting
	d.err = ""
	mode, key, draft := d.mode, d.key, d.draft
	d.mu.Unlock()

	err := d.cfg.Submit(ctx, mode, key, draft)
	if d.cfg.Observer != nil {
		d.cfg.Observer.RecordDialogSubmit(d.cfg.Name, err == nil)
	}

	d.mu.Lock()
	if err != nil {
		d.phase = PhaseOpen
		d.err = appErrors.DisplayMessage(err)
		d.mu.Unlock()
		d.cfg.Logger.Info("dialog submit failed", zap.String("dialog", d.cfg.Name), zap.Error(err))
		return err
	}
	var zero D
	d.phase = PhaseClosed
	d.draft = zero
	d.key = ""
	d.err = ""
	d.mu.Unlock()

	if d.cfg.OnSuccess != nil {
		d.cfg.OnSuccess(ctx, mode, key, draft)
	}
	return nil
}

// Cancel discards the draft and error. It is rejected while a submission is in flight.
func (d *Dialog[D]) Cancel() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.phase == PhaseSubmitting {
		return appErrors.ErrSubmitInFlight
	}
	var zero D
	d.phase = PhaseClosed
	d.draft = zero
	d.key = ""
	d.err = ""
	return nil
}

// Phase returns the current phase.
func (d *Dialog[D]) Phase() Phase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase
}

// Draft returns a copy of the current draft.
func (d *Dialog[D]) Draft() D {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draft
}

// Snapshot renders the dialog.
func (d *Dialog[D]) Snapshot() DialogState[D] {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := DialogState[D]{
		Name:      d.cfg.Name,
		Phase:     d.phase,
		Error:     d.err,
		CanSubmit: d.phase == PhaseOpen,
	}
	if d.phase != PhaseClosed {
		draft := d.draft
		st.Mode = d.mode
		st.Key = d.key
		st.Draft = &draft
	}
	return st
}

// DialogState is the rendered form of a Dialog.
type DialogState[D any] struct {
	Name      string `json:"name"`
	Phase     Phase  `json:"phase"`
	Mode      Mode   `json:"mode,omitempty"`
	Key       string `json:"key,omitempty"`
	Draft     *D     `json:"draft,omitempty"`
	Error     string `json:"error,omitempty"`
	CanSubmit bool   `json:"canSubmit"`
}
