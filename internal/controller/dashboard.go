package controller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/mindjournal/internal/common"
	"github.com/dmitrijs2005/mindjournal/internal/logging"
	"github.com/dmitrijs2005/mindjournal/internal/models"
	"github.com/dmitrijs2005/mindjournal/internal/services"
	"github.com/dmitrijs2005/mindjournal/internal/validation"
)

// ViewState is the screen a dashboard is showing.
type ViewState string

const (
	StateList   ViewState = "LIST"
	StateCreate ViewState = "CREATE"
	StateEdit   ViewState = "EDIT"
)

// Entries is the entry repository as seen by the dashboard.
type Entries interface {
	List(ctx context.Context, userID string) ([]models.JournalEntry, error)
	Save(ctx context.Context, entry models.JournalEntry, ownerUserID string) (*models.JournalEntry, error)
	Delete(ctx context.Context, userID, id string) error
}

// Reflector produces a reflection for a piece of text.
type Reflector interface {
	GenerateReflection(ctx context.Context, text string) (string, error)
}

// Draft is the entry being edited.
type Draft struct {
	ID         string   `json:"id"`
	Date       string   `json:"date" validate:"required,datetime=2006-01-02"`
	Title      string   `json:"title" validate:"notblank"`
	Content    string   `json:"content" validate:"notblank"`
	Tags       []string `json:"tags"`
	Reflection string   `json:"ai_reflection"`
}

// DraftFields are the user-editable parts of a draft.
type DraftFields struct {
	Date    string
	Title   string
	Content string
	Tags    []string
}

// View is a point-in-time copy of a dashboard for rendering.
type View struct {
	State         ViewState
	Entries       []models.JournalEntry
	Draft         Draft
	Notice        *Notice
	PendingDelete *models.JournalEntry
}

// Dashboard is the view-state machine of one client: LIST, CREATE, EDIT.
//
// Every action takes the busy guard with TryLock, so a client runs at most
// one chain at a time; a concurrent action gets common.ErrBusy and changes
// nothing. mu protects the fields and is never held across I/O, which keeps
// Snapshot available while a chain is in flight.
type Dashboard struct {
	userID    string
	entries   Entries
	reflector Reflector
	validator *validation.Validator
	log       logging.Logger
	now       func() time.Time

	busy sync.Mutex

	mu            sync.Mutex
	state         ViewState
	list          []models.JournalEntry
	draft         Draft
	notice        *Notice
	pendingDelete string
}

func NewDashboard(userID string, entries Entries, reflector Reflector, log logging.Logger) *Dashboard {
	return &Dashboard{
		userID:    userID,
		entries:   entries,
		reflector: reflector,
		validator: validation.New(),
		log:       log.With("module", "dashboard", "user_id", userID),
		now:       time.Now,
		state:     StateList,
		list:      []models.JournalEntry{},
	}
}

// UserID returns the owner of the dashboard.
func (d *Dashboard) UserID() string {
	return d.userID
}

// Snapshot copies the current state.
func (d *Dashboard) Snapshot() View {
	d.mu.Lock()
	defer d.mu.Unlock()

	v := View{
		State:   d.state,
		Entries: append([]models.JournalEntry(nil), d.list...),
		Draft:   d.draft,
	}
	v.Draft.Tags = append([]string(nil), d.draft.Tags...)
	if d.notice != nil {
		n := *d.notice
		v.Notice = &n
	}
	if d.pendingDelete != "" {
		if e, ok := d.findLocked(d.pendingDelete); ok {
			v.PendingDelete = &e
		}
	}
	return v
}

// State returns the current view-state.
func (d *Dashboard) State() ViewState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Notify replaces the inline message. Front-ends use it for failures of
// actions that live outside the dashboard, such as archive uploads.
func (d *Dashboard) Notify(kind NoticeKind, msg string) {
	d.setNotice(kind, msg)
}

// DismissNotice clears the inline message.
func (d *Dashboard) DismissNotice() {
	d.mu.Lock()
	d.notice = nil
	d.mu.Unlock()
}

// Load re-enters LIST and re-fetches the user's entries.
func (d *Dashboard) Load(ctx context.Context) error {
	if !d.busy.TryLock() {
		return common.ErrBusy
	}
	defer d.busy.Unlock()

	d.mu.Lock()
	d.state = StateList
	d.draft = Draft{}
	d.pendingDelete = ""
	d.mu.Unlock()

	return d.refresh(ctx)
}

// Refresh re-fetches the entries while the list is showing. An open draft
// is left alone, and a pending delete whose entry has gone is cleared.
func (d *Dashboard) Refresh(ctx context.Context) error {
	if !d.busy.TryLock() {
		return common.ErrBusy
	}
	defer d.busy.Unlock()

	d.mu.Lock()
	listing := d.state == StateList
	d.mu.Unlock()
	if !listing {
		return nil
	}

	if err := d.refresh(ctx); err != nil {
		return err
	}

	d.mu.Lock()
	if d.pendingDelete != "" {
		if _, ok := d.findLocked(d.pendingDelete); !ok {
			d.pendingDelete = ""
		}
	}
	d.mu.Unlock()
	return nil
}

// NewEntry opens an empty draft dated today.
func (d *Dashboard) NewEntry() error {
	if !d.busy.TryLock() {
		return common.ErrBusy
	}
	defer d.busy.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateList {
		return ErrInvalidTransition
	}
	d.state = StateCreate
	d.draft = Draft{Date: d.now().Format(common.DateLayout), Tags: []string{}}
	d.pendingDelete = ""
	d.notice = nil
	return nil
}

// Edit opens the editor on a copy of entry id.
func (d *Dashboard) Edit(id string) error {
	if !d.busy.TryLock() {
		return common.ErrBusy
	}
	defer d.busy.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateList {
		return ErrInvalidTransition
	}
	e, ok := d.findLocked(id)
	if !ok {
		d.notice = &Notice{Kind: NoticeError, Message: msgEntryNotFound}
		return common.ErrorNotFound
	}

	d.state = StateEdit
	d.draft = Draft{
		ID:         e.ID,
		Date:       e.Date,
		Title:      e.Title,
		Content:    e.Content,
		Tags:       append([]string{}, e.Tags...),
		Reflection: e.Reflection,
	}
	d.pendingDelete = ""
	d.notice = nil
	return nil
}

// SetDraft replaces the editable fields of the draft.
func (d *Dashboard) SetDraft(f DraftFields) error {
	if !d.busy.TryLock() {
		return common.ErrBusy
	}
	defer d.busy.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.editingLocked() {
		return ErrInvalidTransition
	}
	d.draft.Date = strings.TrimSpace(f.Date)
	d.draft.Title = f.Title
	d.draft.Content = f.Content
	d.draft.Tags = services.NormalizeTags(f.Tags)
	return nil
}

// Save validates and persists the draft. On success the list is
// re-fetched and the dashboard returns to LIST; otherwise it stays in the
// editor with a notice.
func (d *Dashboard) Save(ctx context.Context) error {
	if !d.busy.TryLock() {
		return common.ErrBusy
	}
	defer d.busy.Unlock()

	d.mu.Lock()
	if !d.editingLocked() {
		d.mu.Unlock()
		return ErrInvalidTransition
	}
	draft := d.draft
	draft.Tags = append([]string(nil), d.draft.Tags...)

	if err := d.validator.Validate(draft); err != nil {
		d.notice = &Notice{Kind: NoticeError, Message: draftMessage(err)}
		d.mu.Unlock()
		return err
	}
	d.mu.Unlock()

	_, err := d.entries.Save(ctx, models.JournalEntry{
		ID:         draft.ID,
		Title:      strings.TrimSpace(draft.Title),
		Content:    draft.Content,
		Date:       draft.Date,
		Tags:       draft.Tags,
		Reflection: draft.Reflection,
	}, d.userID)
	if err != nil {
		d.log.Error(ctx, "save failed", "entry_id", draft.ID, "error", err)
		d.setNotice(NoticeError, msgSaveFailed)
		return err
	}

	d.mu.Lock()
	d.state = StateList
	d.draft = Draft{}
	d.notice = &Notice{Kind: NoticeInfo, Message: msgSaved}
	d.mu.Unlock()

	return d.refresh(ctx)
}

// Cancel discards the draft and returns to LIST.
func (d *Dashboard) Cancel() error {
	if !d.busy.TryLock() {
		return common.ErrBusy
	}
	defer d.busy.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.editingLocked() {
		return ErrInvalidTransition
	}
	d.state = StateList
	d.draft = Draft{}
	d.notice = nil
	return nil
}

// GenerateReflection asks the reflector about the draft's content and
// stores the answer in the draft. Blank content never reaches the
// reflector.
func (d *Dashboard) GenerateReflection(ctx context.Context) error {
	if !d.busy.TryLock() {
		return common.ErrBusy
	}
	defer d.busy.Unlock()

	d.mu.Lock()
	if !d.editingLocked() {
		d.mu.Unlock()
		return ErrInvalidTransition
	}
	content := d.draft.Content
	if strings.TrimSpace(content) == "" {
		d.notice = &Notice{Kind: NoticeReflection, Message: msgReflectEmpty}
		d.mu.Unlock()
		return common.ErrValidation
	}
	d.mu.Unlock()

	text, err := d.reflector.GenerateReflection(ctx, content)
	if err != nil {
		d.log.Warn(ctx, "reflection failed", "error", err)
		d.setNotice(NoticeReflection, msgReflectFailed)
		return err
	}

	d.mu.Lock()
	d.draft.Reflection = text
	d.notice = &Notice{Kind: NoticeInfo, Message: msgReflectionAdded}
	d.mu.Unlock()
	return nil
}

// RequestDelete asks for confirmation before deleting entry id.
func (d *Dashboard) RequestDelete(id string) error {
	if !d.busy.TryLock() {
		return common.ErrBusy
	}
	defer d.busy.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateList {
		return ErrInvalidTransition
	}
	if _, ok := d.findLocked(id); !ok {
		d.notice = &Notice{Kind: NoticeError, Message: msgEntryNotFound}
		return common.ErrorNotFound
	}
	d.pendingDelete = id
	d.notice = nil
	return nil
}

// CancelDelete drops the pending confirmation.
func (d *Dashboard) CancelDelete() error {
	if !d.busy.TryLock() {
		return common.ErrBusy
	}
	defer d.busy.Unlock()

	d.mu.Lock()
	d.pendingDelete = ""
	d.mu.Unlock()
	return nil
}

// ConfirmDelete deletes the pending entry and re-fetches the list.
func (d *Dashboard) ConfirmDelete(ctx context.Context) error {
	if !d.busy.TryLock() {
		return common.ErrBusy
	}
	defer d.busy.Unlock()

	d.mu.Lock()
	id := d.pendingDelete
	d.pendingDelete = ""
	d.mu.Unlock()

	if id == "" {
		return ErrInvalidTransition
	}

	if err := d.entries.Delete(ctx, d.userID, id); err != nil {
		d.log.Error(ctx, "delete failed", "entry_id", id, "error", err)
		d.setNotice(NoticeError, msgDeleteFailed)
		return err
	}

	d.setNotice(NoticeInfo, msgDeleted)
	return d.refresh(ctx)
}

// refresh reloads the list. Callers hold the busy guard.
func (d *Dashboard) refresh(ctx context.Context) error {
	list, err := d.entries.List(ctx, d.userID)
	if err != nil {
		d.log.Error(ctx, "list failed", "error", err)
		d.setNotice(NoticeError, msgLoadFailed)
		return err
	}

	d.mu.Lock()
	d.list = list
	d.mu.Unlock()
	return nil
}

func (d *Dashboard) setNotice(kind NoticeKind, msg string) {
	d.mu.Lock()
	d.notice = &Notice{Kind: kind, Message: msg}
	d.mu.Unlock()
}

func (d *Dashboard) editingLocked() bool {
	return d.state == StateCreate || d.state == StateEdit
}

func (d *Dashboard) findLocked(id string) (models.JournalEntry, bool) {
	for _, e := range d.list {
		if e.ID == id {
			return e, true
		}
	}
	return models.JournalEntry{}, false
}

func draftMessage(err error) string {
	var verr *validation.Error
	if errors.As(err, &verr) && verr.Has("date") && !verr.Has("title") && !verr.Has("content") {
		return "Please pick a valid date."
	}
	return msgMissingFields
}
