// Package personform runs the person create/edit pipeline: field edits,
// schema validation, the CPF check and the submit call.
package personform

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prefeitura-rio/app-pessoas/internal/logging"
	"github.com/prefeitura-rio/app-pessoas/internal/models"
	"github.com/prefeitura-rio/app-pessoas/internal/observability"
	"github.com/prefeitura-rio/app-pessoas/internal/utils"
	"go.uber.org/zap"
)

var (
	// ErrValidation is returned when the draft has field errors; nothing was submitted
	ErrValidation = errors.New("person form has invalid fields")
	// ErrSubmitting is returned when a submit is already running
	ErrSubmitting = errors.New("person form is already submitting")
)

// Mode selects between creating a person and editing an existing one
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// SubmitFunc persists a validated, cleaned person
type SubmitFunc func(ctx context.Context, p models.Person) (*models.Person, error)

// UniqueFunc reports whether cpf is free for the person excludeID
type UniqueFunc func(cpf, excludeID string) bool

// Options configures a Form
type Options struct {
	Mode   Mode
	Now    func() time.Time
	MinAge int
	// Unique, when set, rejects CPFs already held by somebody else
	Unique UniqueFunc
	Logger *logging.SafeLogger
}

// Result is the outcome of a submit
type Result struct {
	Person       *models.Person
	Errors       map[string]string
	Notification *models.Notification
	Err          error
}

// Form holds a person draft and its field errors
type Form struct {
	opts    Options
	schema  *Schema
	initial models.Person
	logger  *logging.SafeLogger

	mu         sync.Mutex
	draft      models.Person
	errors     map[string]string
	submitting bool
}

// New creates a form over draft. The draft CPF is shown formatted.
func New(draft models.Person, opts Options) *Form {
	if opts.Mode == "" {
		opts.Mode = ModeCreate
		if draft.ID != "" {
			opts.Mode = ModeEdit
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Logger
	}

	draft.CPF = utils.FormatCPF(draft.CPF)
	initial := draft
	if opts.Mode == ModeCreate {
		initial = models.Person{}
	}

	return &Form{
		opts:    opts,
		schema:  NewSchema(opts.Now, opts.MinAge),
		initial: initial,
		logger:  logger.Named("personform"),
		draft:   draft,
		errors:  map[string]string{},
	}
}

// Mode returns whether the form creates or edits
func (f *Form) Mode() Mode {
	return f.opts.Mode
}

// SetField updates one field of the draft and clears its error.
// The CPF is reformatted progressively as digits arrive.
func (f *Form) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch name {
	case FieldNome:
		f.draft.Nome = value
	case FieldCPF:
		f.draft.CPF = utils.FormatCPF(value)
	case FieldEmail:
		f.draft.Email = value
	case FieldDataNascimento:
		f.draft.DataNascimento = value
	case FieldSexo:
		f.draft.Sexo = value
	case FieldNaturalidade:
		f.draft.Naturalidade = value
	case FieldNacionalidade:
		f.draft.Nacionalidade = value
	default:
		return fmt.Errorf("unknown person field %q", name)
	}
	delete(f.errors, name)
	return nil
}

// Draft returns the current draft
func (f *Form) Draft() models.Person {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Errors returns a copy of the current field errors
func (f *Form) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyErrors(f.errors)
}

// Validate checks the draft without submitting it and records the errors
func (f *Form) Validate(ctx context.Context) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, errs := f.check(ctx)
	f.errors = errs
	return copyErrors(errs)
}

// check runs the schema first; the CPF checks only run on a schema-valid draft
func (f *Form) check(ctx context.Context) (models.Person, map[string]string) {
	_, span := utils.TraceInputValidation(ctx, "person", "all")
	defer span.End()

	p := f.draft.Normalized()
	errs := f.schema.Check(p)
	if len(errs) > 0 {
		return p, errs
	}
	if !utils.ValidateCPF(p.CPF) {
		errs[FieldCPF] = MsgCPFInvalid
		return p, errs
	}
	if f.opts.Unique != nil && !f.opts.Unique(p.CPF, p.ID) {
		errs[FieldCPF] = MsgCPFAlreadyInUse
	}
	return p, errs
}

// Submit validates the draft and, when it is clean, hands it to submit.
// On failure the draft is kept and an error notification is returned.
// On success a create form is reset, an edit form takes the saved values.
func (f *Form) Submit(ctx context.Context, submit SubmitFunc) Result {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return Result{Err: ErrSubmitting}
	}
	person, errs := f.check(ctx)
	f.errors = errs
	if len(errs) > 0 {
		f.mu.Unlock()
		observability.FormSubmissions.WithLabelValues(string(f.opts.Mode), "invalid").Inc()
		f.logger.Debug("person form rejected", zap.Any("fields", keys(errs)))
		return Result{Errors: copyErrors(errs), Err: ErrValidation}
	}
	f.submitting = true
	f.mu.Unlock()

	ctx, span := utils.TraceStep(ctx, "submit_person", map[string]interface{}{
		"form.mode": string(f.opts.Mode),
	})
	saved, err := submit(ctx, person)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
	}
	span.End()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false

	if err != nil {
		observability.FormSubmissions.WithLabelValues(string(f.opts.Mode), "failed").Inc()
		f.logger.Warn("person submit failed",
			zap.String("mode", string(f.opts.Mode)),
			zap.String("cpf", observability.MaskCPF(person.CPF)),
			zap.Error(err))
		return Result{
			Errors:       map[string]string{},
			Notification: models.ErrorNotification(models.UserMessageFor(err)),
			Err:          err,
		}
	}

	if saved == nil {
		saved = &person
	}
	message := models.MsgPersonUpdated
	if f.opts.Mode == ModeCreate {
		message = models.MsgPersonCreated
		f.draft = f.initial
	} else {
		f.draft = *saved
		f.draft.CPF = utils.FormatCPF(saved.CPF)
	}
	f.errors = map[string]string{}

	observability.FormSubmissions.WithLabelValues(string(f.opts.Mode), "success").Inc()
	return Result{
		Person:       saved,
		Errors:       map[string]string{},
		Notification: models.SuccessNotification(message),
	}
}

func copyErrors(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
