package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/biafin/bia/internal/composer"
	"github.com/biafin/bia/internal/extract"
	"github.com/biafin/bia/internal/history"
	"github.com/biafin/bia/internal/llm"
	"github.com/biafin/bia/internal/profile"
	"github.com/biafin/bia/internal/validate"
)

// fallbackReply is returned when the generation backend is unavailable.
const fallbackReply = "Desculpe, tive dificuldade em processar sua mensagem. Pode reformular de outra forma?"

// Recorder persists an audit entry for each processed turn. A nil Recorder
// disables auditing.
type Recorder interface {
	RecordInteraction(ctx context.Context, userMessage, reply string, fields profile.FieldSet) error
}

// Agent processes conversation turns: extraction, validation, the
// confirmation gate, profile merging and reply generation. One Agent
// serves one conversation; the only mutable state it holds is the pending
// confirmation.
type Agent struct {
	profiles  *profile.Manager
	extractor *extract.Extractor
	validator *validate.Validator
	composer  *composer.Composer
	compactor *history.Compactor
	gen       llm.Generator
	recorder  Recorder
	logger    *slog.Logger

	mu      sync.Mutex
	pending *profile.FieldSet
}

// Options carries the optional collaborators for New.
type Options struct {
	Recorder  Recorder
	Compactor *history.Compactor
	Limits    validate.Limits
	Logger    *slog.Logger
}

// New creates an Agent over the given profile manager and generator.
func New(profiles *profile.Manager, gen llm.Generator, opts Options) *Agent {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limits := opts.Limits
	if limits == (validate.Limits{}) {
		limits = validate.DefaultLimits()
	}
	compactor := opts.Compactor
	if compactor == nil {
		compactor = history.NewCompactor(gen, 0, 0, logger)
	}
	return &Agent{
		profiles:  profiles,
		extractor: extract.NewExtractor(),
		validator: validate.New(limits),
		composer:  composer.New(),
		compactor: compactor,
		gen:       gen,
		recorder:  opts.Recorder,
		logger:    logger,
	}
}

// AwaitingConfirmation reports whether a staged field set is waiting for
// user assent.
func (a *Agent) AwaitingConfirmation() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending != nil
}

// ProcessTurn handles one user message and returns the reply together with
// the current persisted profile. Store failures are fatal for the turn;
// every other failure degrades to a user-facing message.
func (a *Agent) ProcessTurn(ctx context.Context, message string, hist []llm.Message) (string, profile.Profile, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var reply string
	var prof profile.Profile
	var err error

	if a.pending != nil {
		reply, prof, err = a.resolvePending(ctx, message)
	} else {
		reply, prof, err = a.openTurn(ctx, message, hist)
	}
	if err != nil {
		return "", profile.Profile{}, err
	}

	a.record(ctx, message, reply)
	return reply, prof, nil
}

// resolvePending handles a turn while a confirmation is pending.
func (a *Agent) resolvePending(ctx context.Context, message string) (string, profile.Profile, error) {
	prof, err := a.profiles.Get()
	if err != nil {
		return "", profile.Profile{}, fmt.Errorf("loading profile: %w", err)
	}

	switch InterpretAssent(message) {
	case AssentDeny:
		a.pending = nil
		return "Tudo bem, não salvei essas informações. Como posso ajudar?", prof, nil

	case AssentAffirm:
		staged := *a.pending
		a.pending = nil

		merged := profile.Merge(prof, staged)
		if err := a.validator.CheckConsistency(merged); err != nil {
			rej, _ := validate.AsRejection(err)
			a.logger.Info("confirmation rolled back", "field", rej.Field, "reason", rej.Reason)
			return rej.Reason + " As informações não foram salvas.", prof, nil
		}

		if err := a.profiles.Put(merged); err != nil {
			return "", profile.Profile{}, fmt.Errorf("saving profile: %w", err)
		}
		a.logger.Info("profile updated", "fields", describeFields(staged))
		return "Perfeito, informações salvas no seu perfil! " + missingInfoPrompt(merged), merged, nil

	default:
		return "Não entendi. Você confirma as informações acima? Responda sim ou não.", prof, nil
	}
}

// openTurn handles a turn with no pending confirmation: extract, validate,
// and either stage the fields or answer conversationally.
func (a *Agent) openTurn(ctx context.Context, message string, hist []llm.Message) (string, profile.Profile, error) {
	prof, err := a.profiles.Get()
	if err != nil {
		return "", profile.Profile{}, fmt.Errorf("loading profile: %w", err)
	}

	fields := a.extractor.Detect(message)

	if err := a.validator.Check(fields, message); err != nil {
		rej, ok := validate.AsRejection(err)
		if !ok {
			return "", profile.Profile{}, fmt.Errorf("validating fields: %w", err)
		}
		a.logger.Info("message rejected", "field", rej.Field)
		return rej.Reason, prof, nil
	}

	if !fields.Empty() {
		a.pending = &fields
		return StagedSummary(fields), prof, nil
	}

	reply := a.generateReply(ctx, message, hist, prof)
	return reply, prof, nil
}

// StageFields stages an externally supplied, already validated field set
// for confirmation, replacing any previously pending set. It returns the
// itemized summary shown to the user.
func (a *Agent) StageFields(fields profile.FieldSet) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = &fields
	return StagedSummary(fields)
}

// generateReply answers a purely conversational turn using only confirmed
// facts. Generation failures degrade to the fixed fallback reply.
func (a *Agent) generateReply(ctx context.Context, message string, hist []llm.Message, prof profile.Profile) string {
	compacted := a.compactor.Compact(ctx, hist)
	messages := a.composer.Compose(message, compacted, profile.Facts(prof))

	reply, err := a.gen.Generate(ctx, messages)
	if err != nil {
		if llm.IsUnavailable(err) {
			a.logger.Warn("generation unavailable", "error", err)
			return fallbackReply
		}
		a.logger.Warn("generation failed", "error", err)
		return fallbackReply
	}
	return reply
}

func (a *Agent) record(ctx context.Context, message, reply string) {
	if a.recorder == nil {
		return
	}
	var fields profile.FieldSet
	if a.pending != nil {
		fields = *a.pending
	}
	if err := a.recorder.RecordInteraction(ctx, message, reply, fields); err != nil {
		a.logger.Warn("recording interaction failed", "error", err)
	}
}
