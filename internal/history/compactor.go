package history

import (
	"context"
	"log/slog"
	"strings"

	"github.com/biafin/bia/internal/composer"
	"github.com/biafin/bia/internal/llm"
)

const (
	defaultMaxMessages = 5
	defaultKeepLast    = 2
)

const summaryInstructions = `Você é um assistente que resume conversas.
Resuma a conversa abaixo de forma concisa, mantendo os pontos principais
e informações relevantes sobre o usuário. Responda apenas com o resumo.`

const summaryPrefix = "Resumo da conversa anterior:\n"

// Compactor squashes long conversation histories into a summary message
// plus the most recent turns. Histories at or under MaxMessages pass
// through untouched.
type Compactor struct {
	MaxMessages int
	KeepLast    int

	gen    llm.Generator
	logger *slog.Logger
}

// NewCompactor creates a Compactor backed by gen for summarization. A nil
// generator is allowed; compaction then always uses the transcript
// fallback. Non-positive or inconsistent bounds fall back to the defaults.
func NewCompactor(gen llm.Generator, maxMessages, keepLast int, logger *slog.Logger) *Compactor {
	if maxMessages <= 0 {
		maxMessages = defaultMaxMessages
	}
	if keepLast <= 0 {
		keepLast = defaultKeepLast
	}
	if keepLast >= maxMessages {
		maxMessages = defaultMaxMessages
		keepLast = defaultKeepLast
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Compactor{MaxMessages: maxMessages, KeepLast: keepLast, gen: gen, logger: logger}
}

// Compact returns the history unchanged when it fits within MaxMessages.
// Otherwise it replaces everything except the last KeepLast messages with
// a single summary message, so the result is always strictly shorter than
// the input. The kept suffix is preserved verbatim.
func (c *Compactor) Compact(ctx context.Context, history []llm.Message) []llm.Message {
	if len(history) <= c.MaxMessages {
		return history
	}

	cut := len(history) - c.KeepLast
	older := history[:cut]
	recent := history[cut:]

	summary := c.summarize(ctx, older)

	out := make([]llm.Message, 0, 1+len(recent))
	out = append(out, llm.Message{Role: llm.RoleSystem, Content: summaryPrefix + summary})
	out = append(out, recent...)
	return out
}

// summarize asks the generator for a summary of the older turns. When the
// generator is missing or unavailable the raw transcript stands in for the
// summary; compaction still shrinks the message count.
func (c *Compactor) summarize(ctx context.Context, older []llm.Message) string {
	transcript := composer.FormatTranscript(older)
	if c.gen == nil {
		return transcript
	}

	summary, err := c.gen.Generate(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: summaryInstructions},
		{Role: llm.RoleUser, Content: "Resuma esta conversa:\n\n" + transcript},
	})
	if err != nil {
		c.logger.Warn("history summarization failed, keeping transcript", "error", err)
		return transcript
	}
	if strings.TrimSpace(summary) == "" {
		return transcript
	}
	return summary
}
