package orchestrator

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xaenox/helpdesk-bot/internal/analytics"
	"github.com/xaenox/helpdesk-bot/internal/knowledge"
	"github.com/xaenox/helpdesk-bot/internal/memory"
	"github.com/xaenox/helpdesk-bot/internal/models"
	"github.com/xaenox/helpdesk-bot/internal/session"
	"github.com/xaenox/helpdesk-bot/internal/tagging"
	"go.uber.org/zap"
)

// Completer produces a reply for the given system prompt and
// conversation window. Satisfied by *llm.Client.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, history []models.Turn) models.CompletionOutcome
}

// Reply is the outbound message handed back to the transport. HTML
// marks replies that should be rendered as rich markup.
type Reply struct {
	Text string
	HTML bool
}

// Orchestrator turns one inbound user message into one outbound reply:
// FAQ short-circuit, topic tagging, bounded conversation memory, the
// resilient completion call, counters and one analytics event per
// message. All per-user state is serialized through a per-user lock.
type Orchestrator struct {
	matcher      *knowledge.Matcher
	classifier   *tagging.Classifier
	memory       *memory.Store
	counters     *session.Counters
	completer    Completer
	sink         analytics.Sink
	logger       *zap.Logger
	systemPrompt string

	mu        sync.Mutex
	userLocks map[int64]*sync.Mutex
}

func New(
	matcher *knowledge.Matcher,
	classifier *tagging.Classifier,
	memory *memory.Store,
	counters *session.Counters,
	completer Completer,
	sink analytics.Sink,
	systemPrompt string,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		matcher:      matcher,
		classifier:   classifier,
		memory:       memory,
		counters:     counters,
		completer:    completer,
		sink:         sink,
		logger:       logger,
		systemPrompt: systemPrompt,
		userLocks:    make(map[int64]*sync.Mutex),
	}
}

// lockFor serializes message handling per user; unrelated users never
// contend on the same lock.
func (o *Orchestrator) lockFor(userID int64) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()

	lock, exists := o.userLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		o.userLocks[userID] = lock
	}
	return lock
}

// HandleMessage runs the per-message pipeline and returns the reply to
// deliver. It never returns an error: completion failures degrade to
// the fallback text inside the Completer.
func (o *Orchestrator) HandleMessage(ctx context.Context, userID int64, username, text string) Reply {
	lock := o.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	o.counters.IncrementUser(userID)

	if answer, ok := o.matcher.Match(text); ok {
		o.emit(ctx, userID, username, text, answer, 0, 0)
		o.counters.IncrementBot(userID)
		return Reply{Text: answer}
	}

	tags := o.classifier.Classify(text)
	o.memory.Append(userID, models.RoleUser, text)

	start := time.Now()
	outcome := o.completer.Complete(ctx, o.systemPrompt, o.memory.AsChat(userID))
	latency := time.Since(start).Milliseconds()

	reply := outcome.Text
	if len(tags) > 0 {
		reply = "[tags: " + strings.Join(tags, ", ") + "]\n" + reply
	}

	// The annotated text is what the user sees, so it is also what the
	// model sees as its own prior turn.
	o.memory.Append(userID, models.RoleAssistant, reply)

	o.counters.IncrementBot(userID)
	o.emit(ctx, userID, username, text, reply, outcome.TokensUsed, latency)

	return Reply{Text: reply, HTML: true}
}

// Reset clears the user's conversation memory and counters together,
// under the same lock that serializes their messages.
func (o *Orchestrator) Reset(userID int64) {
	lock := o.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	o.memory.Reset(userID)
	o.counters.Clear(userID)
}

// Stats returns the user's session tallies.
func (o *Orchestrator) Stats(userID int64) models.Stats {
	return o.counters.Read(userID)
}

// FAQText renders the knowledge base for the help surface.
func (o *Orchestrator) FAQText() string {
	return o.matcher.RenderAll()
}

func (o *Orchestrator) emit(ctx context.Context, userID int64, username, input, reply string, tokens int, latencyMS int64) {
	event := models.Event{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		UserID:    userID,
		Username:  username,
		Input:     input,
		Reply:     reply,
		Tokens:    tokens,
		LatencyMS: latencyMS,
	}

	if err := o.sink.Log(ctx, event); err != nil {
		o.logger.Warn("failed to log analytics event",
			zap.Error(err),
			zap.String("event_id", event.ID),
			zap.Int64("user_id", userID))
	}
}
