package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xaenox/helpdesk-bot/internal/knowledge"
	"github.com/xaenox/helpdesk-bot/internal/memory"
	"github.com/xaenox/helpdesk-bot/internal/models"
	"github.com/xaenox/helpdesk-bot/internal/session"
	"github.com/xaenox/helpdesk-bot/internal/tagging"
	"go.uber.org/zap"
)

type fakeCompleter struct {
	calls   int
	history []models.Turn
	outcome models.CompletionOutcome
}

func (f *fakeCompleter) Complete(_ context.Context, _ string, history []models.Turn) models.CompletionOutcome {
	f.calls++
	f.history = history
	return f.outcome
}

type captureSink struct {
	events []models.Event
	err    error
}

func (s *captureSink) Log(_ context.Context, event models.Event) error {
	s.events = append(s.events, event)
	return s.err
}

func (s *captureSink) Close() error { return nil }

func newTestOrchestrator(completer Completer, sink *captureSink) (*Orchestrator, *memory.Store, *session.Counters) {
	mem := memory.NewStore(10)
	counters := session.NewCounters()
	orch := New(
		knowledge.NewMatcher("FAQ — quick answers:", knowledge.DefaultEntries()),
		tagging.NewClassifier(tagging.DefaultRules()),
		mem,
		counters,
		completer,
		sink,
		"you are a support agent",
		zap.NewNop(),
	)
	return orch, mem, counters
}

func TestFAQShortCircuit(t *testing.T) {
	completer := &fakeCompleter{outcome: models.CompletionOutcome{Text: "unused"}}
	sink := &captureSink{}
	orch, mem, counters := newTestOrchestrator(completer, sink)

	reply := orch.HandleMessage(context.Background(), 1, "alice", "what are your working hours?")

	if reply.Text != "We're open daily 9 AM – 7 PM PT." {
		t.Fatalf("HandleMessage() = %q, want canned answer", reply.Text)
	}
	if reply.HTML {
		t.Fatal("FAQ reply should be plain text")
	}
	if completer.calls != 0 {
		t.Fatalf("completer calls = %d, want 0 on FAQ path", completer.calls)
	}
	if turns := mem.AsChat(1); len(turns) != 0 {
		t.Fatalf("memory = %v, want untouched on FAQ path", turns)
	}

	stats := counters.Read(1)
	if stats.UserMessages != 1 || stats.BotMessages != 1 {
		t.Fatalf("stats = %+v, want 1/1", stats)
	}

	if len(sink.events) != 1 {
		t.Fatalf("events = %d, want exactly 1", len(sink.events))
	}
	if sink.events[0].Tokens != 0 || sink.events[0].LatencyMS != 0 {
		t.Fatalf("FAQ event = %+v, want zero tokens and latency", sink.events[0])
	}
}

func TestLLMPathAnnotatesTagsAndStoresDeliveredText(t *testing.T) {
	completer := &fakeCompleter{outcome: models.CompletionOutcome{Text: "check your invoice settings", TokensUsed: 12}}
	sink := &captureSink{}
	orch, mem, _ := newTestOrchestrator(completer, sink)

	reply := orch.HandleMessage(context.Background(), 1, "alice", "my invoice has a bug")

	if !strings.HasPrefix(reply.Text, "[tags: billing, tech]\n") {
		t.Fatalf("HandleMessage() = %q, want tag annotation prefix", reply.Text)
	}
	if !reply.HTML {
		t.Fatal("LLM reply should carry the rich markup hint")
	}

	turns := mem.AsChat(1)
	if len(turns) != 2 {
		t.Fatalf("memory len = %d, want user + assistant turns", len(turns))
	}
	if turns[0].Role != models.RoleUser || turns[0].Content != "my invoice has a bug" {
		t.Fatalf("memory[0] = %+v, want the inbound text", turns[0])
	}
	if turns[1].Role != models.RoleAssistant || turns[1].Content != reply.Text {
		t.Fatalf("memory[1] = %+v, want the delivered (annotated) reply", turns[1])
	}

	if len(sink.events) != 1 {
		t.Fatalf("events = %d, want exactly 1", len(sink.events))
	}
	event := sink.events[0]
	if event.Reply != reply.Text || event.Tokens != 12 {
		t.Fatalf("event = %+v, want delivered reply and token count", event)
	}
	if event.UserID != 1 || event.Username != "alice" || event.Input != "my invoice has a bug" {
		t.Fatalf("event = %+v, want user identity and input preserved", event)
	}
	if event.ID == "" {
		t.Fatal("event id should be set")
	}
}

func TestLLMPathWithoutTagsHasNoPrefix(t *testing.T) {
	completer := &fakeCompleter{outcome: models.CompletionOutcome{Text: "hi there"}}
	sink := &captureSink{}
	orch, _, _ := newTestOrchestrator(completer, sink)

	reply := orch.HandleMessage(context.Background(), 1, "", "hello")

	if reply.Text != "hi there" {
		t.Fatalf("HandleMessage() = %q, want unannotated reply", reply.Text)
	}
}

func TestCompleterSeesWindowIncludingInbound(t *testing.T) {
	completer := &fakeCompleter{outcome: models.CompletionOutcome{Text: "sure"}}
	sink := &captureSink{}
	orch, _, _ := newTestOrchestrator(completer, sink)

	orch.HandleMessage(context.Background(), 1, "", "hello")
	orch.HandleMessage(context.Background(), 1, "", "tell me more")

	if len(completer.history) != 3 {
		t.Fatalf("history len = %d, want user/assistant/user", len(completer.history))
	}
	if completer.history[2].Content != "tell me more" {
		t.Fatalf("history[2] = %+v, want latest inbound turn last", completer.history[2])
	}
}

func TestResetClearsMemoryAndCounters(t *testing.T) {
	completer := &fakeCompleter{outcome: models.CompletionOutcome{Text: "sure"}}
	sink := &captureSink{}
	orch, mem, counters := newTestOrchestrator(completer, sink)

	orch.HandleMessage(context.Background(), 1, "", "hello")
	orch.Reset(1)

	if turns := mem.AsChat(1); len(turns) != 0 {
		t.Fatalf("memory after Reset = %v, want empty", turns)
	}
	stats := counters.Read(1)
	if stats.UserMessages != 0 || stats.BotMessages != 0 {
		t.Fatalf("stats after Reset = %+v, want zeroes", stats)
	}
}

func TestSinkFailureDoesNotAffectReply(t *testing.T) {
	completer := &fakeCompleter{outcome: models.CompletionOutcome{Text: "still works"}}
	sink := &captureSink{err: errors.New("sink down")}
	orch, _, _ := newTestOrchestrator(completer, sink)

	reply := orch.HandleMessage(context.Background(), 1, "", "hello")
	if reply.Text != "still works" {
		t.Fatalf("HandleMessage() = %q, want delivery despite sink failure", reply.Text)
	}
}

func TestUsersDoNotShareState(t *testing.T) {
	completer := &fakeCompleter{outcome: models.CompletionOutcome{Text: "ok"}}
	sink := &captureSink{}
	orch, mem, _ := newTestOrchestrator(completer, sink)

	orch.HandleMessage(context.Background(), 1, "", "hello")
	orch.HandleMessage(context.Background(), 2, "", "hey")
	orch.Reset(1)

	if turns := mem.AsChat(2); len(turns) != 2 {
		t.Fatalf("AsChat(2) len = %d, want untouched by Reset(1)", len(turns))
	}
	if stats := orch.Stats(2); stats.UserMessages != 1 {
		t.Fatalf("Stats(2) = %+v, want 1 user message", stats)
	}
}
