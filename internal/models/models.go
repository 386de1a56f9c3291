package models

import "time"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is one role-tagged message in a conversation. Immutable once
// created; owned by the memory entry that holds it.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompletionOutcome is the result of one resilient completion call.
// Text may be the configured fallback sentence, in which case
// TokensUsed is zero.
type CompletionOutcome struct {
	Text       string `json:"text"`
	TokensUsed int    `json:"tokens_used"`
}

// Stats is a per-user message tally for the current session.
type Stats struct {
	UserMessages int `json:"user_messages"`
	BotMessages  int `json:"bot_messages"`
}

// Event is one analytics record emitted per handled message.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Input     string    `json:"input"`
	Reply     string    `json:"reply"`
	Tokens    int       `json:"tokens"`
	LatencyMS int64     `json:"latency_ms"`
}
