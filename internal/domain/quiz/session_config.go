package quiz

// SessionConfig holds optional constraints applied when a session is
// built from a fetched question set.
type SessionConfig struct {
	MaxQuestions *int // nil = every fetched question
	Shuffle      bool // true = randomize order before capping
}

// DefaultConfig keeps the server's order and size.
func DefaultConfig() SessionConfig {
	return SessionConfig{
		MaxQuestions: nil,
		Shuffle:      false,
	}
}
