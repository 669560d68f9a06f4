package driven

// TokenCounter measures text size in model tokens. Used to cap the
// grounding context assembled for review prompts.
type TokenCounter interface {
	// Count returns the token count for the given text.
	Count(text string) int
}
