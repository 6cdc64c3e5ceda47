package config

const (
	// DefaultMaxFreeCounts is the number of free generations before the
	// upgrade prompt. Overridden by MAX_FREE_COUNTS.
	DefaultMaxFreeCounts = 5

	// MaxPromptLength bounds a single prompt typed into the conversation form.
	MaxPromptLength = 4000

	// MaxRequestBodyBytes bounds JSON request bodies (10MB)
	MaxRequestBodyBytes = 10 << 20

	// MaxWebhookBodyBytes bounds Stripe webhook payloads.
	MaxWebhookBodyBytes = 1 << 16

	// Postgres pool bounds.
	DBMaxConns = 10
	DBMinConns = 2
)
