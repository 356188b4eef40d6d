package model

// ================ Config ================

type ClassifierModelConfig struct {
	Model       string  `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.0-flash"`
	MaxTokens   int     `envconfig:"CLASSIFIER_MAX_TOKENS" default:"64"`
	Temperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" default:"0.0"`
}

type GenerationModelConfig struct {
	Model       string  `envconfig:"GENERATION_MODEL" default:"gemini-2.0-flash"`
	MaxTokens   int     `envconfig:"GENERATION_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"GENERATION_TEMPERATURE" default:"0.3"`
}

type RetrievalConfig struct {
	TopK         int     `envconfig:"RETRIEVAL_TOP_K" default:"5"`
	MinRelevance float64 `envconfig:"RETRIEVAL_MIN_RELEVANCE" default:"0.1"`
}

type CallConfig struct {
	// TimeoutSeconds bounds every external call (classifier, rewriter,
	// retriever, synthesizer, ticket tool). A timeout is handled like any
	// other call failure and triggers the node's documented fallback.
	TimeoutSeconds int `envconfig:"CALL_TIMEOUT_SECONDS" default:"30"`
	// MaxAttempts caps retries at the model/vector-store boundary.
	// The ticket tool never retries regardless of this value.
	MaxAttempts int `envconfig:"CALL_MAX_ATTEMPTS" default:"2"`
	// BackoffMillis is the initial backoff, doubled per attempt.
	BackoffMillis int `envconfig:"CALL_BACKOFF_MILLIS" default:"200"`
}

type WorkerPoolConfig struct {
	// Size bounds the number of turns in flight, and therefore the number of
	// simultaneous outstanding model/vector-store calls.
	Size int `envconfig:"WORKER_POOL_SIZE" default:"8"`
}

type EscalationConfig struct {
	ContactEmail   string `envconfig:"ESCALATION_CONTACT_EMAIL" default:"user@company.com"`
	SupportChannel string `envconfig:"ESCALATION_SUPPORT_CHANNEL" default:"support@company.com"`
}

type TraceConfig struct {
	TTL string `envconfig:"TRACE_TTL" default:"24h"`
}
