// Package llm provides a small prose writer backed by OpenAI or Anthropic.
// It is used only to restate numbers the analysis engine already computed;
// requests are paced with a token bucket and retried with backoff.
package llm
