// Package llm asks a language model to classify ledger lines into accrual
// periods. It supports Gemini, OpenAI and Anthropic, with retry logic, rate
// limiting and response caching.
package llm
