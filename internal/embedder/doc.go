// Package embedder generates text embeddings for the semantic index
// adapter. Two providers are available: an OpenAI HTTP provider for
// real deployments and a deterministic local hash provider for offline
// development and tests. Embeddings are cached in-process by content
// hash with LRU eviction.
package embedder
