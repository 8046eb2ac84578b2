// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider defines the closed set of LLM backends and their
// per-provider feature capabilities.
package provider

// =============================================================================
// PROVIDER IDENTIFIERS
// =============================================================================

// ID identifies an LLM backend provider.
type ID string

// The closed provider enumeration. These match the identifiers the backend
// reports in its feature configuration; anything else resolves to the
// fail-safe capability record.
const (
	Anthropic      ID = "anthropic"
	BedrockClaude  ID = "bedrock-claude"
	BedrockMistral ID = "bedrock-mistral"
	BedrockLlama3  ID = "bedrock-llama3"
	BedrockQwen3   ID = "bedrock-qwen3"
	BedrockTitan   ID = "bedrock-titan"
	OpenAIGPT5     ID = "openai-gpt5"
	Gemini         ID = "gemini"
)

// Default is the provider used when neither the conversation nor the project
// names one.
const Default = Anthropic

// String returns the wire identifier of the provider.
func (id ID) String() string {
	return string(id)
}

// DisplayName returns a human-readable name for the provider.
func (id ID) DisplayName() string {
	if cap, ok := matrix[id]; ok {
		return cap.DisplayName
	}
	return string(id)
}

// IsKnown reports whether the identifier is part of the closed enumeration.
func IsKnown(id ID) bool {
	_, ok := matrix[id]
	return ok
}

// All returns the closed provider enumeration in display order.
func All() []ID {
	return []ID{
		Anthropic,
		BedrockClaude,
		BedrockMistral,
		BedrockLlama3,
		BedrockQwen3,
		BedrockTitan,
		OpenAIGPT5,
		Gemini,
	}
}

// =============================================================================
// CAPABILITY RECORDS
// =============================================================================

// Capability describes which optional generation features a provider
// supports and how those features interact.
type Capability struct {
	// DisplayName is the human-readable provider name.
	DisplayName string

	// SupportsExtendedReasoning is true when the provider can expose an
	// intermediate reasoning trace before its final answer.
	SupportsExtendedReasoning bool

	// SupportsWebSearch is true when the provider can ground answers with
	// live web search results.
	SupportsWebSearch bool

	// ReasoningSearchMutuallyExclusive is true when the provider cannot run
	// extended reasoning and web search on the same request.
	ReasoningSearchMutuallyExclusive bool

	// RequiresReasoningConfirmation is true when enabling reasoning carries a
	// trade-off the user must acknowledge first (on the Bedrock Claude
	// family, reasoning blocks knowledge-base retrieval).
	RequiresReasoningConfirmation bool

	// RequiresExternalConfig is true when the provider only works once
	// cloud credentials are provisioned outside this client.
	RequiresExternalConfig bool
}

// failSafe is the capability record for unknown providers: every optional
// feature disabled.
var failSafe = Capability{DisplayName: "Unknown"}

// matrix is the per-provider capability table. Capability combinations are
// data here, never scattered conditionals; the exact values for the less
// common Bedrock families mirror what the backend reports and default to
// conservative support.
var matrix = map[ID]Capability{
	Anthropic: {
		DisplayName:               "Claude (direct API)",
		SupportsExtendedReasoning: true,
		SupportsWebSearch:         true,
	},
	BedrockClaude: {
		DisplayName:                      "Claude (Bedrock)",
		SupportsExtendedReasoning:        true,
		SupportsWebSearch:                true,
		ReasoningSearchMutuallyExclusive: true,
		RequiresReasoningConfirmation:    true,
		RequiresExternalConfig:           true,
	},
	BedrockMistral: {
		DisplayName:            "Mistral (Bedrock)",
		SupportsWebSearch:      true,
		RequiresExternalConfig: true,
	},
	BedrockLlama3: {
		DisplayName:            "Llama 3 (Bedrock)",
		SupportsWebSearch:      true,
		RequiresExternalConfig: true,
	},
	BedrockQwen3: {
		DisplayName:            "Qwen3 VL (Bedrock)",
		SupportsWebSearch:      true,
		RequiresExternalConfig: true,
	},
	BedrockTitan: {
		DisplayName:            "Titan (Bedrock)",
		SupportsWebSearch:      true,
		RequiresExternalConfig: true,
	},
	OpenAIGPT5: {
		DisplayName:               "GPT-5",
		SupportsExtendedReasoning: true,
		SupportsWebSearch:         true,
	},
	Gemini: {
		DisplayName:               "Gemini",
		SupportsExtendedReasoning: true,
		SupportsWebSearch:         true,
	},
}

// Capabilities returns the capability record for a provider.
//
// The function is pure and total: there is no error case. An identifier
// outside the closed enumeration yields the fail-safe record, which disables
// every optional feature.
func Capabilities(id ID) Capability {
	if cap, ok := matrix[id]; ok {
		return cap
	}
	return failSafe
}
