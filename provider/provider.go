// Package provider defines the provider profiles, generation options, error taxonomy and the
// shared HTTP transport used by the xogen adapters.
//
// Profiles are immutable and defined at package initialization. Adding a provider means adding
// one entry to the profile table and, when it speaks a new wire shape, one adapter package.
package provider

import (
	"sort"
	"strings"
)

// ID identifies a provider. IDs are lowercase.
type ID string

// Supported providers.
const (
	Ollama     ID = "ollama"
	LMStudio   ID = "lmstudio"
	GitHub     ID = "github"
	Groq       ID = "groq"
	OpenRouter ID = "openrouter"
	OpenAI     ID = "openai"
	Gemini     ID = "gemini"
)

// Shape is the wire-shape family a provider speaks.
type Shape int

const (
	// ShapeLocal is the single-shot local-inference shape (POST /api/generate).
	ShapeLocal Shape = iota + 1
	// ShapeChat is the OpenAI-compatible chat-completions shape.
	ShapeChat
	// ShapeGemini is served through the Google generative AI SDK.
	ShapeGemini
)

func (s Shape) String() string {
	switch s {
	case ShapeLocal:
		return "local"
	case ShapeChat:
		return "chat"
	case ShapeGemini:
		return "gemini"
	default:
		return "unknown"
	}
}

// DefaultModel is the placeholder model used for identifiers with no profile.
const DefaultModel = "default"

// DefaultReferer is sent as HTTP-Referer to OpenRouter unless configured otherwise.
const DefaultReferer = "https://github.com/xostack/xogen"

// Profile describes a provider's defaults and requirements.
type Profile struct {
	ID                 ID
	Shape              Shape
	DefaultModel       string
	DefaultEndpoint    string // empty when the SDK picks the endpoint
	EndpointOverride   bool   // whether callers may point the client elsewhere
	CredentialRequired bool
	// Headers are sent on every request in addition to auth. They never carry secrets.
	Headers map[string]string
}

// Local reports whether the provider runs on the caller's machine.
func (p Profile) Local() bool {
	return !p.CredentialRequired
}

var profiles = map[ID]Profile{
	Ollama: {
		ID:               Ollama,
		Shape:            ShapeLocal,
		DefaultModel:     "deepseek-coder:6.7b",
		DefaultEndpoint:  "http://localhost:11434",
		EndpointOverride: true,
	},
	LMStudio: {
		ID:               LMStudio,
		Shape:            ShapeChat,
		DefaultModel:     "deepseek-coder",
		DefaultEndpoint:  "http://127.0.0.1:1234/v1",
		EndpointOverride: true,
	},
	GitHub: {
		ID:                 GitHub,
		Shape:              ShapeChat,
		DefaultModel:       "gpt-4o-mini",
		DefaultEndpoint:    "https://models.github.ai/inference",
		CredentialRequired: true,
		Headers:            map[string]string{"X-GitHub-Api-Version": "2022-11-28"},
	},
	Groq: {
		ID:                 Groq,
		Shape:              ShapeChat,
		DefaultModel:       "llama-3.1-8b-instant",
		DefaultEndpoint:    "https://api.groq.com/openai/v1",
		CredentialRequired: true,
	},
	OpenRouter: {
		ID:                 OpenRouter,
		Shape:              ShapeChat,
		DefaultModel:       "meta-llama/llama-3.1-8b-instruct:free",
		DefaultEndpoint:    "https://openrouter.ai/api/v1",
		CredentialRequired: true,
		Headers:            map[string]string{"HTTP-Referer": DefaultReferer},
	},
	OpenAI: {
		ID:                 OpenAI,
		Shape:              ShapeChat,
		DefaultModel:       "gpt-4o-mini",
		DefaultEndpoint:    "https://api.openai.com/v1",
		CredentialRequired: true,
	},
	Gemini: {
		ID:                 Gemini,
		Shape:              ShapeGemini,
		DefaultModel:       "gemma-3-27b-it",
		CredentialRequired: true,
	},
}

// Normalize lowercases and trims a provider identifier.
func Normalize(id string) ID {
	return ID(strings.ToLower(strings.TrimSpace(id)))
}

// Lookup returns the profile for id. Matching is case-insensitive.
func Lookup(id string) (Profile, bool) {
	p, ok := profiles[Normalize(id)]
	if !ok {
		return Profile{}, false
	}
	return p.clone(), true
}

// All returns every profile sorted by ID.
func All() []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs returns every supported provider ID sorted.
func IDs() []ID {
	all := All()
	ids := make([]ID, len(all))
	for i, p := range all {
		ids[i] = p.ID
	}
	return ids
}

// clone keeps callers from mutating the shared header map.
func (p Profile) clone() Profile {
	if p.Headers != nil {
		h := make(map[string]string, len(p.Headers))
		for k, v := range p.Headers {
			h[k] = v
		}
		p.Headers = h
	}
	return p
}
