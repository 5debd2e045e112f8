package gen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedGeneratorOutput is returned when a model response fails every
// parse strategy. Callers treat it like any other remote failure.
var ErrMalformedGeneratorOutput = errors.New("malformed generator output")

// ParseProposal extracts a Proposal from raw model text. The model is asked
// for bare JSON but routinely wraps it in a markdown code fence or surrounds
// it with prose, so parsing falls back through those shapes before giving up.
func ParseProposal(raw string) (*Proposal, error) {
	candidates := []string{strings.TrimSpace(raw)}

	if fenced, ok := extractFencedBlock(raw); ok {
		candidates = append(candidates, fenced)
	}
	if embedded, ok := extractBracedObject(raw); ok {
		candidates = append(candidates, embedded)
	}

	for _, candidate := range candidates {
		if p, err := decodeProposal(candidate); err == nil {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrMalformedGeneratorOutput, truncate(raw, 120))
}

func decodeProposal(s string) (*Proposal, error) {
	var p Proposal
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nil, err
	}
	if p.Flowers == nil {
		return nil, errors.New("missing flowers array")
	}

	// Normalize: entries without a name carry no signal and are discarded;
	// a negative quantity means the model broke the schema contract.
	flowers := p.Flowers[:0]
	for _, f := range p.Flowers {
		if strings.TrimSpace(f.Name) == "" {
			continue
		}
		if f.Quantity < 0 {
			return nil, errors.New("negative quantity")
		}
		flowers = append(flowers, f)
	}
	p.Flowers = flowers
	return &p, nil
}

// extractFencedBlock pulls the body out of the first markdown code fence,
// with or without a language tag.
func extractFencedBlock(raw string) (string, bool) {
	start := strings.Index(raw, "```")
	if start == -1 {
		return "", false
	}
	rest := raw[start+3:]
	if newline := strings.Index(rest, "\n"); newline != -1 {
		// Skip the language tag line (```json).
		rest = rest[newline+1:]
	}
	end := strings.Index(rest, "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// extractBracedObject grabs the outermost {...} span as a last resort.
func extractBracedObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
