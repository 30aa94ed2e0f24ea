package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// NormalizeResponse turns a free-form model reply into the canonical AnalysisResult.
// It fails only when no payload can be located or decoded; everything after that is
// repaired field by field. It is pure: equal input always gives an equal result.
func NormalizeResponse(reply string) (*models.AnalysisResult, error) {
	candidate, ok := LocatePayload(reply)
	if !ok {
		return nil, &ParseError{Reason: ReasonNoPayload, Raw: reply}
	}

	payload, err := decodePayload(candidate)
	if err != nil {
		return nil, &ParseError{Reason: ReasonMalformedPayload, Raw: candidate, Cause: err}
	}

	return mapPayload(payload), nil
}

// LocatePayload finds the structured part of a reply. A fenced block labeled json wins
// when it holds valid JSON; otherwise the first balanced object in the text is used.
func LocatePayload(reply string) (string, bool) {
	if body, ok := fencedJSONBlock(reply); ok {
		candidate := strings.TrimSpace(body)
		if obj, ok := scanObject(body); ok {
			if json.Valid([]byte(obj)) {
				return obj, true
			}
			candidate = obj
		}
		// A value containing ``` cuts the fence short; the whole reply may still hold the object.
		if obj, ok := scanObject(reply); ok && json.Valid([]byte(obj)) {
			return obj, true
		}
		return candidate, true
	}
	return scanObject(reply)
}

// fencedJSONBlock returns the body of the first closed ``` block whose label is json.
func fencedJSONBlock(text string) (string, bool) {
	const fence = "```"
	rest := text

	for {
		open := strings.Index(rest, fence)
		if open < 0 {
			return "", false
		}

		afterOpen := rest[open+len(fence):]
		nl := strings.IndexByte(afterOpen, '\n')
		if nl < 0 {
			return "", false
		}
		label := strings.ToLower(strings.TrimSpace(afterOpen[:nl]))
		body := afterOpen[nl+1:]

		end := strings.Index(body, fence)
		if end < 0 {
			return "", false
		}
		if label == "json" {
			return body[:end], true
		}
		rest = body[end+len(fence):]
	}
}

type scanState int

const (
	scanCode scanState = iota
	scanString
	scanEscape
)

// scanObject returns the object starting at the first '{'. Braces inside string
// literals are ignored. When the text ends before the object closes, it falls back
// to the span ending at the last '}'.
func scanObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	state := scanCode
	depth := 0

	for i := start; i < len(text); i++ {
		c := text[i]
		switch state {
		case scanEscape:
			state = scanString
		case scanString:
			switch c {
			case '\\':
				state = scanEscape
			case '"':
				state = scanCode
			}
		case scanCode:
			switch c {
			case '"':
				state = scanString
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}

	end := strings.LastIndexByte(text, '}')
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func decodePayload(candidate string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(candidate))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	if payload == nil {
		return nil, fmt.Errorf("payload is not an object")
	}

	return payload, nil
}
