// Package http provides the JSON API server and its handlers.
//
// This file implements utilities for parsing and sanitizing HTTP request
// data. Transaction bodies may be sent as JSON or form-encoded.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"expenso/internal/core"
)

// maxBodyBytes bounds request bodies accepted by the API.
const maxBodyBytes = 16 << 10

// ErrMalformedBody is returned when the body is neither valid JSON nor form data.
var ErrMalformedBody = errors.New("malformed request body")

// RequestBodyParser handles different content types for request body parsing.
// It reads the body once and serves values by key from whichever format it held.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads at most maxBodyBytes from the request body.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := bytes.TrimSpace(p.body)
	if len(trimmed) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' || strings.HasPrefix(p.contentType, "application/json") {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		// Numbers stay textual so amounts never pass through float64.
		dec.UseNumber()
		p.jsonData = make(map[string]any)
		if err := dec.Decode(&p.jsonData); err != nil {
			p.jsonData = nil
			p.err = fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		return p.err
	}

	p.formData, p.err = url.ParseQuery(string(trimmed))
	if p.err != nil {
		p.err = fmt.Errorf("%w: %v", ErrMalformedBody, p.err)
	}
	return p.err
}

// Get returns a sanitized single-line value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	return strings.TrimSpace(sanitizeInput(p.raw(key), false))
}

// GetMultiline is Get for free text: line breaks survive, normalized to \n.
func (p *RequestBodyParser) GetMultiline(key string) string {
	return strings.TrimSpace(sanitizeInput(p.raw(key), true))
}

func (p *RequestBodyParser) raw(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return stringValue(val)
		}
		return ""
	}
	if p.formData != nil {
		return p.formData.Get(key)
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput drops control characters, keeping spaces and tabs. With
// keepNewlines, CRLF and lone CR become \n and \n is kept.
func sanitizeInput(s string, keepNewlines bool) string {
	if keepNewlines {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' && keepNewlines {
			return r
		}
		if unicode.IsControl(r) && r != ' ' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// ParseTransactionInput builds a TransactionInput from a request body.
// Amount parse failures are reported as core.ErrInvalidAmount so callers
// can treat them like any other validation error.
func ParseTransactionInput(w http.ResponseWriter, r *http.Request) (core.TransactionInput, error) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		return core.TransactionInput{}, err
	}

	in := core.TransactionInput{
		Type:     core.TransactionType(p.Get("type")),
		Category: p.Get("category"),
		Source:   p.Get("source"),
		Note:     p.GetMultiline("note"),
		Mood:     core.Mood(p.Get("mood")),
	}

	amount, err := core.ParseAmount(p.Get("amount"))
	if err != nil {
		return core.TransactionInput{}, err
	}
	in.Amount = amount
	return in, nil
}

// ParseBoolQuery reads a boolean query parameter, falling back to def when
// it is absent or unparseable.
func ParseBoolQuery(query url.Values, key string, def bool) bool {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
