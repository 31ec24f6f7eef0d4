// SPDX-License-Identifier: MPL-2.0

package jsmod

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// DataModuleName is the name an inline module is compiled under before it
// is renamed to its identity.
const DataModuleName = "<data-url>"

// DataURI is a parsed data: specifier.
type DataURI struct {
	// Header is the text between "data:" and the first comma; it becomes
	// the module identity.
	Header string
	// Base64 is set when the header ends in ";base64".
	Base64 bool
	// Payload is the raw text after the first comma.
	Payload string
}

var errNoComma = errors.New("missing ',' separator")

// ParseDataURI splits spec at its first comma.
func ParseDataURI(spec string) (*DataURI, error) {
	rest, ok := strings.CutPrefix(spec, DataScheme)
	if !ok {
		return nil, fmt.Errorf("not a data URI: %q", spec)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, errNoComma
	}
	return &DataURI{
		Header:  header,
		Base64:  strings.HasSuffix(header, ";base64"),
		Payload: payload,
	}, nil
}

// Decode returns the module source. Base64 payloads accept the URL-safe and
// standard alphabets with or without padding; other payloads are literal
// text in which well-formed %XX escapes are decoded.
func (d *DataURI) Decode() ([]byte, error) {
	if !d.Base64 {
		return unescapePercent(d.Payload), nil
	}

	payload := strings.TrimRight(d.Payload, "=")
	payload = strings.NewReplacer("+", "-", "/", "_").Replace(payload)
	out, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("base64: %w", err)
	}
	return out, nil
}

// unescapePercent decodes %XX escapes and keeps any other '%' as is, so
// source such as "5%2" survives.
func unescapePercent(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, okHi := unhex(s[i+1])
			lo, okLo := unhex(s[i+2])
			if okHi && okLo {
				out = append(out, hi<<4|lo)
				i += 2
				continue
			}
		}
		out = append(out, s[i])
	}
	return out
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// loadDataURI compiles, renames, and evaluates an inline module. It never
// touches the load stack, registry, manifest, or search roots.
func (l *Loader) loadDataURI(spec string) (Module, error) {
	uri, err := ParseDataURI(spec)
	if err != nil {
		return nil, &DecodeError{Specifier: spec, Kind: KindDataURI, Err: err}
	}
	src, err := uri.Decode()
	if err != nil {
		return nil, &DecodeError{Specifier: spec, Kind: KindDataURI, Err: err}
	}

	m, err := l.engine.Compile(DataModuleName, src)
	if err != nil {
		return nil, fmt.Errorf("compile data URI: %w", err)
	}
	l.engine.Rename(m, uri.Header)
	if err := l.engine.Evaluate(m); err != nil {
		l.discard(m)
		return nil, fmt.Errorf("evaluate data URI: %w", err)
	}
	l.logger.Debug("loaded inline module", "identity", uri.Header, "bytes", len(src))
	return m, nil
}
