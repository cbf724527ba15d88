package weburl

import (
	"errors"

	"github.com/pavlik/weburl/internal/ascii"
)

// Schema is the static configuration of a KeyValuePairs view (spec.md §4.9):
// which byte splits pairs, which byte splits a pair into key/value, and how
// keys/values are percent-encoded on write.
//
// Grounded on purell.NormalizationFlags, the teacher's one configuration
// surface (a bitmask built through a single value), generalized here into a
// Go functional-options constructor since Schema's fields are not
// independent booleans — SPEC_FULL.md §3.
type Schema struct {
	preferredPairDelim byte
	otherPairDelims    ascii.Set
	preferredKVDelim   byte
	decodePlusAsSpace  bool
	keyEncodeSet       ascii.Set
	valueEncodeSet     ascii.Set
}

// SchemaOption customizes a Schema built by NewSchema.
type SchemaOption func(*Schema)

// WithPairDelim sets the delimiter byte used when writing new pairs.
func WithPairDelim(b byte) SchemaOption {
	return func(s *Schema) { s.preferredPairDelim = b }
}

// WithOtherPairDelims adds bytes recognized (but not written) as pair
// delimiters, e.g. a schema that reads both '&' and ';' but always writes
// '&'.
func WithOtherPairDelims(bytes ...byte) SchemaOption {
	return func(s *Schema) { s.otherPairDelims = s.otherPairDelims.With(bytes...) }
}

// WithKVDelim sets the byte that splits a pair into key and value.
func WithKVDelim(b byte) SchemaOption {
	return func(s *Schema) { s.preferredKVDelim = b }
}

// WithPlusAsSpace toggles application/x-www-form-urlencoded's '+'<->space
// convention.
func WithPlusAsSpace(on bool) SchemaOption {
	return func(s *Schema) { s.decodePlusAsSpace = on }
}

// WithKeyEncodeSet overrides the percent-encode set applied to keys on
// write.
func WithKeyEncodeSet(set ascii.Set) SchemaOption {
	return func(s *Schema) { s.keyEncodeSet = set }
}

// WithValueEncodeSet overrides the percent-encode set applied to values on
// write.
func WithValueEncodeSet(set ascii.Set) SchemaOption {
	return func(s *Schema) { s.valueEncodeSet = set }
}

// NewSchema builds a Schema starting from the application/x-www-form
// -urlencoded defaults ('&' pair delimiter, '=' key/value delimiter, '+' as
// space) and applying opts in order.
func NewSchema(opts ...SchemaOption) Schema {
	s := Schema{
		preferredPairDelim: '&',
		preferredKVDelim:   '=',
		decodePlusAsSpace:  true,
		keyEncodeSet:       ascii.FormSet,
		valueEncodeSet:     ascii.FormSet,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// allDelims returns every byte this schema treats as a pair delimiter.
func (s Schema) allDelims() ascii.Set {
	return s.otherPairDelims.With(s.preferredPairDelim)
}

// isPairDelim reports whether b splits pairs under this schema.
func (s Schema) isPairDelim(b byte) bool {
	return b == s.preferredPairDelim || s.otherPairDelims.Contains(b)
}

// ErrInvalidSchema is returned when a Schema's delimiters are not safe to
// use against a given URL component (spec.md §4.9 "Schema validity"): a
// delimiter is ASCII alphanumeric or is percent-encoded by the component
// itself.
var ErrInvalidSchema = errors.New("weburl: schema delimiter is alphanumeric or percent-encoded by this component's encode-set")

// validate checks that no delimiter byte this schema uses is ASCII
// alphanumeric or in componentSet. A byte the component would itself
// percent-encode can never appear raw in the component, so splitting on it
// would find nothing; an alphanumeric byte is ordinary key/value content.
func (s Schema) validate(componentSet ascii.Set) error {
	delims := []byte{s.preferredPairDelim, s.preferredKVDelim}
	valid := true
	for _, d := range delims {
		if componentSet.Contains(d) || ascii.Alphanumeric.Contains(d) {
			valid = false
		}
	}
	bits := s.otherPairDelims
	for c := 0; c < 256 && valid; c++ {
		if bits.Contains(byte(c)) && (componentSet.Contains(byte(c)) || ascii.Alphanumeric.Contains(byte(c))) {
			valid = false
		}
	}
	if !valid {
		return ErrInvalidSchema
	}
	return nil
}
