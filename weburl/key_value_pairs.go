package weburl

import (
	"errors"

	"golang.org/x/text/unicode/norm"

	"github.com/pavlik/weburl/internal/ascii"
	"github.com/pavlik/weburl/internal/pct"
	"github.com/pavlik/weburl/internal/storage"
)

// KeyValuePair is one element of a KeyValuePairs sequence: the raw encoded
// bytes plus decoded accessors (spec.md §4.9).
type KeyValuePair struct {
	encodedKey   []byte
	encodedValue []byte
	hasDelim     bool
}

// EncodedKey is the raw, still-percent-encoded key bytes within the URL.
func (p KeyValuePair) EncodedKey() []byte { return p.encodedKey }

// EncodedValue is the raw, still-percent-encoded value bytes within the
// URL. Empty (and indistinguishable from an absent value) when the pair has
// no key-value delimiter.
func (p KeyValuePair) EncodedValue() []byte { return p.encodedValue }

func decodePairComponent(b []byte, schema Schema) string {
	return pct.DecodeString(b, schema.decodePlusAsSpace)
}

// Key is the UTF-8, percent-decoded key.
func (p KeyValuePair) Key(schema Schema) string { return decodePairComponent(p.encodedKey, schema) }

// Value is the UTF-8, percent-decoded value.
func (p KeyValuePair) Value(schema Schema) string {
	return decodePairComponent(p.encodedValue, schema)
}

// KeyValuePairs is a bidirectional view over a URL component's bytes as a
// sequence of key/value pairs (spec.md §4.9). Bound to a component (query
// or fragment) by QueryPairs/FragmentPairs.
//
// Grounded on the same slice-as-value-over-shared-storage shape as
// PathComponents; the splice engine here generalizes PathComponents'
// commitPath to KV-pair granularity instead of path-segment granularity.
type KeyValuePairs struct {
	u          *URL
	core       *storage.Storage
	schema     Schema
	isFragment bool
}

func querySetFor(u *URL) ascii.Set {
	if u.SchemeKind().IsSpecial() {
		return ascii.SpecialQuerySet
	}
	return ascii.QuerySet
}

// QueryPairs returns the key-value view over u's query, validating schema
// against the query's percent-encode set first (spec.md §4.9 "Schema
// validity").
func (u *URL) QueryPairs(schema Schema) (*KeyValuePairs, error) {
	if err := schema.validate(querySetFor(u)); err != nil {
		return nil, err
	}
	c := u.storage
	return &KeyValuePairs{u: u, core: &c, schema: schema}, nil
}

// FragmentPairs returns the key-value view over u's fragment.
func (u *URL) FragmentPairs(schema Schema) (*KeyValuePairs, error) {
	if err := schema.validate(ascii.FragmentSet); err != nil {
		return nil, err
	}
	c := u.storage
	return &KeyValuePairs{u: u, core: &c, schema: schema, isFragment: true}, nil
}

func (kv *KeyValuePairs) checkIdentity() error {
	if !kv.u.storage.SameIdentity(*kv.core) {
		return ErrCrossURLView
	}
	return nil
}

func (kv *KeyValuePairs) rawBody() []byte {
	rs := kv.u.storage.Ranges()
	r := rs.Query
	if kv.isFragment {
		r = rs.Fragment
	}
	if !r.Present {
		return nil
	}
	return kv.u.storage.Slice(r)[1:]
}

// allPairsRaw splits the raw body on every pair-delimiter byte, keeping
// empty segments (bare delimiters) in place so their position relative to
// non-empty pairs is preserved for the splice rules below.
func (kv *KeyValuePairs) allPairsRaw() [][]byte {
	body := kv.rawBody()
	if body == nil {
		return nil
	}
	var pairs [][]byte
	start := 0
	for i := 0; i < len(body); i++ {
		if kv.schema.isPairDelim(body[i]) {
			pairs = append(pairs, body[start:i])
			start = i + 1
		}
	}
	pairs = append(pairs, body[start:])
	return pairs
}

// parsePair splits a raw segment on the first key-value delimiter.
func (kv *KeyValuePairs) parsePair(raw []byte) (key, value []byte, hasDelim bool) {
	for i, c := range raw {
		if c == kv.schema.preferredKVDelim {
			return raw[:i], raw[i+1:], true
		}
	}
	return raw, nil, false
}

func (kv *KeyValuePairs) isEmptyRaw(raw []byte) bool {
	k, v, _ := kv.parsePair(raw)
	return len(k) == 0 && len(v) == 0
}

// nonEmptyRawIdx returns, for each logical (non-empty) pair in order, its
// index into raw.
func (kv *KeyValuePairs) nonEmptyRawIdx(raw [][]byte) []int {
	var idxs []int
	for i, seg := range raw {
		if !kv.isEmptyRaw(seg) {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func (kv *KeyValuePairs) toPair(raw []byte) KeyValuePair {
	k, v, hasDelim := kv.parsePair(raw)
	return KeyValuePair{encodedKey: k, encodedValue: v, hasDelim: hasDelim}
}

// rawBytes reconstructs p's raw (still-encoded) segment bytes.
func (p KeyValuePair) rawBytes(kvDelim byte) []byte {
	out := append([]byte{}, p.encodedKey...)
	if p.hasDelim {
		out = append(out, kvDelim)
		out = append(out, p.encodedValue...)
	}
	return out
}

// Len is the number of non-empty pairs (empty pairs are transparent to the
// sequence, spec.md §4.9).
func (kv *KeyValuePairs) Len() int {
	raw := kv.allPairsRaw()
	return len(kv.nonEmptyRawIdx(raw))
}

// At returns the pair at logical index idx.
func (kv *KeyValuePairs) At(idx int) KeyValuePair {
	raw := kv.allPairsRaw()
	idxs := kv.nonEmptyRawIdx(raw)
	if idx < 0 || idx >= len(idxs) {
		return KeyValuePair{}
	}
	return kv.toPair(raw[idxs[idx]])
}

// All returns every non-empty pair in order.
func (kv *KeyValuePairs) All() []KeyValuePair {
	raw := kv.allPairsRaw()
	idxs := kv.nonEmptyRawIdx(raw)
	out := make([]KeyValuePair, len(idxs))
	for i, ri := range idxs {
		out[i] = kv.toPair(raw[ri])
	}
	return out
}

func normalizeKey(s string) string { return norm.NFC.String(s) }

// Get returns the value of the first pair whose decoded key is canonically
// equivalent (Unicode NFC) to key.
func (kv *KeyValuePairs) Get(key string) (string, bool) {
	target := normalizeKey(key)
	for _, p := range kv.All() {
		if normalizeKey(p.Key(kv.schema)) == target {
			return p.Value(kv.schema), true
		}
	}
	return "", false
}

// AllValues returns every value whose pair's decoded key is canonically
// equivalent to key, in sequence order.
func (kv *KeyValuePairs) AllValues(key string) []string {
	target := normalizeKey(key)
	var out []string
	for _, p := range kv.All() {
		if normalizeKey(p.Key(kv.schema)) == target {
			out = append(out, p.Value(kv.schema))
		}
	}
	return out
}

func (kv *KeyValuePairs) encodeComponent(s string, set ascii.Set) []byte {
	if kv.schema.decodePlusAsSpace {
		return pct.EncodeForm(nil, []byte(s), set)
	}
	return pct.Encode([]byte(s), set)
}

func (kv *KeyValuePairs) encodePair(key, value string) []byte {
	out := kv.encodeComponent(key, kv.schema.keyEncodeSet)
	out = append(out, kv.schema.preferredKVDelim)
	out = append(out, kv.encodeComponent(value, kv.schema.valueEncodeSet)...)
	return out
}

// spliceLogicalRaw replaces the logical (non-empty-pair) range
// [startLogical, endLogical) with newRawSegments, already-encoded raw
// bytes, applying these positional rules:
//   - a range starting and ending at the very front (a pure insertion at
//     start_index) also consumes any leading empty pairs;
//   - the boundary one past the last replaced logical pair always lands on
//     the next logical pair's raw index (or the body's end), so any empty
//     pairs interspersed within the replaced span are dropped with it;
//   - the end of the list gets no special treatment: no trailing delimiter
//     is reused, an insertion at the end goes after any trailing empty
//     pairs, and a non-empty range that reaches the end drops every
//     trailing empty pair.
func (kv *KeyValuePairs) spliceLogicalRaw(startLogical, endLogical int, newRawSegments [][]byte) {
	raw := kv.allPairsRaw()
	idxs := kv.nonEmptyRawIdx(raw)
	n := len(idxs)

	var rawStart, rawEnd int
	if startLogical == endLogical && startLogical == 0 {
		rawStart = 0
	} else if startLogical < n {
		rawStart = idxs[startLogical]
	} else {
		rawStart = len(raw)
	}
	if endLogical < n {
		rawEnd = idxs[endLogical]
	} else {
		rawEnd = len(raw)
	}

	next := make([][]byte, 0, len(raw)-(rawEnd-rawStart)+len(newRawSegments))
	next = append(next, raw[:rawStart]...)
	next = append(next, newRawSegments...)
	next = append(next, raw[rawEnd:]...)
	kv.commit(next)
}

// commit writes next (the full ordered raw-pair list, empties included) back
// into the URL's storage as this component's new contents.
func (kv *KeyValuePairs) commit(next [][]byte) {
	rs := kv.u.storage.Ranges()
	r := rs.Query
	if kv.isFragment {
		r = rs.Fragment
	}
	start, end := r.Offset, r.End()

	present := len(next) > 0
	var buf []byte
	if present {
		lead := byte('?')
		if kv.isFragment {
			lead = '#'
		}
		buf = append(buf, lead)
		for i, seg := range next {
			if i > 0 {
				buf = append(buf, kv.schema.preferredPairDelim)
			}
			buf = append(buf, seg...)
		}
	}

	kv.u.storage.ReplaceSubrange(start, end, buf, func(old storage.Header) storage.Header {
		if kv.isFragment {
			old.FragmentLen = len(buf)
			if present {
				old.Present |= storage.CompFragment
			} else {
				old.Present &^= storage.CompFragment
			}
		} else {
			old.QueryLen = len(buf)
			if present {
				old.Present |= storage.CompQuery
			} else {
				old.Present &^= storage.CompQuery
			}
		}
		return old
	})
	*kv.core = kv.u.storage
}

// ErrKVRangeOutOfBounds is returned by positional KeyValuePairs mutators
// when the given range is not a valid subrange of the current sequence.
var ErrKVRangeOutOfBounds = errors.New("weburl: key-value pair range out of bounds")

// ReplaceSubrange splices newPairs ([key,value] tuples) into the logical
// range [start, end).
func (kv *KeyValuePairs) ReplaceSubrange(start, end int, newPairs [][2]string) error {
	if err := kv.checkIdentity(); err != nil {
		return err
	}
	n := kv.Len()
	if start < 0 || end < start || end > n {
		return ErrKVRangeOutOfBounds
	}
	segs := make([][]byte, len(newPairs))
	for i, kvp := range newPairs {
		segs[i] = kv.encodePair(kvp[0], kvp[1])
	}
	kv.spliceLogicalRaw(start, end, segs)
	return nil
}

// Insert adds a single pair at logical index idx.
func (kv *KeyValuePairs) Insert(idx int, key, value string) error {
	return kv.ReplaceSubrange(idx, idx, [][2]string{{key, value}})
}

// Append adds a single pair at the end, returning its index.
func (kv *KeyValuePairs) Append(key, value string) (int, error) {
	n := kv.Len()
	if err := kv.ReplaceSubrange(n, n, [][2]string{{key, value}}); err != nil {
		return -1, err
	}
	return n, nil
}

// RemoveSubrange removes the logical range [start, end).
func (kv *KeyValuePairs) RemoveSubrange(start, end int) error {
	return kv.ReplaceSubrange(start, end, nil)
}

// RemoveAt removes the single pair at idx.
func (kv *KeyValuePairs) RemoveAt(idx int) error {
	return kv.RemoveSubrange(idx, idx+1)
}

// RemoveAllWhere removes every pair in [start, end) for which predicate
// returns true, stripping empty pairs between removed elements in the
// process (spec.md §4.9 remove_all).
func (kv *KeyValuePairs) RemoveAllWhere(start, end int, predicate func(KeyValuePair) bool) error {
	if err := kv.checkIdentity(); err != nil {
		return err
	}
	n := kv.Len()
	if start < 0 || end < start || end > n {
		return ErrKVRangeOutOfBounds
	}
	var keep [][]byte
	for i := start; i < end; i++ {
		p := kv.At(i)
		if !predicate(p) {
			keep = append(keep, p.rawBytes(kv.schema.preferredKVDelim))
		}
	}
	kv.spliceLogicalRaw(start, end, keep)
	return nil
}

// ReplaceKey rewrites the key of the pair at idx, leaving its value bytes
// untouched. If the pair had no key-value delimiter and newKey is "", the
// old (undelimited) content is repositioned as the value and a delimiter is
// inserted, per spec.md §4.9.
func (kv *KeyValuePairs) ReplaceKey(idx int, newKey string) error {
	if err := kv.checkIdentity(); err != nil {
		return err
	}
	if idx < 0 || idx >= kv.Len() {
		return ErrKVRangeOutOfBounds
	}
	p := kv.At(idx)
	newKeyEnc := kv.encodeComponent(newKey, kv.schema.keyEncodeSet)

	var newRaw []byte
	switch {
	case !p.hasDelim && newKey == "":
		newRaw = append(newKeyEnc, kv.schema.preferredKVDelim)
		newRaw = append(newRaw, p.encodedKey...)
	case p.hasDelim:
		newRaw = append(append([]byte{}, newKeyEnc...), kv.schema.preferredKVDelim)
		newRaw = append(newRaw, p.encodedValue...)
	default:
		newRaw = newKeyEnc
	}
	kv.spliceLogicalRaw(idx, idx+1, [][]byte{newRaw})
	return nil
}

// ReplaceValue rewrites the value of the pair at idx, leaving its key bytes
// untouched. A pair without a key-value delimiter gains one once the value
// becomes non-empty.
func (kv *KeyValuePairs) ReplaceValue(idx int, newValue string) error {
	if err := kv.checkIdentity(); err != nil {
		return err
	}
	if idx < 0 || idx >= kv.Len() {
		return ErrKVRangeOutOfBounds
	}
	p := kv.At(idx)
	newValEnc := kv.encodeComponent(newValue, kv.schema.valueEncodeSet)

	var newRaw []byte
	if p.hasDelim || len(newValEnc) > 0 {
		newRaw = append(append([]byte{}, p.encodedKey...), kv.schema.preferredKVDelim)
		newRaw = append(newRaw, newValEnc...)
	} else {
		newRaw = append([]byte{}, p.encodedKey...)
	}
	kv.spliceLogicalRaw(idx, idx+1, [][]byte{newRaw})
	return nil
}

// Set implements the lookup-based mutation (spec.md §4.9): if a pair with a
// canonically-equivalent key exists, its first match's value is replaced
// with newValue and every other match is removed; otherwise (key, newValue)
// is appended. Returns the index of the surviving pair.
func (kv *KeyValuePairs) Set(key, newValue string) (int, error) {
	if err := kv.checkIdentity(); err != nil {
		return -1, err
	}
	target := normalizeKey(key)
	raw := kv.allPairsRaw()
	idxs := kv.nonEmptyRawIdx(raw)

	firstLogical := -1
	removeRaw := map[int]bool{}
	for logical, ri := range idxs {
		k, _, _ := kv.parsePair(raw[ri])
		if normalizeKey(decodePairComponent(k, kv.schema)) != target {
			continue
		}
		if firstLogical == -1 {
			firstLogical = logical
		} else {
			removeRaw[ri] = true
		}
	}

	if firstLogical == -1 {
		n := kv.Len()
		if err := kv.ReplaceSubrange(n, n, [][2]string{{key, newValue}}); err != nil {
			return -1, err
		}
		return n, nil
	}

	newValEnc := kv.encodeComponent(newValue, kv.schema.valueEncodeSet)
	next := make([][]byte, 0, len(raw))
	for i, seg := range raw {
		if removeRaw[i] {
			continue
		}
		if i == idxs[firstLogical] {
			k, _, _ := kv.parsePair(seg)
			seg = append(append([]byte{}, k...), kv.schema.preferredKVDelim)
			seg = append(seg, newValEnc...)
		}
		next = append(next, seg)
	}
	kv.commit(next)
	return firstLogical, nil
}

// RemoveKey removes every pair whose decoded key is canonically equivalent
// to key.
func (kv *KeyValuePairs) RemoveKey(key string) error {
	if err := kv.checkIdentity(); err != nil {
		return err
	}
	target := normalizeKey(key)
	raw := kv.allPairsRaw()
	idxs := kv.nonEmptyRawIdx(raw)
	matches := map[int]bool{}
	for _, ri := range idxs {
		k, _, _ := kv.parsePair(raw[ri])
		if normalizeKey(decodePairComponent(k, kv.schema)) == target {
			matches[ri] = true
		}
	}
	next := make([][]byte, 0, len(raw))
	for i, seg := range raw {
		if matches[i] {
			continue
		}
		next = append(next, seg)
	}
	kv.commit(next)
	return nil
}
