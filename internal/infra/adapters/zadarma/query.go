package zadarma

import (
	"net/url"
	"strconv"
	"strings"
)

// Pair is one rendered key=value of a flattened parameter set, unescaped.
type Pair struct {
	Key   string
	Value string
}

// Encode returns the canonical parameter string used both on the wire and
// in the signature. Sets made only of plain strings use ordinary sorted
// query encoding; anything else goes through bracket flattening.
func Encode(p Params) string {
	if allPlainStrings(p) {
		return encodePlain(p)
	}
	return joinPairs(Flatten(p))
}

func allPlainStrings(p Params) bool {
	for _, v := range p {
		if !v.IsPlainString() {
			return false
		}
	}
	return true
}

func encodePlain(p Params) string {
	var b strings.Builder
	for i, k := range p.sortedKeys() {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[k].text))
	}
	return b.String()
}

// Flatten walks p depth-first with its top-level keys sorted, producing
// bracketed keys such as a[b][0]. Duplicate rendered keys keep their first
// position and their last value.
func Flatten(p Params) []Pair {
	var acc []Pair
	for _, k := range p.sortedKeys() {
		acc = flatten([]string{k}, p[k], acc)
	}
	return dedupe(acc)
}

func flatten(path []string, v Value, acc []Pair) []Pair {
	switch v.kind {
	case KindSequence:
		for i, item := range v.items {
			acc = flatten(extend(path, strconv.Itoa(i)), item, acc)
		}
	case KindMapping:
		for _, e := range v.entries {
			acc = flatten(extend(path, e.Key), e.Value, acc)
		}
	default:
		acc = append(acc, Pair{Key: renderKey(path), Value: v.text})
	}
	return acc
}

// extend never aliases the caller's backing array.
func extend(path []string, seg string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, seg)
}

func renderKey(path []string) string {
	var b strings.Builder
	for i, seg := range path {
		if i == 0 {
			b.WriteString(seg)
			continue
		}
		b.WriteByte('[')
		b.WriteString(seg)
		b.WriteByte(']')
	}
	return b.String()
}

func dedupe(pairs []Pair) []Pair {
	seen := make(map[string]int, len(pairs))
	out := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if i, ok := seen[p.Key]; ok {
			out[i].Value = p.Value
			continue
		}
		seen[p.Key] = len(out)
		out = append(out, p)
	}
	return out
}

func joinPairs(pairs []Pair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}
