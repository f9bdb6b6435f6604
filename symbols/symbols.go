// Package symbols defines the face values that memory cards are built from.
//
// A Pool is the universe of distinct symbols a deck may draw from. Pools are
// plain slices so callers can build them however they like, but every pool
// handed to the deck generator must pass Validate: symbols must be non-empty
// and distinct, otherwise a generated deck could not guarantee that each
// symbol appears exactly twice.
package symbols

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPool is returned when a pool contains empty or duplicate symbols
var ErrInvalidPool = errors.New("invalid symbol pool")

// Symbol is an opaque card face value
type Symbol string

// String returns the symbol text
func (s Symbol) String() string {
	return string(s)
}

// Pool is an ordered set of distinct symbols
type Pool []Symbol

// defaultPool mirrors the fruit faces used by the wellness app's game screen
var defaultPool = Pool{
	"🍎", "🍌", "🍇", "🍓", "🍒", "🍑",
	"🍍", "🥝", "🍋", "🍉", "🥥", "🍐",
}

// Default returns a copy of the built-in symbol pool
func Default() Pool {
	return defaultPool.Clone()
}

// New builds a pool from plain strings
func New(values ...string) Pool {
	p := make(Pool, len(values))
	for i, v := range values {
		p[i] = Symbol(v)
	}
	return p
}

// Parse builds a pool from a comma or whitespace separated list
func Parse(s string) (Pool, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	p := New(fields...)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Clone returns an independent copy of the pool
func (p Pool) Clone() Pool {
	if p == nil {
		return nil
	}
	out := make(Pool, len(p))
	copy(out, p)
	return out
}

// Len returns the number of symbols in the pool
func (p Pool) Len() int {
	return len(p)
}

// Contains reports whether the pool holds the symbol
func (p Pool) Contains(s Symbol) bool {
	for _, sym := range p {
		if sym == s {
			return true
		}
	}
	return false
}

// Validate checks that every symbol is non-empty and appears once
func (p Pool) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("%w: pool is empty", ErrInvalidPool)
	}
	seen := make(map[Symbol]struct{}, len(p))
	for i, sym := range p {
		if sym == "" {
			return fmt.Errorf("%w: empty symbol at position %d", ErrInvalidPool, i)
		}
		if _, dup := seen[sym]; dup {
			return fmt.Errorf("%w: duplicate symbol %q", ErrInvalidPool, sym)
		}
		seen[sym] = struct{}{}
	}
	return nil
}

// String joins the pool's symbols with spaces
func (p Pool) String() string {
	parts := make([]string, len(p))
	for i, sym := range p {
		parts[i] = string(sym)
	}
	return strings.Join(parts, " ")
}
