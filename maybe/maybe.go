/*
Package maybe provides an option type for values which may be absent.

	module Maybe exposing (Maybe(Just,Nothing), andThen, map, withDefault, or)

A Maybe is used for record fields whose presence carries meaning, e.g. a
background which is either Nothing or Just{color, opacity}. Clients
distinguish "not set" from "set to a zero value" without resorting to
pointers or truthiness checks.

Maybe is a value type. Its zero value is Nothing, so structs with Maybe
fields are usable without initialization.

Matching follows a switch-on-matcher idiom:

	var bg Background
	switch m := rec.Background.Match(); m {
	case m.Just(&bg):
		...
	case m.Nothing():
		...
	}

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package maybe

import (
	"bytes"
	"encoding/json"
)

// Maybe is an optional value of type T.
type Maybe[T any] struct {
	value T
	tag   bool
}

// Just wraps a present value.
func Just[T any](x T) Maybe[T] {
	return Maybe[T]{value: x, tag: true}
}

// Nothing returns an absent value.
func Nothing[T any]() Maybe[T] {
	return Maybe[T]{}
}

// Of returns Just(x) if ok is set, Nothing otherwise.
func Of[T any](x T, ok bool) Maybe[T] {
	if ok {
		return Just(x)
	}
	return Nothing[T]()
}

// Match returns a matcher for use in a switch statement.
func (m Maybe[T]) Match() Matcher[T] {
	return &matcher[T]{m: m}
}

// Get unwraps m, returning the zero value of T and false for Nothing.
func (m Maybe[T]) Get() (T, bool) {
	return m.value, m.tag
}

// IsJust is true if m carries a value.
func (m Maybe[T]) IsJust() bool {
	return m.tag
}

// IsNothing is true if m is absent.
func (m Maybe[T]) IsNothing() bool {
	return !m.tag
}

// WithDefault unwraps m or returns def for Nothing.
func (m Maybe[T]) WithDefault(def T) T {
	if m.tag {
		return m.value
	}
	return def
}

// Map applies f to a present value.
func (m Maybe[T]) Map(f func(T) T) Maybe[T] {
	if m.tag {
		return Just(f(m.value))
	}
	return m
}

// Or returns m if it is present, other otherwise.
func (m Maybe[T]) Or(other Maybe[T]) Maybe[T] {
	if m.tag {
		return m
	}
	return other
}

// AndThen chains a computation which may itself fail to produce a value.
func AndThen[T, S any](f func(T) Maybe[S], x Maybe[T]) Maybe[S] {
	var v T
	switch m := x.Match(); m {
	case m.Just(&v):
		return f(v)
	case m.Nothing():
	}
	return Nothing[S]()
}

// Map applies a type-changing function to a present value.
func Map[T, S any](f func(T) S, x Maybe[T]) Maybe[S] {
	if v, ok := x.Get(); ok {
		return Just(f(v))
	}
	return Nothing[S]()
}

// --- JSON ------------------------------------------------------------------

var null = []byte("null")

// MarshalJSON encodes Nothing as null and Just(x) as x.
func (m Maybe[T]) MarshalJSON() ([]byte, error) {
	if !m.tag {
		return null, nil
	}
	return json.Marshal(m.value)
}

// UnmarshalJSON decodes null as Nothing.
func (m *Maybe[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), null) {
		*m = Nothing[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Just(v)
	return nil
}

// --- Matching --------------------------------------------------------------

// Matcher is returned by Match. Each case method returns the matcher itself
// if the case applies, and nil otherwise.
type Matcher[T any] interface {
	Just(*T) Matcher[T]
	Nothing() Matcher[T]
}

// matcher is handed out by pointer, thus matching works for non-comparable T.
type matcher[T any] struct {
	m Maybe[T]
}

func (mm *matcher[T]) Just(v *T) Matcher[T] {
	if mm.m.tag {
		if v != nil {
			*v = mm.m.value
		}
		return mm
	}
	return nil
}

func (mm *matcher[T]) Nothing() Matcher[T] {
	if !mm.m.tag {
		return mm
	}
	return nil
}
