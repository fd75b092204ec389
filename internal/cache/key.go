package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

// keyDigestVersion is mixed into every digest. Changing the canonical form
// requires bumping it so old entries are never read under the new scheme.
const keyDigestVersion = "fscache/v1"

// KeyLength is the length of every derived key (hex-encoded SHA-256).
const KeyLength = sha256.Size * 2

// Canonical type tags. Each parameter is written as <tag>:<len>:<text>; a nil
// parameter carries the nil tag and no text, so it cannot collide with any
// string value, including "null" or "".
const (
	tagNil      = "n"
	tagString   = "s"
	tagBool     = "b"
	tagInt      = "i"
	tagUint     = "u"
	tagFloat    = "f"
	tagBytes    = "x"
	tagTime     = "t"
	tagStringer = "r"
	tagJSON     = "j"
)

// ErrUnsupportedParam is returned when a parameter has no canonical form.
var ErrUnsupportedParam = errors.New("unsupported cache key parameter")

//nolint:gochecknoglobals // Type lookups computed once.
var (
	timeType     = reflect.TypeOf(time.Time{})
	stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

// DeriveKey turns an ordered tuple of call parameters into a stable,
// filesystem-safe cache key. Identical tuples (same values, same order, same
// nil positions) always produce the same key.
func DeriveKey(params ...any) (string, error) {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%s;%d;", keyDigestVersion, len(params))

	for i, p := range params {
		tag, text, err := canonical(reflect.ValueOf(p))
		if err != nil {
			return "", fmt.Errorf("parameter %d: %w", i, err)
		}
		_, _ = fmt.Fprintf(h, "%s:%d:%s;", tag, len(text), text)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// MustDeriveKey is like DeriveKey but panics on unsupported parameters.
// Intended for call sites whose parameter types are fixed at compile time.
func MustDeriveKey(params ...any) string {
	key, err := DeriveKey(params...)
	if err != nil {
		panic(err)
	}
	return key
}

// canonical returns the type tag and canonical text for v.
func canonical(v reflect.Value) (string, string, error) {
	if !v.IsValid() {
		return tagNil, "", nil
	}

	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return tagNil, "", nil
		}
		v = v.Elem()
	}

	if v.Type() == timeType {
		t, _ := v.Interface().(time.Time)
		return tagTime, t.UTC().Format(time.RFC3339Nano), nil
	}

	switch v.Kind() {
	case reflect.String:
		return tagString, v.String(), nil
	case reflect.Bool:
		return tagBool, strconv.FormatBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return tagInt, strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return tagUint, strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return tagFloat, strconv.FormatFloat(v.Float(), 'g', -1, v.Type().Bits()), nil
	case reflect.Chan, reflect.Func, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedParam, v.Type())
	}

	if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
		if v.IsNil() {
			return tagNil, "", nil
		}
		return tagBytes, hex.EncodeToString(v.Bytes()), nil
	}

	if v.Type().Implements(stringerType) {
		s, _ := v.Interface().(fmt.Stringer)
		return tagStringer, s.String(), nil
	}

	if (v.Kind() == reflect.Slice || v.Kind() == reflect.Map) && v.IsNil() {
		return tagNil, "", nil
	}

	// Slices, arrays, maps and structs. encoding/json sorts map keys.
	data, err := json.Marshal(v.Interface())
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %w", ErrUnsupportedParam, v.Type(), err)
	}
	return tagJSON, string(data), nil
}
