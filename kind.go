package sheet

import (
	"reflect"
	"time"
)

// Kind classifies a cell value. Every cell carries its kind from the moment
// it is inserted; renderers use it for decisions that do not depend on the
// registry, such as quoting text and right-aligning numbers.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindInt
	KindUint
	KindFloat
	KindBool
	KindDuration
	KindTime
	KindOther
)

var kindNames = [...]string{
	KindNull:     "null",
	KindText:     "text",
	KindInt:      "int",
	KindUint:     "uint",
	KindFloat:    "float",
	KindBool:     "bool",
	KindDuration: "duration",
	KindTime:     "time",
	KindOther:    "other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Numeric reports whether values of kind k are numbers.
func (k Kind) Numeric() bool {
	switch k {
	case KindInt, KindUint, KindFloat:
		return true
	default:
		return false
	}
}

var (
	durationType = reflect.TypeFor[time.Duration]()
	timeType     = reflect.TypeFor[time.Time]()
)

// KindOf returns the kind of v. Named types report the kind of their
// underlying type, except [time.Duration] which is [KindDuration].
func KindOf(v any) Kind {
	if v == nil {
		return KindNull
	}
	t := reflect.TypeOf(v)
	switch t {
	case durationType:
		return KindDuration
	case timeType:
		return KindTime
	}
	switch t.Kind() {
	case reflect.String:
		return KindText
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return KindUint
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.Bool:
		return KindBool
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if reflect.ValueOf(v).IsNil() {
			return KindNull
		}
	}
	return KindOther
}

// deref follows pointers until it reaches a non-pointer value. A nil pointer
// anywhere along the way yields nil.
func deref(v any) any {
	for v != nil {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer {
			return v
		}
		if rv.IsNil() {
			return nil
		}
		v = rv.Elem().Interface()
	}
	return nil
}
