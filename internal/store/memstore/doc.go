package memstore

import (
	"reflect"
	"regexp"
	"time"

	"ledger-core/internal/store"
)

// toDoc flattens a struct into a field map keyed by its `bson` tag, the
// same shape the driver would hand back from a real collection. Only the
// primitive kinds the domain models actually use are supported.
func toDoc(value any) doc {
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	d := make(doc, v.NumField())
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		name := bsonName(field)
		if name == "" {
			continue
		}
		d[name] = toStoredValue(v.Field(i))
	}
	return d
}

func toStoredValue(fv reflect.Value) any {
	switch fv.Kind() {
	case reflect.Slice:
		out := make([]any, fv.Len())
		for i := 0; i < fv.Len(); i++ {
			out[i] = toStoredValue(fv.Index(i))
		}
		return out
	default:
		return fv.Interface()
	}
}

// fromDoc writes a field map back onto a struct pointer, converting stored
// slice-of-any values back to the field's concrete element type.
func fromDoc(d doc, out any) {
	v := reflect.ValueOf(out).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		name := bsonName(field)
		if name == "" {
			continue
		}
		stored, ok := d[name]
		if !ok || stored == nil {
			continue
		}
		setField(v.Field(i), stored)
	}
}

func setField(fv reflect.Value, stored any) {
	switch fv.Kind() {
	case reflect.Slice:
		src, ok := stored.([]any)
		if !ok {
			return
		}
		out := reflect.MakeSlice(fv.Type(), len(src), len(src))
		for i, elem := range src {
			setField(out.Index(i), elem)
		}
		fv.Set(out)
	default:
		sv := reflect.ValueOf(stored)
		if sv.Type().ConvertibleTo(fv.Type()) {
			fv.Set(sv.Convert(fv.Type()))
		}
	}
}

func bsonName(field reflect.StructField) string {
	tag := field.Tag.Get("bson")
	if tag == "" || tag == "-" {
		return ""
	}
	for i, r := range tag {
		if r == ',' {
			return tag[:i]
		}
	}
	return tag
}

func cloneDoc(d doc) doc {
	out := make(doc, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func match(d doc, f store.Filter) bool {
	if f == nil {
		return true
	}
	switch v := f.(type) {
	case store.EqFilter:
		return equalValues(d[v.Field], v.Value)
	case store.NeFilter:
		return !equalValues(d[v.Field], v.Value)
	case store.LtFilter:
		return lessValue(d[v.Field], normalizeCompare(v.Value))
	case store.NotInFilter:
		return !arrayContainsAny(d[v.Field], v.Values)
	case store.InFilter:
		return arrayContainsAny(d[v.Field], v.Values)
	case store.RegexFilter:
		return regexMatch(d[v.Field], v.Pattern)
	case store.AndFilter:
		for _, sub := range v.Filters {
			if !match(d, sub) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// normalizeCompare widens int literals to int64 so Lt filters built with
// plain int constants compare correctly against stored int64 field values.
func normalizeCompare(value any) any {
	if i, ok := value.(int); ok {
		return int64(i)
	}
	return value
}

func equalValues(a, b any) bool {
	return a == normalizeCompare(b)
}

func arrayContainsAny(field any, values []any) bool {
	arr, ok := field.([]any)
	if !ok {
		return false
	}
	for _, elem := range arr {
		for _, want := range values {
			if equalValues(elem, want) {
				return true
			}
		}
	}
	return false
}

func regexMatch(field any, pattern string) bool {
	s, ok := field.(string)
	if !ok {
		return false
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(s)
}

func mutate(d doc, m store.Mutation) doc {
	out := cloneDoc(d)
	applyMutation(out, m)
	return out
}

func applyMutation(d doc, m store.Mutation) {
	switch v := m.(type) {
	case store.IncMutation:
		cur, _ := d[v.Field].(int64)
		d[v.Field] = cur + v.By
	case store.PushMutation:
		arr, _ := d[v.Field].([]any)
		d[v.Field] = append(arr, v.Value)
	case store.PullMutation:
		arr, _ := d[v.Field].([]any)
		filtered := make([]any, 0, len(arr))
		for _, elem := range arr {
			if !equalValues(elem, v.Value) {
				filtered = append(filtered, elem)
			}
		}
		d[v.Field] = filtered
	case store.SetMutation:
		d[v.Field] = v.Value
	case store.CurrentDateMutation:
		d[v.Field] = timeNow()
	case store.CombinedMutation:
		for _, sub := range v.Mutations {
			applyMutation(d, sub)
		}
	}
}

// timeNow supplies the time CurrentDate mutations write. The recovery
// sweeper tests do not replace it; they backdate lastModified with an
// explicit Set instead.
var timeNow = func() time.Time { return time.Now().UTC() }
