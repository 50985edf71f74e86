package di

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/kbukum/dirge/errors"
)

// Inject is a handle bound to one dependency name. Place it as a field on
// a host struct and bind it with BindFields, or build it with NewInject.
type Inject[T any] struct {
	registry *Registry
	name     string
}

// NewInject binds a handle to the name derived from name by NameOf.
func NewInject[T any](r *Registry, name any) (Inject[T], error) {
	key, err := NameOf(name)
	if err != nil {
		return Inject[T]{}, err
	}
	return Inject[T]{registry: r, name: key}, nil
}

// MustInject is NewInject that panics on an invalid name.
func MustInject[T any](r *Registry, name any) Inject[T] {
	h, err := NewInject[T](r, name)
	if err != nil {
		panic(fmt.Sprintf("di: invalid injection name %v: %v", name, err))
	}
	return h
}

// Name returns the bound dependency name.
func (i Inject[T]) Name() string { return i.name }

// Bound reports whether the handle has a registry.
func (i Inject[T]) Bound() bool { return i.registry != nil }

// Get resolves the dependency. An unknown name yields an
// ATTRIBUTE_NOT_FOUND error instead of KEY_NOT_FOUND.
func (i Inject[T]) Get() (*Pending, error) {
	if i.registry == nil {
		return nil, errors.AttributeNotFound(i.name)
	}
	return resolveAttribute(i.registry, i.name)
}

// Await resolves the dependency and waits for its value.
func (i Inject[T]) Await(ctx context.Context) (T, error) {
	var zero T
	p, err := i.Get()
	if err != nil {
		return zero, err
	}
	v, err := p.Await(ctx)
	if err != nil {
		return zero, err
	}
	return cast[T](i.name, v)
}

func (i *Inject[T]) bind(r *Registry, name string) {
	i.registry = r
	i.name = name
}

type binder interface {
	bind(r *Registry, name string)
}

var binderType = reflect.TypeOf((*binder)(nil)).Elem()

func resolveAttribute(r *Registry, name string) (*Pending, error) {
	p, err := r.Resolve(name)
	if err != nil {
		if stderrors.Is(err, ErrKeyNotFound) {
			return nil, errors.AttributeNotFound(name)
		}
		return nil, err
	}
	return p, nil
}

// BindFields binds every exported Inject field of the struct host points
// to. The name comes from the `di` tag, or the field name in snake_case
// when the tag is absent. Fields tagged `di:"-"` are skipped.
func BindFields(r *Registry, host any) error {
	rv, err := structValue(host)
	if err != nil {
		return err
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		name, ok := injectName(sf)
		if !ok {
			continue
		}
		fv := rv.Field(i)
		if !fv.CanSet() {
			continue
		}
		fv.Addr().Interface().(binder).bind(r, name)
	}
	return nil
}

// Lookup resolves the dependency behind an Inject field of host by field
// name. A missing field and an unregistered dependency both yield an
// ATTRIBUTE_NOT_FOUND error.
func Lookup(r *Registry, host any, field string) (*Pending, error) {
	rv, err := structValue(host)
	if err != nil {
		return nil, err
	}
	sf, ok := rv.Type().FieldByName(field)
	if !ok {
		return nil, errors.AttributeNotFound(field)
	}
	name, ok := injectName(sf)
	if !ok {
		return nil, errors.AttributeNotFound(field)
	}
	return resolveAttribute(r, name)
}

func structValue(host any) (reflect.Value, error) {
	rv := reflect.ValueOf(host)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, errors.InvalidInput("host", fmt.Sprintf("expected a non-nil pointer to a struct, got %T", host))
	}
	return rv.Elem(), nil
}

// injectName returns the dependency name for an Inject field.
func injectName(sf reflect.StructField) (string, bool) {
	if !sf.IsExported() || !reflect.PointerTo(sf.Type).Implements(binderType) {
		return "", false
	}
	tag := strings.TrimSpace(sf.Tag.Get("di"))
	switch tag {
	case "-":
		return "", false
	case "":
		return snakeCase(sf.Name), true
	default:
		return tag, true
	}
}

// snakeCase converts a Go identifier, e.g. "HTTPClient" -> "http_client".
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
				(unicode.IsUpper(runes[i-1]) && i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
