package di

import (
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"strings"

	"github.com/kbukum/dirge/errors"
)

// Identifiable is implemented by values that carry their own dependency name.
type Identifiable interface {
	Identifier() string
}

var anonymousFunc = regexp.MustCompile(`^(func)?\d+$`)

// NameOf normalizes a string, an Identifiable, a reflect.Type or a named
// function into a dependency name.
func NameOf(x any) (string, error) {
	switch v := x.(type) {
	case nil:
		return "", errors.InvalidName("nil")
	case string:
		if v == "" {
			return "", errors.InvalidName("empty name")
		}
		return v, nil
	case Identifiable:
		id := v.Identifier()
		if id == "" {
			return "", errors.InvalidName(fmt.Sprintf("%T has an empty identifier", x))
		}
		return id, nil
	case reflect.Type:
		t := v
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.Name() == "" {
			return "", errors.InvalidName(fmt.Sprintf("type %s has no name", v))
		}
		return t.Name(), nil
	}

	rv := reflect.ValueOf(x)
	if rv.Kind() == reflect.Func {
		if rv.IsNil() {
			return "", errors.InvalidName("nil function")
		}
		return funcName(rv.Pointer())
	}
	return "", errors.InvalidName(fmt.Sprintf("cannot derive a name from %T", x))
}

// funcName extracts the declared identifier from a function's symbol,
// e.g. "github.com/acme/app/deps.clock" -> "clock".
func funcName(pc uintptr) (string, error) {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "", errors.InvalidName("unknown function")
	}
	name := fn.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	if i := strings.Index(name, "["); i >= 0 {
		if j := strings.LastIndex(name, "]"); j > i {
			name = name[:i] + name[j+1:]
		}
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if name == "" || anonymousFunc.MatchString(name) {
		return "", errors.InvalidName(fmt.Sprintf("anonymous function %s cannot be named", fn.Name()))
	}
	return name, nil
}

// WellKnownNames lists the dependencies the bootstrap layer assigns into
// every application registry. Projects embed it in their own name sets.
type WellKnownNames struct {
	Config     string
	Logger     string
	Components string
	HTTPServer string
}

// Names contains the names assigned by the bootstrap layer.
var Names = WellKnownNames{
	Config:     "config",
	Logger:     "logger",
	Components: "components",
	HTTPServer: "http_server",
}
