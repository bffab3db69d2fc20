package script

import (
	"context"
	"fmt"
	"reflect"

	"github.com/pkg/errors"

	"github.com/withObsrvr/procctl/pkg/common/types"
	"github.com/withObsrvr/procctl/pkg/processor/base"
)

// ConstructorPrefix is prepended to a class name to find its constructor in a script.
const ConstructorPrefix = "New"

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type module struct {
	unit *unit
}

// Class evaluates the constructor New<name> exported by the module.
func (m *module) Class(name string) (base.Constructor, error) {
	symbol := m.unit.pkg + "." + ConstructorPrefix + name
	v, err := m.unit.interp.Eval(symbol)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", symbol, err, base.ErrNoClass)
	}
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s is not a function: %w", symbol, base.ErrNoClass)
	}
	t := v.Type()
	if t.NumIn() != 0 || t.NumOut() == 0 || t.NumOut() > 2 {
		return nil, fmt.Errorf("%s must be func() (ProcessFunc[, error]), got %s: %w", symbol, t, base.ErrNoClass)
	}
	if t.NumOut() == 2 && !t.Out(1).Implements(errorType) {
		return nil, fmt.Errorf("%s second result must be error, got %s: %w", symbol, t.Out(1), base.ErrNoClass)
	}

	return func() (types.Processor, error) {
		return instantiate(symbol, v)
	}, nil
}

func instantiate(symbol string, ctor reflect.Value) (types.Processor, error) {
	results := ctor.Call(nil)
	if len(results) == 2 && !results[1].IsNil() {
		if e, ok := results[1].Interface().(error); ok && e != nil {
			return nil, errors.Wrapf(e, "%s", symbol)
		}
	}
	fn, err := processFunc(results[0])
	if err != nil {
		return nil, errors.Wrapf(err, "%s", symbol)
	}
	return NewProcessor(symbol, fn), nil
}

// processFunc adapts the constructor result into a ProcessFunc.
func processFunc(v reflect.Value) (ProcessFunc, error) {
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, errors.New("constructor returned no process function")
	}
	if fn, ok := v.Interface().(func(context.Context, []byte) ([]byte, error)); ok {
		return fn, nil
	}
	t := v.Type()
	if t.NumIn() != 2 || t.NumOut() != 2 || !t.Out(1).Implements(errorType) {
		return nil, errors.Errorf("process function has signature %s", t)
	}
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		out := v.Call([]reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(payload)})
		if e, ok := out[1].Interface().(error); ok && e != nil {
			return nil, e
		}
		b, _ := out[0].Interface().([]byte)
		return b, nil
	}, nil
}
