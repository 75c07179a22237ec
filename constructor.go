package bootdep

import (
	"fmt"
	"reflect"
)

// invokeConstructor calls the component's constructor with the already resolved parameters and
// returns the component. Errors returned by the constructor, nil results and panics are all
// reported as ErrInstantiation naming the component type.
func invokeConstructor(t reflect.Type, constructor any, params []reflect.Value) (instance any, err error) {
	info := getConstructorInfo(reflect.TypeOf(constructor))

	defer func() {
		if p := recover(); p != nil {
			cause, ok := p.(error)
			if !ok {
				cause = fmt.Errorf("%v", p)
			}
			instance = nil
			err = &DependencyError{
				Kind:           ErrInstantiation,
				Message:        "constructor panicked",
				ReferencedType: t,
				SourceError:    cause,
			}
		}
	}()

	results := reflect.ValueOf(constructor).Call(params)

	if cause := getConstructorError(info, results); cause != nil {
		return nil, &DependencyError{
			Kind:           ErrInstantiation,
			Message:        "constructor failed",
			ReferencedType: t,
			SourceError:    cause,
		}
	}

	result := results[info.resultIndex]
	if isNilValue(result) {
		return nil, &DependencyError{
			Kind:           ErrInstantiation,
			Message:        "constructor returned nil",
			ReferencedType: t,
		}
	}
	return result.Interface(), nil
}

// getConstructorError finds the error result of a constructor call, if it has one. If no error
// is present this returns nil.
func getConstructorError(info *constructorInfo, results []reflect.Value) error {
	if !info.hasError {
		return nil
	}
	errVal := results[info.errorIndex]
	if errVal.IsNil() {
		return nil
	}
	return errVal.Interface().(error)
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// constructorSignature renders a function as "(params) results", e.g.
// "(*config.Settings, io.Writer) *app.Console". A missing constructor renders as "-".
func constructorSignature(fn any) string {
	if fn == nil {
		return "-"
	}
	fnType := reflect.TypeOf(fn)
	if fnType.Kind() != reflect.Func {
		return fnType.String()
	}
	return fmt.Sprintf("(%s) %s", joinTypes(paramTypes(fnType), ", "), joinTypes(resultTypes(fnType), ", "))
}

func paramTypes(fnType reflect.Type) []reflect.Type {
	types := make([]reflect.Type, fnType.NumIn())
	for i := range types {
		types[i] = fnType.In(i)
	}
	return types
}

func resultTypes(fnType reflect.Type) []reflect.Type {
	types := make([]reflect.Type, fnType.NumOut())
	for i := range types {
		types[i] = fnType.Out(i)
	}
	return types
}
