package binder

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
)

// Path creates a path parameter binder using the provided extractor, for
// example chi.URLParam. Fields are matched by their `path` tag; `path:"-"`
// and untagged fields are skipped.
//
// Supported field types are string, signed and unsigned integers and bool.
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: extractor function is nil", ErrFailedToParsePath)
		}

		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return ErrInvalidTarget
		}
		rv = rv.Elem()
		rt := rv.Type()

		bound := false
		for i := range rv.NumField() {
			field := rv.Field(i)
			sf := rt.Field(i)
			if !field.CanSet() {
				continue
			}

			name, ok := pathParamName(sf)
			if !ok {
				continue
			}

			value := extractor(r, name)
			if value == "" {
				continue
			}
			if err := setField(field, value); err != nil {
				return fmt.Errorf("%w: field %s: %v", ErrFailedToParsePath, sf.Name, err)
			}
			bound = true
		}

		if !bound {
			return ErrBinderNotApplicable
		}
		return nil
	}
}

func pathParamName(sf reflect.StructField) (string, bool) {
	tag, ok := sf.Tag.Lookup("path")
	if !ok {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return "", false
	}
	if name == "" {
		name = strings.ToLower(sf.Name)
	}
	return name, true
}

func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported type %s", field.Type())
	}
	return nil
}
