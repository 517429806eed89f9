// Package config loads service configuration from struct tags.
//
// Fields are populated from an optional YAML file (with ${VAR} expansion),
// then from the environment variable named by the `env` tag. Zero-valued
// fields fall back to their `default` tag, and `required:"true"` fields
// without a default must end up non-zero. Nested structs are walked
// recursively.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Validator is implemented by config structs that need cross-field checks.
// It runs after all tags have been applied.
type Validator interface {
	Validate() error
}

// GetConfigFromEnvVars fills dest from environment variables and defaults.
func GetConfigFromEnvVars[T any](dest *T) error {
	val := reflect.ValueOf(dest).Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("config destination must be a struct, got %s", val.Kind())
	}

	fromEnv := map[string]bool{}
	if err := applyEnv(val, "", fromEnv); err != nil {
		return err
	}
	if err := applyDefaults(val, "", fromEnv); err != nil {
		var zero T
		*dest = zero
		return err
	}

	return validate(dest)
}

// GetConfig reads YAML from path and then overlays the environment. An empty
// path behaves like GetConfigFromEnvVars. With allowFileErrors, unreadable or
// unparsable files are ignored.
func GetConfig[T any](dest *T, path string, allowFileErrors bool) error {
	if path == "" {
		return GetConfigFromEnvVars(dest)
	}

	data, err := os.ReadFile(path)
	if err == nil {
		err = yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), dest)
		if err != nil {
			err = fmt.Errorf("failed to unmarshal YAML: %w", err)
		}
	} else {
		err = fmt.Errorf("failed to read config file: %w", err)
	}
	if err != nil && !allowFileErrors {
		return err
	}

	return GetConfigFromEnvVars(dest)
}

func validate[T any](dest *T) error {
	v, ok := any(*dest).(Validator)
	if !ok {
		return nil
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

func applyEnv(val reflect.Value, prefix string, fromEnv map[string]bool) error {
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field, meta := val.Field(i), typ.Field(i)
		if !meta.IsExported() {
			continue
		}
		path := prefix + meta.Name

		if field.Kind() == reflect.Struct && field.Type() != durationType {
			if err := applyEnv(field, path+".", fromEnv); err != nil {
				return err
			}
			continue
		}

		name := meta.Tag.Get("env")
		if name == "" {
			continue
		}
		raw, ok := os.LookupEnv(name)
		if !ok || raw == "" {
			continue
		}
		if err := setValue(field, raw); err != nil {
			return fmt.Errorf("env %s: %w", name, err)
		}
		fromEnv[path] = true
	}
	return nil
}

func applyDefaults(val reflect.Value, prefix string, fromEnv map[string]bool) error {
	var result error
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field, meta := val.Field(i), typ.Field(i)
		if !meta.IsExported() {
			continue
		}
		path := prefix + meta.Name

		if field.Kind() == reflect.Struct && field.Type() != durationType {
			if err := applyDefaults(field, path+".", fromEnv); err != nil {
				result = multierror.Append(result, err)
			}
			continue
		}

		if !field.IsZero() || fromEnv[path] {
			continue
		}

		def, hasDefault := meta.Tag.Lookup("default")
		if hasDefault && def != "" {
			if err := setValue(field, def); err != nil {
				result = multierror.Append(result, fmt.Errorf("default for %s: %w", path, err))
			}
			continue
		}

		if isRequired(meta.Tag.Get("required")) {
			result = multierror.Append(result, fmt.Errorf("required field env:%s / yaml:%s is missing",
				meta.Tag.Get("env"), meta.Tag.Get("yaml")))
		}
	}
	return result
}

func isRequired(tag string) bool {
	switch strings.ToLower(tag) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// setValue parses raw into field according to the field's kind.
func setValue(field reflect.Value, raw string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer %q: %w", raw, err)
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float %q: %w", raw, err)
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid bool %q: %w", raw, err)
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", field.Type())
		}
		parts := strings.Split(raw, ",")
		out := reflect.MakeSlice(field.Type(), 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = reflect.Append(out, reflect.ValueOf(p).Convert(field.Type().Elem()))
			}
		}
		field.Set(out)
	default:
		return errors.New("unsupported kind " + field.Kind().String())
	}
	return nil
}
