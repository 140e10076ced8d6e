package configparser

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"
)

// LoadAndParseYaml loads the YAML file into the environment and then fills cfg
// from environment variables using `env` and `default` struct tags.
// cfg must be a pointer to a struct.
func LoadAndParseYaml(filepath string, cfg any) error {
	if filepath != "" {
		// A missing config file is fine, the environment still applies.
		if err := LoadYamlFile(filepath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	return ParseEnv(cfg)
}

// ParseEnv fills the struct pointed to by cfg from environment variables.
// Supported field types: string, bool, integers, floats, time.Duration and
// nested structs (walked recursively).
func ParseEnv(cfg any) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("configparser: expected pointer to struct, got %T", cfg)
	}

	return parseStruct(v.Elem())
}

func parseStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		value := v.Field(i)

		if !value.CanSet() {
			continue
		}

		// Recurse into nested config sections
		if value.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Duration(0)) {
			if field.Tag.Get("env") == "" {
				if err := parseStruct(value); err != nil {
					return err
				}
				continue
			}
		}

		envKey := field.Tag.Get("env")
		if envKey == "" {
			continue
		}

		raw := os.Getenv(envKey)
		if raw == "" {
			raw = field.Tag.Get("default")
		}
		if raw == "" {
			continue
		}

		if err := setField(value, raw); err != nil {
			return fmt.Errorf("configparser: field %s (%s): %w", field.Name, envKey, err)
		}
	}

	return nil
}

func setField(value reflect.Value, raw string) error {
	// time.Duration needs its own parser before the generic int case
	if value.Type() == reflect.TypeOf(time.Duration(0)) {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		value.SetInt(int64(d))
		return nil
	}

	switch value.Kind() {
	case reflect.String:
		value.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		value.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		value.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return err
		}
		value.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		value.SetFloat(f)
	default:
		return fmt.Errorf("unsupported type %s", value.Type())
	}

	return nil
}
