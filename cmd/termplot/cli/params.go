// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"cmp"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// FlagsFromParams returns a flag set named name whose flags write into
// the tagged fields of params, a pointer to a struct. A params type
// that cannot be bound panics: the struct is fixed at compile time.
//
//	var params statusParams
//	command := &cli.Command{
//	    Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("status", &params) },
//	    Run:   func(ctx context.Context, args []string, logger *slog.Logger) error { ... },
//	}
func FlagsFromParams(name string, params any) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if err := BindFlags(params, flagSet); err != nil {
		panic(fmt.Sprintf("cli.FlagsFromParams(%q): %v", name, err))
	}
	return flagSet
}

// BindFlags adds a flag to flagSet for every field of *params carrying
// a flag tag.
//
// A field is tagged `flag:"name"`, or `flag:"name,x"` for a one-letter
// shorthand, with optional `desc:"..."` help text and `default:"..."`
// written the way it would be typed on the command line. Field types
// are string, bool, int, float64, [time.Duration], and [slog.Level]
// (default info). Embedded structs contribute their own tagged fields.
func BindFlags(params any, flagSet *pflag.FlagSet) error {
	value := reflect.ValueOf(params)
	if value.Kind() != reflect.Pointer || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("params must be a pointer to a struct, got %T", params)
	}
	return bindStruct(value.Elem(), flagSet)
}

func bindStruct(value reflect.Value, flagSet *pflag.FlagSet) error {
	for i := range value.NumField() {
		field := value.Type().Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if err := bindStruct(value.Field(i), flagSet); err != nil {
				return fmt.Errorf("embedded %s: %w", field.Name, err)
			}
			continue
		}

		tag, ok := field.Tag.Lookup("flag")
		if !ok {
			continue
		}
		spec := flagSpec{description: field.Tag.Get("desc"), fallback: field.Tag.Get("default")}
		spec.name, spec.shorthand, _ = strings.Cut(tag, ",")

		if err := spec.bind(value.Field(i).Addr().Interface(), flagSet); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	return nil
}

// flagSpec is one field's tags.
type flagSpec struct {
	name        string
	shorthand   string
	description string
	fallback    string
}

func (s flagSpec) bind(target any, flagSet *pflag.FlagSet) error {
	var err error
	switch target := target.(type) {
	case *string:
		flagSet.StringVarP(target, s.name, s.shorthand, s.fallback, s.description)
	case *bool:
		var fallback bool
		if fallback, err = parseDefault(s.fallback, strconv.ParseBool); err == nil {
			flagSet.BoolVarP(target, s.name, s.shorthand, fallback, s.description)
		}
	case *int:
		var fallback int
		if fallback, err = parseDefault(s.fallback, strconv.Atoi); err == nil {
			flagSet.IntVarP(target, s.name, s.shorthand, fallback, s.description)
		}
	case *float64:
		var fallback float64
		parseFloat := func(text string) (float64, error) { return strconv.ParseFloat(text, 64) }
		if fallback, err = parseDefault(s.fallback, parseFloat); err == nil {
			flagSet.Float64VarP(target, s.name, s.shorthand, fallback, s.description)
		}
	case *time.Duration:
		var fallback time.Duration
		if fallback, err = parseDefault(s.fallback, time.ParseDuration); err == nil {
			flagSet.DurationVarP(target, s.name, s.shorthand, fallback, s.description)
		}
	case *slog.Level:
		level := (*levelValue)(target)
		if err = level.Set(cmp.Or(s.fallback, "info")); err == nil {
			flagSet.VarP(level, s.name, s.shorthand, s.description)
		}
	default:
		return fmt.Errorf("--%s: unsupported type %T", s.name, target)
	}
	if err != nil {
		return fmt.Errorf("default for --%s: %w", s.name, err)
	}
	return nil
}

// parseDefault parses a default tag, treating an empty tag as the zero
// value.
func parseDefault[T any](text string, parse func(string) (T, error)) (T, error) {
	if text == "" {
		var zero T
		return zero, nil
	}
	return parse(text)
}

// levelValue lets a slog.Level field be set as a flag.
type levelValue slog.Level

func (l *levelValue) String() string { return slog.Level(*l).String() }

func (l *levelValue) Set(text string) error {
	return (*slog.Level)(l).UnmarshalText([]byte(text))
}

func (l *levelValue) Type() string { return "level" }
