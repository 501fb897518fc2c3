package config

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
)

const mask = "******"

// PrintConfig logs the effective configuration. Passwords and secrets are masked.
func PrintConfig(ctx context.Context, cfg *Config, log logger.Logger) {
	ctx = wrap.WithAction(ctx, "print_config")

	args := make([]any, 0, 64)
	collect("", reflect.ValueOf(*cfg), &args)
	log.Info(ctx, "configuration loaded", args...)
}

func collect(prefix string, v reflect.Value, args *[]any) {
	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := strings.ToLower(field.Name)
		if prefix != "" {
			name = prefix + "." + name
		}

		fv := v.Field(i)
		if fv.Kind() == reflect.Struct && fv.Type().PkgPath() != "time" {
			collect(name, fv, args)
			continue
		}

		value := fmt.Sprint(fv.Interface())
		if isSecret(field.Name) && value != "" {
			value = mask
		}
		*args = append(*args, name, value)
	}
}

func isSecret(field string) bool {
	f := strings.ToLower(field)
	return strings.Contains(f, "password") || strings.Contains(f, "secret")
}
