// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package charmconfig validates the options users set with `juju config`.
package charmconfig

import (
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/schema"
	"gopkg.in/juju/environschema.v1"
)

const (
	// LogLevelKey controls the verbosity of the charm's own logging.
	LogLevelKey = "log-level"

	defaultLogLevel = "INFO"
)

var configFields = environschema.Fields{
	LogLevelKey: {
		Description: "Log level of the charm itself; the workload is not affected.",
		Type:        environschema.Tstring,
		Values:      []interface{}{"TRACE", "DEBUG", "INFO", "WARNING", "ERROR"},
		Default:     defaultLogLevel,
	},
}

// Config holds the coerced charm config.
type Config struct {
	LogLevel loggo.Level
}

// Source returns the raw charm config, as reported by config-get.
type Source interface {
	ConfigGet() (map[string]interface{}, error)
}

// Read fetches the charm config from source and validates it.
func Read(source Source) (Config, error) {
	attrs, err := source.ConfigGet()
	if err != nil {
		return Config{}, errors.Annotate(err, "reading charm config")
	}
	return Parse(attrs)
}

// Parse validates raw charm config, applying defaults for unset options.
func Parse(attrs map[string]interface{}) (Config, error) {
	fields, defaults, err := configFields.ValidationSchema()
	if err != nil {
		return Config{}, errors.Trace(err)
	}
	checker := schema.FieldMap(fields, defaults)
	coerced, err := checker.Coerce(attrs, nil)
	if err != nil {
		return Config{}, errors.NewNotValid(err, "charm config")
	}
	values := coerced.(map[string]interface{})

	levelName := values[LogLevelKey].(string)
	level, ok := loggo.ParseLevel(levelName)
	if !ok {
		return Config{}, errors.NotValidf("log level %q", levelName)
	}
	return Config{LogLevel: level}, nil
}
