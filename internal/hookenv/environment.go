// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hookenv

import (
	"path"

	"github.com/juju/errors"
	"github.com/juju/names/v5"
)

// Environment variables Juju sets for every charm invocation.
const (
	EnvUnitName     = "JUJU_UNIT_NAME"
	EnvModelName    = "JUJU_MODEL_NAME"
	EnvDispatchPath = "JUJU_DISPATCH_PATH"
	EnvCharmDir     = "JUJU_CHARM_DIR"
)

// Environment describes the hook the charm was dispatched for.
type Environment struct {
	UnitName     string
	ModelName    string
	DispatchPath string
	CharmDir     string
}

// EnvironmentFromGetenv reads the hook environment using getenv, which is
// normally os.Getenv.
func EnvironmentFromGetenv(getenv func(string) string) Environment {
	return Environment{
		UnitName:     getenv(EnvUnitName),
		ModelName:    getenv(EnvModelName),
		DispatchPath: getenv(EnvDispatchPath),
		CharmDir:     getenv(EnvCharmDir),
	}
}

// Validate checks that the environment describes a hook execution.
func (e Environment) Validate() error {
	if !names.IsValidUnit(e.UnitName) {
		return errors.NotValidf("unit name %q", e.UnitName)
	}
	if e.ModelName == "" {
		return errors.NotValidf("empty model name")
	}
	if e.DispatchPath == "" {
		return errors.NotValidf("empty dispatch path")
	}
	return nil
}

// ApplicationName returns the name of the application the unit belongs to.
func (e Environment) ApplicationName() (string, error) {
	app, err := names.UnitApplication(e.UnitName)
	return app, errors.Trace(err)
}

// HookName returns the name of the dispatched hook, eg "udr-pebble-ready"
// for a dispatch path of "hooks/udr-pebble-ready".
func (e Environment) HookName() string {
	return path.Base(e.DispatchPath)
}
