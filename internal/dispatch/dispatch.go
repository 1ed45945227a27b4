// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package dispatch maps the hook Juju dispatched the charm for onto the
// actions the charm takes.
package dispatch

import (
	"context"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/canonical/sdcore-udr-k8s-operator/core/status"
)

var logger = loggo.GetLogger("udr.dispatch")

// Hooks on which the Kubernetes service is (re)applied.
var servicePatchHooks = set.NewStrings("install", "upgrade-charm")

// ConfigApplier applies the charm config to the charm process.
type ConfigApplier interface {
	ApplyConfig() error
}

// ServicePatcher ensures the Kubernetes service of the application.
type ServicePatcher interface {
	PatchService(ctx context.Context) error
}

// DatabaseRequester asks the database provider for the database.
type DatabaseRequester interface {
	RequestDatabase() error
}

// Reconciler runs one reconciliation pass.
type Reconciler interface {
	Reconcile() (status.StatusInfo, error)
}

// Config holds the hook being run and the actions available to it.
type Config struct {
	Hook       string
	Charm      ConfigApplier
	Service    ServicePatcher
	Database   DatabaseRequester
	Reconciler Reconciler
}

// Validate returns an error if the config cannot be used.
func (config Config) Validate() error {
	if config.Hook == "" {
		return errors.NotValidf("empty Hook")
	}
	if config.Charm == nil {
		return errors.NotValidf("nil Charm")
	}
	if config.Service == nil {
		return errors.NotValidf("nil Service")
	}
	if config.Database == nil {
		return errors.NotValidf("nil Database")
	}
	if config.Reconciler == nil {
		return errors.NotValidf("nil Reconciler")
	}
	return nil
}

// PatchesService reports whether hook applies the Kubernetes service.
func PatchesService(hook string) bool {
	return servicePatchHooks.Contains(hook)
}

// Dispatch runs the actions for config.Hook. Every hook ends with a
// reconciliation pass, so that any change observed leads to the workload
// being brought up to date.
func Dispatch(ctx context.Context, config Config) error {
	if err := config.Validate(); err != nil {
		return errors.Trace(err)
	}
	logger.Debugf("dispatching %q", config.Hook)

	if err := config.Charm.ApplyConfig(); err != nil {
		return errors.Trace(err)
	}
	if PatchesService(config.Hook) {
		if err := config.Service.PatchService(ctx); err != nil {
			return errors.Annotate(err, "patching kubernetes service")
		}
	}
	if err := config.Database.RequestDatabase(); err != nil {
		return errors.Annotate(err, "requesting database")
	}
	info, err := config.Reconciler.Reconcile()
	if err != nil {
		return errors.Annotate(err, "reconciling")
	}
	logger.Debugf("%q done, unit is %s", config.Hook, info)
	return nil
}
