// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"context"

	"github.com/juju/errors"
	"k8s.io/client-go/kubernetes"

	"github.com/canonical/sdcore-udr-k8s-operator/internal/charmconfig"
	"github.com/canonical/sdcore-udr-k8s-operator/internal/database"
	jujulog "github.com/canonical/sdcore-udr-k8s-operator/internal/logger"
	"github.com/canonical/sdcore-udr-k8s-operator/internal/servicepatch"
	"github.com/canonical/sdcore-udr-k8s-operator/internal/udr"
)

// charmConfig applies the charm config to this process.
type charmConfig struct {
	source charmconfig.Source
}

// ApplyConfig is part of the dispatch.ConfigApplier interface.
func (c charmConfig) ApplyConfig() error {
	cfg, err := charmconfig.Read(c.source)
	if err != nil {
		return errors.Trace(err)
	}
	return jujulog.SetLevel(cfg.LogLevel)
}

type servicePatcher struct {
	newClient   func() (kubernetes.Interface, error)
	namespace   string
	application string
}

// PatchService is part of the dispatch.ServicePatcher interface.
func (p servicePatcher) PatchService(ctx context.Context) error {
	client, err := p.newClient()
	if err != nil {
		return errors.Trace(err)
	}
	return servicepatch.Ensure(ctx, servicepatch.Config{
		Client:      client,
		Namespace:   p.namespace,
		Application: p.application,
		Ports:       []servicepatch.Port{{Name: "sbi", Port: udr.SBIPort}},
	})
}

type databaseRequester struct {
	tools       database.RequestTools
	application string
}

// RequestDatabase is part of the dispatch.DatabaseRequester interface.
func (r databaseRequester) RequestDatabase() error {
	return database.RequestDatabase(r.tools, r.application)
}
