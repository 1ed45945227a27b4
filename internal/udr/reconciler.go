// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package udr

import (
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/canonical/sdcore-udr-k8s-operator/core/status"
)

var logger = loggo.GetLogger("udr.reconciler")

// Config holds the collaborators of a Reconciler.
type Config struct {
	Relations RelationStore
	Database  DatabaseClient
	Registry  RegistryClient
	Container Container
	Network   NetworkProbe
	Status    status.StatusSetter
	Clock     clock.Clock
}

// Validate returns an error if the config cannot be used.
func (config Config) Validate() error {
	if config.Relations == nil {
		return errors.NotValidf("nil Relations")
	}
	if config.Database == nil {
		return errors.NotValidf("nil Database")
	}
	if config.Registry == nil {
		return errors.NotValidf("nil Registry")
	}
	if config.Container == nil {
		return errors.NotValidf("nil Container")
	}
	if config.Network == nil {
		return errors.NotValidf("nil Network")
	}
	if config.Status == nil {
		return errors.NotValidf("nil Status")
	}
	if config.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	return nil
}

// Reconciler brings the workload in line with the observed state. It holds
// no state between passes.
type Reconciler struct {
	config Config
}

// NewReconciler returns a Reconciler using the given collaborators.
func NewReconciler(config Config) (*Reconciler, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Reconciler{config: config}, nil
}

// Reconcile runs one reconciliation pass and sets the unit status it
// arrived at, which is also returned. Unmet preconditions are reported
// through the status only; an error means a collaborator failed and no
// status was set.
func (r *Reconciler) Reconcile() (status.StatusInfo, error) {
	start := r.config.Clock.Now()
	info, err := r.reconcile()
	if err != nil {
		return status.StatusInfo{}, errors.Trace(err)
	}
	if err := r.config.Status.SetStatus(info); err != nil {
		return status.StatusInfo{}, errors.Annotate(err, "setting unit status")
	}
	logger.Infof("unit is %s (took %v)", info, r.config.Clock.Now().Sub(start))
	return info, nil
}

func (r *Reconciler) reconcile() (status.StatusInfo, error) {
	var obs observed
	for _, g := range r.gates() {
		ok, err := g.check(&obs)
		if err != nil {
			return status.StatusInfo{}, errors.Annotatef(err, "checking %s", g.name)
		}
		if !ok {
			logger.Debugf("%s not ready", g.name)
			return g.failure, nil
		}
	}

	content, err := RenderConfig(obs.database, obs.nrf, obs.pod)
	if err != nil {
		return status.StatusInfo{}, errors.Trace(err)
	}
	if err := r.deploy(content, obs.pod.IPAddress); err != nil {
		return status.StatusInfo{}, errors.Trace(err)
	}
	return status.NewActive(), nil
}

// deploy pushes the config if it changed, applies the service layer and
// restarts the service when it was already running an older config.
func (r *Reconciler) deploy(content, podIP string) error {
	container := r.config.Container

	existed, err := container.HasService(ServiceName)
	if err != nil {
		return errors.Trace(err)
	}

	pushed := false
	deployed, err := container.Pull(ConfigPath)
	if err != nil {
		logger.Debugf("no deployed config: %v", err)
	}
	if err != nil || deployed != content {
		if err := container.Push(ConfigPath, content); err != nil {
			return errors.Trace(err)
		}
		logger.Infof("pushed new config to %s", ConfigPath)
		pushed = true
	}

	if err := container.AddOrUpdateLayer(ServiceName, ServiceLayer(podIP)); err != nil {
		return errors.Trace(err)
	}

	if pushed && existed {
		if err := container.Restart(ServiceName); err != nil {
			return errors.Trace(err)
		}
		logger.Infof("restarted %s service", ServiceName)
	}
	return nil
}
