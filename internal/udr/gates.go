// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package udr

import (
	"github.com/juju/errors"

	"github.com/canonical/sdcore-udr-k8s-operator/core/status"
	"github.com/canonical/sdcore-udr-k8s-operator/internal/database"
	"github.com/canonical/sdcore-udr-k8s-operator/internal/nrf"
)

// observed collects what the gates learnt, for rendering the config.
type observed struct {
	database database.Info
	nrf      NRFInfo
	pod      PodNetworkInfo
}

// gate is a precondition of running the workload. When check fails the pass
// stops and the unit is left in the failure status.
type gate struct {
	name    string
	check   func(*observed) (bool, error)
	failure status.StatusInfo
}

// gates returns the readiness gates in evaluation order: relation topology
// first, then relation data, then the environment of the pod.
func (r *Reconciler) gates() []gate {
	return []gate{{
		name:    "database relation",
		check:   r.relationCreated(database.Endpoint),
		failure: status.NewBlocked("Waiting for the `database` relation to be created"),
	}, {
		name:    "fiveg_nrf relation",
		check:   r.relationCreated(nrf.Endpoint),
		failure: status.NewBlocked("Waiting for the `fiveg_nrf` relation to be created"),
	}, {
		name:    "database resource",
		check:   r.databaseCreated,
		failure: status.NewWaiting("Waiting for the database to be available"),
	}, {
		name:    "database data",
		check:   r.databaseInfoAvailable,
		failure: status.NewWaiting("Waiting for the database data to be available"),
	}, {
		name:    "nrf data",
		check:   r.nrfAvailable,
		failure: status.NewWaiting("Waiting for the NRF to be available"),
	}, {
		name:    "container",
		check:   r.containerReady,
		failure: status.NewWaiting("Waiting for container to be ready"),
	}, {
		name:    "storage",
		check:   r.storageAttached,
		failure: status.NewWaiting("Waiting for the storage to be attached"),
	}, {
		name:    "pod IP",
		check:   r.podIPAvailable,
		failure: status.NewWaiting("Waiting for pod IP address to be available"),
	}}
}

func (r *Reconciler) relationCreated(endpoint string) func(*observed) (bool, error) {
	return func(*observed) (bool, error) {
		return r.config.Relations.RelationExists(endpoint)
	}
}

func (r *Reconciler) databaseCreated(*observed) (bool, error) {
	return r.config.Database.IsResourceCreated()
}

func (r *Reconciler) databaseInfoAvailable(obs *observed) (bool, error) {
	info, err := r.config.Database.Info()
	if errors.IsNotFound(err) {
		return false, nil
	} else if err != nil {
		return false, errors.Trace(err)
	}
	obs.database = info
	return true, nil
}

func (r *Reconciler) nrfAvailable(obs *observed) (bool, error) {
	url, err := r.config.Registry.BaseURL()
	if err != nil || url == "" {
		return false, errors.Trace(err)
	}
	obs.nrf = NRFInfo{BaseURL: url}
	return true, nil
}

func (r *Reconciler) containerReady(*observed) (bool, error) {
	return r.config.Container.CanConnect(), nil
}

func (r *Reconciler) storageAttached(*observed) (bool, error) {
	return r.config.Container.Exists(BaseConfigPath)
}

func (r *Reconciler) podIPAvailable(obs *observed) (bool, error) {
	ip, err := r.config.Network.PodIP()
	if err != nil || ip == "" {
		return false, errors.Trace(err)
	}
	obs.pod = PodNetworkInfo{IPAddress: ip}
	return true, nil
}
