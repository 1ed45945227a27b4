// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package udr reconciles the UDR workload with the state of its relations:
// it renders the UDR configuration, deploys it into the workload container,
// keeps the Pebble service running it and reports the unit status.
package udr

import (
	"github.com/canonical/pebble/internals/plan"

	"github.com/canonical/sdcore-udr-k8s-operator/internal/database"
)

const (
	// ContainerName is the name of the workload container in metadata.yaml.
	ContainerName = "udr"

	// ServiceName is the Pebble service running the UDR, and the label of
	// the layer defining it.
	ServiceName = "udr"

	// BaseConfigPath is where the config storage is mounted.
	BaseConfigPath = "/free5gc/config"

	// ConfigPath is the UDR configuration file.
	ConfigPath = BaseConfigPath + "/udrcfg.yaml"

	// SBIPort is the port of the UDR service based interface.
	SBIPort = 29504

	binaryPath = "/free5gc/udr/udr"
)

// RelationStore reports which relations exist.
type RelationStore interface {
	RelationExists(endpoint string) (bool, error)
}

// DatabaseClient reads the database relation.
type DatabaseClient interface {
	IsResourceCreated() (bool, error)
	// Info returns a NotFound error until all credentials are available.
	Info() (database.Info, error)
}

// RegistryClient reads the NRF relation.
type RegistryClient interface {
	// BaseURL is empty until the NRF publishes its url.
	BaseURL() (string, error)
}

// NetworkProbe resolves the pod IP.
type NetworkProbe interface {
	// PodIP is empty while unknown.
	PodIP() (string, error)
}

// Container is the workload container.
type Container interface {
	CanConnect() bool
	Exists(path string) (bool, error)
	Pull(path string) (string, error)
	Push(path, content string) error
	HasService(name string) (bool, error)
	AddOrUpdateLayer(label string, layer *plan.Layer) error
	Restart(names ...string) error
}
