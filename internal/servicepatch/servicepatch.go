// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package servicepatch exposes the workload ports through a Kubernetes
// Service named after the application.
package servicepatch

import (
	"context"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	core "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	meta "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

var logger = loggo.GetLogger("udr.servicepatch")

const appNameLabel = "app.kubernetes.io/name"

// Port is a TCP port exposed by the service.
type Port struct {
	Name string
	Port int32
}

// Config describes the service to ensure.
type Config struct {
	Client      kubernetes.Interface
	Namespace   string
	Application string
	Ports       []Port
}

// Validate returns an error if the config cannot be used.
func (config Config) Validate() error {
	if config.Client == nil {
		return errors.NotValidf("nil Client")
	}
	if config.Namespace == "" {
		return errors.NotValidf("empty Namespace")
	}
	if config.Application == "" {
		return errors.NotValidf("empty Application")
	}
	if len(config.Ports) == 0 {
		return errors.NotValidf("empty Ports")
	}
	return nil
}

// NewInClusterClient returns a client for the cluster the charm runs in.
func NewInClusterClient() (kubernetes.Interface, error) {
	cfg, err := rest.InClusterConfig()
	if err != nil {
		return nil, errors.Annotate(err, "loading in-cluster config")
	}
	client, err := kubernetes.NewForConfig(cfg)
	return client, errors.Trace(err)
}

func serviceSpec(config Config) *core.Service {
	ports := make([]core.ServicePort, 0, len(config.Ports))
	for _, p := range config.Ports {
		ports = append(ports, core.ServicePort{
			Name:       p.Name,
			Port:       p.Port,
			TargetPort: intstr.FromInt32(p.Port),
			Protocol:   core.ProtocolTCP,
		})
	}
	return &core.Service{
		ObjectMeta: meta.ObjectMeta{
			Name:      config.Application,
			Namespace: config.Namespace,
			Labels:    map[string]string{appNameLabel: config.Application},
		},
		Spec: core.ServiceSpec{
			Type:     core.ServiceTypeClusterIP,
			Selector: map[string]string{appNameLabel: config.Application},
			Ports:    ports,
		},
	}
}

// mergeStrings returns the union of base and overrides, with overrides
// winning on conflicting keys.
func mergeStrings(base, overrides map[string]string) map[string]string {
	if len(base) == 0 && len(overrides) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// Ensure creates the service, or updates it in place if it already exists.
func Ensure(ctx context.Context, config Config) error {
	if err := config.Validate(); err != nil {
		return errors.Trace(err)
	}
	spec := serviceSpec(config)
	api := config.Client.CoreV1().Services(config.Namespace)

	// Set any immutable fields if the service already exists.
	existing, err := api.Get(ctx, spec.Name, meta.GetOptions{})
	if err == nil {
		spec.Spec.ClusterIP = existing.Spec.ClusterIP
		spec.ObjectMeta.ResourceVersion = existing.ObjectMeta.ResourceVersion
		spec.Labels = mergeStrings(existing.Labels, spec.Labels)
		spec.Annotations = mergeStrings(existing.Annotations, spec.Annotations)
	} else if !k8serrors.IsNotFound(err) {
		return errors.Annotatef(err, "getting service %q", spec.Name)
	}

	_, err = api.Update(ctx, spec, meta.UpdateOptions{})
	if k8serrors.IsNotFound(err) {
		_, err = api.Create(ctx, spec, meta.CreateOptions{})
		if err == nil {
			logger.Infof("created service %q", spec.Name)
		}
		return errors.Annotatef(err, "creating service %q", spec.Name)
	}
	if err != nil {
		return errors.Annotatef(err, "updating service %q", spec.Name)
	}
	logger.Debugf("updated service %q", spec.Name)
	return nil
}
