// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package workload drives the workload container through its Pebble API.
package workload

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/canonical/pebble/client"
	"github.com/canonical/pebble/internals/plan"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"gopkg.in/yaml.v3"
)

var logger = loggo.GetLogger("udr.workload")

// SocketPath returns the path of the Pebble socket Juju mounts into the
// charm container for the named workload container.
func SocketPath(containerName string) string {
	return "/charm/containers/" + containerName + "/pebble.socket"
}

// PebbleClient is the subset of the Pebble client API used on a container.
type PebbleClient interface {
	SysInfo() (*client.SysInfo, error)
	ListFiles(opts *client.ListFilesOptions) ([]*client.FileInfo, error)
	Pull(opts *client.PullOptions) error
	Push(opts *client.PushOptions) error
	AddLayer(opts *client.AddLayerOptions) error
	Services(opts *client.ServicesOptions) ([]*client.ServiceInfo, error)
	Replan(opts *client.ServiceOptions) (string, error)
	Restart(opts *client.ServiceOptions) (string, error)
	WaitChange(id string, opts *client.WaitChangeOptions) (*client.Change, error)
}

// Container is a workload container managed by Pebble.
type Container struct {
	client PebbleClient
}

// NewContainer returns a Container talking to the Pebble socket at path.
func NewContainer(socketPath string) (*Container, error) {
	c, err := client.New(&client.Config{Socket: socketPath})
	if err != nil {
		return nil, errors.Annotatef(err, "creating pebble client for %q", socketPath)
	}
	return NewContainerWithClient(c), nil
}

// NewContainerWithClient returns a Container using the given client.
func NewContainerWithClient(c PebbleClient) *Container {
	return &Container{client: c}
}

func isNotFound(err error) bool {
	var perr *client.Error
	if !errors.As(err, &perr) {
		return false
	}
	return perr.StatusCode == http.StatusNotFound || perr.Kind == "not-found"
}

// CanConnect reports whether Pebble in the container answers.
func (c *Container) CanConnect() bool {
	if _, err := c.client.SysInfo(); err != nil {
		logger.Debugf("cannot connect to pebble: %v", err)
		return false
	}
	return true
}

// Exists reports whether path exists in the container.
func (c *Container) Exists(path string) (bool, error) {
	_, err := c.client.ListFiles(&client.ListFilesOptions{
		Path:   path,
		Itself: true,
	})
	if isNotFound(err) {
		return false, nil
	} else if err != nil {
		return false, errors.Annotatef(err, "checking %q", path)
	}
	return true, nil
}

// Pull returns the content of the file at path. A NotFound error is
// returned if there is no such file.
func (c *Container) Pull(path string) (string, error) {
	var buf bytes.Buffer
	err := c.client.Pull(&client.PullOptions{
		Path:   path,
		Target: &buf,
	})
	if isNotFound(err) {
		return "", errors.NotFoundf("file %q", path)
	} else if err != nil {
		return "", errors.Annotatef(err, "pulling %q", path)
	}
	return buf.String(), nil
}

// Push writes content to path, creating missing parent directories.
func (c *Container) Push(path, content string) error {
	err := c.client.Push(&client.PushOptions{
		Source:   strings.NewReader(content),
		Path:     path,
		MakeDirs: true,
	})
	return errors.Annotatef(err, "pushing %q", path)
}

// HasService reports whether the plan defines the named service.
func (c *Container) HasService(name string) (bool, error) {
	services, err := c.client.Services(&client.ServicesOptions{
		Names: []string{name},
	})
	if err != nil {
		return false, errors.Annotatef(err, "listing service %q", name)
	}
	for _, svc := range services {
		if svc.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// AddOrUpdateLayer combines layer into the plan under label and replans,
// which starts enabled services that are not running. Applying the same
// layer again changes nothing.
func (c *Container) AddOrUpdateLayer(label string, layer *plan.Layer) error {
	data, err := yaml.Marshal(layer)
	if err != nil {
		return errors.Annotatef(err, "marshalling layer %q", label)
	}
	if err := c.client.AddLayer(&client.AddLayerOptions{
		Combine:   true,
		Label:     label,
		LayerData: data,
	}); err != nil {
		return errors.Annotatef(err, "adding layer %q", label)
	}
	changeID, err := c.client.Replan(&client.ServiceOptions{})
	if err != nil {
		return errors.Annotate(err, "replanning")
	}
	return errors.Annotate(c.wait(changeID), "replanning")
}

// Restart restarts the named services.
func (c *Container) Restart(names ...string) error {
	changeID, err := c.client.Restart(&client.ServiceOptions{Names: names})
	if err != nil {
		return errors.Annotatef(err, "restarting %v", names)
	}
	return errors.Annotatef(c.wait(changeID), "restarting %v", names)
}

func (c *Container) wait(changeID string) error {
	if changeID == "" {
		return nil
	}
	change, err := c.client.WaitChange(changeID, &client.WaitChangeOptions{})
	if err != nil {
		return errors.Annotatef(err, "waiting for change %s", changeID)
	}
	if change.Err != "" {
		return errors.Errorf("change %s failed: %s", changeID, change.Err)
	}
	return nil
}
