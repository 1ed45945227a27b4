// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hookenv

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/utils/v4/exec"
	"github.com/kballard/go-shellquote"

	"github.com/canonical/sdcore-udr-k8s-operator/core/relation"
	"github.com/canonical/sdcore-udr-k8s-operator/core/status"
)

var logger = loggo.GetLogger("udr.hookenv")

// CommandRunner allows to run commands on the underlying system.
type CommandRunner interface {
	RunCommands(run exec.RunParams) (*exec.ExecResponse, error)
}

type defaultRunner struct{}

func (defaultRunner) RunCommands(run exec.RunParams) (*exec.ExecResponse, error) {
	return exec.RunCommands(run)
}

// Tools invokes the hook tools Juju puts on the PATH of a charm.
type Tools struct {
	runner CommandRunner
}

// NewTools returns Tools running hook tools as child processes.
func NewTools() *Tools {
	return NewToolsWithRunner(defaultRunner{})
}

// NewToolsWithRunner returns Tools using the given runner.
func NewToolsWithRunner(runner CommandRunner) *Tools {
	return &Tools{runner: runner}
}

// raw runs a hook tool without logging, so that it can be used to ship
// log messages themselves.
func (t *Tools) raw(tool string, args ...string) ([]byte, error) {
	command := shellquote.Join(append([]string{tool}, args...)...)
	result, err := t.runner.RunCommands(exec.RunParams{
		Commands: command,
	})
	if err != nil {
		return nil, errors.Annotatef(err, "running %s", tool)
	}
	if result.Code != 0 {
		return nil, errors.Errorf("%s failed with exit code %d: %s",
			tool, result.Code, strings.TrimSpace(string(result.Stderr)))
	}
	return result.Stdout, nil
}

func (t *Tools) run(tool string, args ...string) ([]byte, error) {
	logger.Tracef("running %s %v", tool, args)
	out, err := t.raw(tool, args...)
	if err != nil {
		return nil, errors.Trace(err)
	}
	logger.Tracef("%s output: %s", tool, out)
	return out, nil
}

func (t *Tools) runJSON(out interface{}, tool string, args ...string) error {
	data, err := t.run(tool, append([]string{"--format=json"}, args...)...)
	if err != nil {
		return errors.Trace(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Annotatef(err, "parsing %s output", tool)
	}
	return nil
}

// RelationIDs returns the ids of all relations established on endpoint.
func (t *Tools) RelationIDs(endpoint string) ([]relation.ID, error) {
	var raw []string
	if err := t.runJSON(&raw, "relation-ids", endpoint); err != nil {
		return nil, errors.Trace(err)
	}
	ids := make([]relation.ID, 0, len(raw))
	for _, s := range raw {
		id, err := relation.ParseID(s)
		if err != nil {
			return nil, errors.Trace(err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// RelationApplication returns the name of the remote application on the
// given relation. It is empty if Juju does not know it yet.
func (t *Tools) RelationApplication(id relation.ID) (string, error) {
	var app string
	if err := t.runJSON(&app, "relation-list", "--app", "-r", id.String()); err != nil {
		return "", errors.Trace(err)
	}
	return app, nil
}

// RelationGet returns the application data bag of app on the given relation.
func (t *Tools) RelationGet(id relation.ID, app string) (map[string]string, error) {
	var data map[string]string
	if err := t.runJSON(&data, "relation-get", "--app", "-r", id.String(), "-", app); err != nil {
		return nil, errors.Trace(err)
	}
	if data == nil {
		data = map[string]string{}
	}
	return data, nil
}

// RelationSetApp writes settings into the local application data bag of the
// given relation. Only the leader may do so.
func (t *Tools) RelationSetApp(id relation.ID, settings map[string]string) error {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := []string{"--app", "-r", id.String()}
	for _, k := range keys {
		args = append(args, fmt.Sprintf("%s=%s", k, settings[k]))
	}
	_, err := t.run("relation-set", args...)
	return errors.Trace(err)
}

// IsLeader reports whether the unit is the application leader.
func (t *Tools) IsLeader() (bool, error) {
	var leader bool
	if err := t.runJSON(&leader, "is-leader"); err != nil {
		return false, errors.Trace(err)
	}
	return leader, nil
}

// SetStatus sets the unit workload status. It implements status.StatusSetter.
func (t *Tools) SetStatus(info status.StatusInfo) error {
	if err := info.Validate(); err != nil {
		return errors.Trace(err)
	}
	args := []string{info.Status.String()}
	if info.Message != "" {
		args = append(args, info.Message)
	}
	_, err := t.run("status-set", args...)
	return errors.Trace(err)
}

// JujuLog writes a message to the unit's log in the Juju controller.
func (t *Tools) JujuLog(level loggo.Level, message string) error {
	_, err := t.raw("juju-log", "-l", level.String(), "--", message)
	return errors.Trace(err)
}

// UnitGet returns a unit setting such as "private-address".
func (t *Tools) UnitGet(key string) (string, error) {
	out, err := t.run("unit-get", key)
	if err != nil {
		return "", errors.Trace(err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ConfigGet returns the charm config, with unset options omitted.
func (t *Tools) ConfigGet() (map[string]interface{}, error) {
	var cfg map[string]interface{}
	if err := t.runJSON(&cfg, "config-get"); err != nil {
		return nil, errors.Trace(err)
	}
	if cfg == nil {
		cfg = map[string]interface{}{}
	}
	return cfg, nil
}
