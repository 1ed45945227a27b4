// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Command udr-operator is the charm dispatch binary. Juju runs it for every
// hook with JUJU_DISPATCH_PATH naming the hook.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo"

	"github.com/canonical/sdcore-udr-k8s-operator/internal/database"
	"github.com/canonical/sdcore-udr-k8s-operator/internal/dispatch"
	"github.com/canonical/sdcore-udr-k8s-operator/internal/hookenv"
	jujulog "github.com/canonical/sdcore-udr-k8s-operator/internal/logger"
	"github.com/canonical/sdcore-udr-k8s-operator/internal/network"
	"github.com/canonical/sdcore-udr-k8s-operator/internal/nrf"
	"github.com/canonical/sdcore-udr-k8s-operator/internal/relations"
	"github.com/canonical/sdcore-udr-k8s-operator/internal/servicepatch"
	"github.com/canonical/sdcore-udr-k8s-operator/internal/udr"
	"github.com/canonical/sdcore-udr-k8s-operator/internal/workload"
)

var logger = loggo.GetLogger("udr.cmd")

const (
	// exitErr is returned when the hook failed; Juju retries it.
	exitErr = 1
	// exitUsage is returned when the binary was invoked incorrectly.
	exitUsage = 2
	// exitPanic is returned when we exit due to an unhandled panic.
	exitPanic = 3
)

func main() {
	os.Exit(Main(os.Args, os.Getenv, os.Stderr))
}

// Main is not redundant with main(), because it provides an entry point
// for testing with arbitrary command line arguments and environment.
func Main(args []string, getenv func(string) string, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			logger.Criticalf("Unhandled panic: \n%v\n%s", r, buf)
			code = exitPanic
		}
	}()

	flags := gnuflag.NewFlagSet(filepath.Base(args[0]), gnuflag.ContinueOnError)
	flags.SetOutput(stderr)
	var dispatchPath, pebbleSocket string
	flags.StringVar(&dispatchPath, "dispatch-path", "", "hook path, overriding "+hookenv.EnvDispatchPath)
	flags.StringVar(&pebbleSocket, "pebble-socket", workload.SocketPath(udr.ContainerName), "Pebble socket of the workload container")
	if err := flags.Parse(true, args[1:]); err != nil {
		return exitUsage
	}

	env := hookEnvironment(getenv, dispatchPath)
	if err := env.Validate(); err != nil {
		fmt.Fprintf(stderr, "ERROR %v\n", err)
		return exitUsage
	}

	tools := hookenv.NewTools()
	if err := jujulog.Install(tools, loggo.INFO); err != nil {
		fmt.Fprintf(stderr, "ERROR %v\n", err)
		return exitErr
	}
	if err := run(context.Background(), env, tools, pebbleSocket); err != nil {
		logger.Errorf("%s hook failed: %v", env.HookName(), err)
		fmt.Fprintf(stderr, "ERROR %v\n", err)
		return exitErr
	}
	return 0
}

// hookEnvironment reads the hook environment, with dispatchPath taking
// precedence over JUJU_DISPATCH_PATH when set.
func hookEnvironment(getenv func(string) string, dispatchPath string) hookenv.Environment {
	env := hookenv.EnvironmentFromGetenv(getenv)
	if dispatchPath != "" {
		env.DispatchPath = dispatchPath
	}
	return env
}

func run(ctx context.Context, env hookenv.Environment, tools *hookenv.Tools, pebbleSocket string) error {
	app, err := env.ApplicationName()
	if err != nil {
		return errors.Trace(err)
	}
	container, err := workload.NewContainer(pebbleSocket)
	if err != nil {
		return errors.Trace(err)
	}

	store := relations.NewStore(tools)
	reconciler, err := udr.NewReconciler(udr.Config{
		Relations: store,
		Database:  database.NewRequirer(store),
		Registry:  nrf.NewRequirer(store),
		Container: container,
		Network:   network.NewProbe(tools),
		Status:    tools,
		Clock:     clock.WallClock,
	})
	if err != nil {
		return errors.Trace(err)
	}

	return dispatch.Dispatch(ctx, dispatch.Config{
		Hook:  env.HookName(),
		Charm: charmConfig{source: tools},
		Service: servicePatcher{
			newClient:   servicepatch.NewInClusterClient,
			namespace:   env.ModelName,
			application: app,
		},
		Database:   databaseRequester{tools: tools, application: app},
		Reconciler: reconciler,
	})
}
