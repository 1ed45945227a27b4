// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package udr

import (
	"github.com/canonical/pebble/internals/plan"
	"github.com/kballard/go-shellquote"
)

// ServiceLayer returns the Pebble layer running the UDR on a pod with the
// given IP.
func ServiceLayer(podIP string) *plan.Layer {
	return &plan.Layer{
		Summary:     "udr layer",
		Description: "pebble config layer for udr",
		Services: map[string]*plan.Service{
			ServiceName: {
				Override: plan.ReplaceOverride,
				Startup:  plan.StartupEnabled,
				Command:  shellquote.Join(binaryPath, "-udrcfg", ConfigPath),
				Environment: map[string]string{
					"GRPC_GO_LOG_VERBOSITY_LEVEL": "99",
					"GRPC_GO_LOG_SEVERITY_LEVEL":  "info",
					"GRPC_TRACE":                  "all",
					"GRPC_VERBOSITY":              "debug",
					"MANAGED_BY_CONFIG_POD":       "true",
					"POD_IP":                      podIP,
				},
			},
		},
	}
}
