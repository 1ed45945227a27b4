// Copyright 2015 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

/*
Package core holds the pure types the charm shares between its components:
unit workload statuses and relation identifiers.

When adding to core:

  * it's fine to import from any subpackage of core
  * but never import from internal/ or cmd/
  * no hook tool invocations, Pebble or Kubernetes calls belong here
*/
package core
