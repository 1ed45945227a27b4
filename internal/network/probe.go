// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package network resolves the addresses of the unit's pod.
package network

import (
	"net/netip"

	"github.com/juju/errors"
)

const privateAddressKey = "private-address"

// UnitGetter reads unit settings.
type UnitGetter interface {
	UnitGet(key string) (string, error)
}

// Probe resolves the pod IP from the unit's private address.
type Probe struct {
	units UnitGetter
}

// NewProbe returns a Probe asking units for the private address.
func NewProbe(units UnitGetter) *Probe {
	return &Probe{units: units}
}

// PodIP returns the IPv4 address of the pod, or an empty string if Juju
// does not know it yet.
func (p *Probe) PodIP() (string, error) {
	raw, err := p.units.UnitGet(privateAddressKey)
	if err != nil {
		return "", errors.Annotate(err, "getting pod address")
	}
	if raw == "" {
		return "", nil
	}
	addr, err := netip.ParseAddr(raw)
	if err != nil || !addr.Is4() {
		return "", errors.NotValidf("pod IPv4 address %q", raw)
	}
	return addr.String(), nil
}
