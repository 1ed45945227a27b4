// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package nrf implements the requirer side of the fiveg_nrf interface.
package nrf

import (
	"net/url"

	"github.com/juju/errors"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("udr.nrf")

const (
	// Endpoint is the charm endpoint the NRF relates to.
	Endpoint = "fiveg_nrf"

	urlKey = "url"
)

// RelationReader reads the data the remote application publishes.
type RelationReader interface {
	RemoteApplicationData(endpoint string) (map[string]string, error)
}

// Requirer reads the NRF url from the fiveg_nrf relation.
type Requirer struct {
	relations RelationReader
}

// NewRequirer returns a Requirer reading relation data from relations.
func NewRequirer(relations RelationReader) *Requirer {
	return &Requirer{relations: relations}
}

// BaseURL returns the NRF url, or an empty string while the provider has
// not published a usable one.
func (r *Requirer) BaseURL() (string, error) {
	data, err := r.relations.RemoteApplicationData(Endpoint)
	if errors.IsNotFound(err) {
		return "", nil
	} else if err != nil {
		return "", errors.Trace(err)
	}
	raw := data[urlKey]
	if raw == "" {
		return "", nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		logger.Warningf("ignoring invalid NRF url %q", raw)
		return "", nil
	}
	return raw, nil
}
