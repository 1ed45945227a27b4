// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package udr

import (
	_ "embed"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/juju/errors"

	"github.com/canonical/sdcore-udr-k8s-operator/internal/database"
)

//go:embed udrcfg.yaml.tmpl
var configTemplateText string

var configTemplate = template.Must(
	template.New("udrcfg.yaml").
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(configTemplateText),
)

// NRFInfo is what the NRF publishes.
type NRFInfo struct {
	BaseURL string
}

// PodNetworkInfo describes the pod network of the unit.
type PodNetworkInfo struct {
	IPAddress string
}

type configParams struct {
	Database database.Info
	NRF      NRFInfo
	Pod      PodNetworkInfo
	SBIPort  int
}

// RenderConfig renders the UDR configuration file. The output depends only
// on its arguments.
func RenderConfig(db database.Info, nrf NRFInfo, pod PodNetworkInfo) (string, error) {
	var buf strings.Builder
	err := configTemplate.Execute(&buf, configParams{
		Database: db,
		NRF:      nrf,
		Pod:      pod,
		SBIPort:  SBIPort,
	})
	if err != nil {
		return "", errors.Annotate(err, "rendering udr config")
	}
	return buf.String(), nil
}
