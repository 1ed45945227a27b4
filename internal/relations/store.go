// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package relations reads relation state through hook tools.
package relations

import (
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/canonical/sdcore-udr-k8s-operator/core/relation"
)

var logger = loggo.GetLogger("udr.relations")

// HookTools is the subset of hook tools needed to read relations.
type HookTools interface {
	RelationIDs(endpoint string) ([]relation.ID, error)
	RelationApplication(id relation.ID) (string, error)
	RelationGet(id relation.ID, app string) (map[string]string, error)
}

// Store answers questions about the relations of the unit.
type Store struct {
	tools HookTools
}

// NewStore returns a Store reading relations with tools.
func NewStore(tools HookTools) *Store {
	return &Store{tools: tools}
}

// RelationExists reports whether at least one relation is established on
// the endpoint.
func (s *Store) RelationExists(endpoint string) (bool, error) {
	ids, err := s.tools.RelationIDs(endpoint)
	if err != nil {
		return false, errors.Annotatef(err, "listing %q relations", endpoint)
	}
	return len(ids) > 0, nil
}

// Relation returns the id and remote application of the relation on
// endpoint. The endpoints of this charm have a limit of one relation, so
// any extra relation is ignored. A NotFound error is returned if there is
// no relation or its remote application is not known yet.
func (s *Store) Relation(endpoint string) (relation.ID, string, error) {
	ids, err := s.tools.RelationIDs(endpoint)
	if err != nil {
		return relation.ID{}, "", errors.Annotatef(err, "listing %q relations", endpoint)
	}
	if len(ids) == 0 {
		return relation.ID{}, "", errors.NotFoundf("%q relation", endpoint)
	}
	if len(ids) > 1 {
		logger.Warningf("%d relations on %q, using %s", len(ids), endpoint, ids[0])
	}
	id := ids[0]
	app, err := s.tools.RelationApplication(id)
	if err != nil {
		return relation.ID{}, "", errors.Annotatef(err, "reading remote application of %s", id)
	}
	if app == "" {
		return relation.ID{}, "", errors.NotFoundf("remote application of %s", id)
	}
	return id, app, nil
}

// RemoteApplicationData returns the application data published by the
// remote side of the relation on endpoint.
func (s *Store) RemoteApplicationData(endpoint string) (map[string]string, error) {
	id, app, err := s.Relation(endpoint)
	if err != nil {
		return nil, errors.Trace(err)
	}
	data, err := s.tools.RelationGet(id, app)
	if err != nil {
		return nil, errors.Annotatef(err, "reading %q data on %s", app, id)
	}
	return data, nil
}
