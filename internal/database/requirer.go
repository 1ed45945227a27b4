// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package database implements the requirer side of the mongodb_client
// interface: it asks the provider for a database and reads back the
// credentials it publishes.
package database

import (
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/schema"

	"github.com/canonical/sdcore-udr-k8s-operator/core/relation"
)

var logger = loggo.GetLogger("udr.database")

const (
	// Endpoint is the charm endpoint the database relates to.
	Endpoint = "database"

	// Name is the database requested from the provider.
	Name = "free5gc"

	databaseKey = "database"
	usernameKey = "username"
	passwordKey = "password"
	urisKey     = "uris"
)

// Info holds the credentials published by the database provider.
type Info struct {
	Username string
	Password string
	// URIs is the comma separated list of connection URIs.
	URIs string
}

var infoChecker = schema.FieldMap(schema.Fields{
	usernameKey: schema.NonEmptyString(usernameKey),
	passwordKey: schema.NonEmptyString(passwordKey),
	urisKey:     schema.NonEmptyString(urisKey),
}, nil)

// RelationReader reads the data the remote application publishes.
type RelationReader interface {
	RemoteApplicationData(endpoint string) (map[string]string, error)
}

// Requirer reads the database relation.
type Requirer struct {
	relations RelationReader
}

// NewRequirer returns a Requirer reading relation data from relations.
func NewRequirer(relations RelationReader) *Requirer {
	return &Requirer{relations: relations}
}

func (r *Requirer) remoteData() (map[string]string, error) {
	data, err := r.relations.RemoteApplicationData(Endpoint)
	if errors.IsNotFound(err) {
		return map[string]string{}, nil
	} else if err != nil {
		return nil, errors.Trace(err)
	}
	return data, nil
}

// IsResourceCreated reports whether the provider has created the requested
// database, which it signals by publishing a username and password.
func (r *Requirer) IsResourceCreated() (bool, error) {
	data, err := r.remoteData()
	if err != nil {
		return false, errors.Trace(err)
	}
	return data[usernameKey] != "" && data[passwordKey] != "", nil
}

// Info returns the database credentials. A NotFound error is returned until
// the provider has published all of them.
func (r *Requirer) Info() (Info, error) {
	data, err := r.remoteData()
	if err != nil {
		return Info{}, errors.Trace(err)
	}
	attrs := make(map[string]interface{}, len(data))
	for k, v := range data {
		attrs[k] = v
	}
	coerced, err := infoChecker.Coerce(attrs, nil)
	if err != nil {
		return Info{}, errors.NewNotFound(err, "database data")
	}
	values := coerced.(map[string]interface{})
	return Info{
		Username: values[usernameKey].(string),
		Password: values[passwordKey].(string),
		URIs:     values[urisKey].(string),
	}, nil
}

// RequestTools is the subset of hook tools used to request a database.
type RequestTools interface {
	IsLeader() (bool, error)
	RelationIDs(endpoint string) ([]relation.ID, error)
	RelationGet(id relation.ID, app string) (map[string]string, error)
	RelationSetApp(id relation.ID, settings map[string]string) error
}

// RequestDatabase asks the provider on every database relation for the
// database, unless already asked. Only the leader writes application data,
// so other units do nothing.
func RequestDatabase(tools RequestTools, localApp string) error {
	leader, err := tools.IsLeader()
	if err != nil {
		return errors.Trace(err)
	}
	if !leader {
		return nil
	}
	ids, err := tools.RelationIDs(Endpoint)
	if err != nil {
		return errors.Trace(err)
	}
	for _, id := range ids {
		local, err := tools.RelationGet(id, localApp)
		if err != nil {
			return errors.Annotatef(err, "reading local data on %s", id)
		}
		if local[databaseKey] == Name {
			continue
		}
		logger.Infof("requesting database %q on %s", Name, id)
		if err := tools.RelationSetApp(id, map[string]string{databaseKey: Name}); err != nil {
			return errors.Annotatef(err, "requesting database on %s", id)
		}
	}
	return nil
}
