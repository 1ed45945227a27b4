// Copyright 2017 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package relation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// ID identifies a relation the way hook tools do: "<endpoint>:<number>".
type ID struct {
	Endpoint string
	Number   int
}

// ParseID parses a relation id such as "database:3".
func ParseID(s string) (ID, error) {
	endpoint, num, ok := strings.Cut(s, ":")
	if !ok || endpoint == "" {
		return ID{}, errors.NotValidf("relation id %q", s)
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 0 {
		return ID{}, errors.NotValidf("relation id %q", s)
	}
	return ID{Endpoint: endpoint, Number: n}, nil
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return fmt.Sprintf("%s:%d", id.Endpoint, id.Number)
}
