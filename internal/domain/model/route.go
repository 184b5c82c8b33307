// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"net/url"
	"strings"
)

// RouteRoot is the first segment of every distribution list route.
const RouteRoot = "distribution-lists"

// Route is the parsed form of /distribution-lists/{filter}/{id?}.
type Route struct {
	Filter Filter `json:"filter" msgpack:"filter"`
	// ID is the active list, empty when the displayer is closed
	ID string `json:"id,omitempty" msgpack:"id,omitempty"`
}

// ParseRoute parses a route path. A missing filter segment defaults to member.
func ParseRoute(path string) (Route, error) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 || segments[0] != RouteRoot {
		return Route{}, fmt.Errorf("route %q is not a distribution list route", path)
	}
	if len(segments) > 3 {
		return Route{}, fmt.Errorf("route %q has too many segments", path)
	}

	route := Route{Filter: FilterMember}
	if len(segments) > 1 && segments[1] != "" {
		filter, err := ParseFilter(segments[1])
		if err != nil {
			return Route{}, err
		}
		route.Filter = filter
	}
	if len(segments) == 3 {
		id, err := url.PathUnescape(segments[2])
		if err != nil {
			return Route{}, fmt.Errorf("route %q has an invalid id: %w", path, err)
		}
		route.ID = id
	}
	return route, nil
}

// String formats the route back into a path.
func (r Route) String() string {
	filter := r.Filter
	if filter == "" {
		filter = FilterMember
	}
	path := "/" + RouteRoot + "/" + string(filter)
	if r.ID != "" {
		path += "/" + url.PathEscape(r.ID)
	}
	return path
}
