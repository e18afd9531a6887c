package urlbuilder

import (
	"errors"
	"slices"
	"strings"
)

var (
	// ErrHostnameAlreadySet is returned when Hostname is called more than once.
	ErrHostnameAlreadySet = errors.New("urlbuilder: hostname already set")
	// ErrMissingHostname is returned when a resource is added, or the URL built,
	// before a hostname has been set.
	ErrMissingHostname = errors.New("urlbuilder: no hostname provided")
)

// Parameter is a query parameter, rendered as Key=Value.
type Parameter struct {
	Key   string
	Value string
}

// URLBuilder accumulates a hostname, path resources and query parameters.
// Methods return the builder so that calls can be chained. A rejected call
// leaves the stored hostname, resources and parameters unchanged, and its
// error is reported by Err until the next call.
//
// A URLBuilder is not safe for concurrent use.
type URLBuilder struct {
	hostname   string
	resources  []string
	parameters []Parameter
	err        error
}

// New returns an empty builder.
func New() *URLBuilder {
	return &URLBuilder{}
}

// Host is shorthand for New().Hostname(hostname).
func Host(hostname string) *URLBuilder {
	return New().Hostname(hostname)
}

// Hostname sets the hostname. It is rejected with ErrHostnameAlreadySet if a
// hostname has already been set.
func (ub *URLBuilder) Hostname(hostname string) *URLBuilder {
	if ub.hostname != "" {
		ub.err = ErrHostnameAlreadySet
		return ub
	}
	ub.hostname = hostname
	ub.err = nil
	return ub
}

// Resource appends a path segment. Segments are rendered in call order.
func (ub *URLBuilder) Resource(segment string) *URLBuilder {
	if ub.hostname == "" {
		ub.err = ErrMissingHostname
		return ub
	}
	ub.resources = append(ub.resources, segment)
	ub.err = nil
	return ub
}

// Parameter appends a query parameter. Keys may repeat and values are not escaped.
func (ub *URLBuilder) Parameter(key string, value string) *URLBuilder {
	ub.parameters = append(ub.parameters, Parameter{Key: key, Value: value})
	ub.err = nil
	return ub
}

// Err returns the error from the most recent Hostname, Resource or Parameter
// call, or nil if it succeeded.
func (ub *URLBuilder) Err() error {
	return ub.err
}

// HostnameValue returns the stored hostname, or the empty string if none is set.
func (ub *URLBuilder) HostnameValue() string {
	return ub.hostname
}

func (ub *URLBuilder) Resources() []string {
	return slices.Clone(ub.resources)
}

func (ub *URLBuilder) Parameters() []Parameter {
	return slices.Clone(ub.parameters)
}

// Build renders the URL as hostname[/resource...][?key=value&...]. It fails
// with ErrMissingHostname only when no hostname is set.
func (ub *URLBuilder) Build() (string, error) {
	if ub.hostname == "" {
		return "", ErrMissingHostname
	}
	var sb strings.Builder
	sb.WriteString(ub.hostname)
	for _, r := range ub.resources {
		sb.WriteByte('/')
		sb.WriteString(r)
	}
	for i, p := range ub.parameters {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(p.Key)
		sb.WriteByte('=')
		sb.WriteString(p.Value)
	}
	return sb.String(), nil
}

func (ub *URLBuilder) String() string {
	s, err := ub.Build()
	if err != nil {
		return ""
	}
	return s
}
