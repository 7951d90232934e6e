package inventory

import (
	"fmt"
	"strings"
	"time"
)

const (
	// Untagged replaces the tag of an image that carries no tags.
	Untagged = "<untagged>"
	// UnknownPushedAt replaces a push time the registry did not report.
	UnknownPushedAt = "<unknown>"

	_tagSeparator = ","
)

type Repository struct {
	Name string
}

// Image is the raw descriptor a registry returns for one stored image.
type Image struct {
	Digest    string
	Tags      []string
	SizeBytes int64
	PushedAt  time.Time
}

// Record is the flat form of an Image written to a sink.
type Record struct {
	Repository string
	// Tag is the first tag in registry order.
	Tag string
	// Tags holds every tag joined by a comma.
	Tags      string
	SizeBytes int64
	PushedAt  string
}

func Map(repository string, img Image) Record {
	tags := make([]string, 0, len(img.Tags))
	for _, t := range img.Tags {
		if t != "" {
			tags = append(tags, t)
		}
	}

	r := Record{
		Repository: repository,
		Tag:        Untagged,
		Tags:       Untagged,
		SizeBytes:  img.SizeBytes,
		PushedAt:   UnknownPushedAt,
	}
	if len(tags) > 0 {
		r.Tag = tags[0]
		r.Tags = strings.Join(tags, _tagSeparator)
	}
	if r.SizeBytes < 0 {
		r.SizeBytes = 0
	}
	if !img.PushedAt.IsZero() {
		r.PushedAt = img.PushedAt.UTC().Format(time.RFC3339)
	}
	return r
}

// ServiceError is returned when a call to a remote registry or parameter
// store fails.
type ServiceError struct {
	Op         string
	Repository string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Repository != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Repository, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
