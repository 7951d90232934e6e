package registry

import (
	"context"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/pkg/errors"

	"github.com/shipengqi/reginv/pkg/docker/registry/client"
	"github.com/shipengqi/reginv/pkg/inventory"
)

// Source reads an inventory from a Docker Registry HTTP API v2 server.
type Source struct {
	c *client.Client
}

func NewSource(c *client.Client) *Source {
	return &Source{c: c}
}

func (s *Source) ListRepositories(ctx context.Context) ([]inventory.Repository, error) {
	names, err := s.c.Catalog(ctx)
	if err != nil {
		return nil, &inventory.ServiceError{Op: "list repositories", Err: err}
	}
	repos := make([]inventory.Repository, 0, len(names))
	for _, n := range names {
		repos = append(repos, inventory.Repository{Name: n})
	}
	return repos, nil
}

// ListImages groups the tags of repository by manifest digest. Images are
// returned in the order their first tag was listed.
func (s *Source) ListImages(ctx context.Context, repository string) ([]inventory.Image, error) {
	tags, err := s.c.Tags(ctx, repository)
	if err != nil {
		return nil, &inventory.ServiceError{Op: "list images", Repository: repository, Err: err}
	}

	var images []inventory.Image
	index := map[string]int{}
	for _, tag := range tags {
		m, digest, err := s.c.FetchManifest(ctx, repository, tag)
		if err != nil {
			return nil, &inventory.ServiceError{Op: "fetch manifest", Repository: repository, Err: err}
		}
		if i, ok := index[digest]; ok {
			images[i].Tags = append(images[i].Tags, tag)
			continue
		}
		size, err := s.imageSize(ctx, repository, m)
		if err != nil {
			return nil, &inventory.ServiceError{Op: "fetch manifest", Repository: repository, Err: err}
		}
		index[digest] = len(images)
		images = append(images, inventory.Image{
			Digest:    digest,
			Tags:      []string{tag},
			SizeBytes: size,
		})
	}
	return images, nil
}

// imageSize sizes a manifest. An index is sized by fetching every child
// manifest it lists and adding up their config and layer sizes.
func (s *Source) imageSize(ctx context.Context, repository string, m *client.Manifest) (int64, error) {
	if !m.IsIndex() {
		return m.Size(), nil
	}
	var total int64
	for _, d := range m.Manifests {
		child, _, err := s.c.FetchManifest(ctx, repository, d.Digest)
		if err != nil {
			return 0, errors.Wrapf(err, "child manifest %s", d.Digest)
		}
		total += child.Size()
	}
	return total, nil
}

// BaseURL turns a registry address such as "registry.example.com:5000" or
// "https://registry.example.com" into the URL the client talks to.
func BaseURL(addr string, insecure bool) (string, error) {
	host := strings.TrimSuffix(addr, "/")
	switch {
	case strings.HasPrefix(host, "http://"):
		host = strings.TrimPrefix(host, "http://")
		insecure = true
	case strings.HasPrefix(host, "https://"):
		host = strings.TrimPrefix(host, "https://")
	}
	if host == "" {
		return "", errors.New("registry address is empty")
	}

	var opts []name.Option
	if insecure {
		opts = append(opts, name.Insecure)
	}
	reg, err := name.NewRegistry(host, opts...)
	if err != nil {
		return "", errors.Wrapf(err, "parse registry %s", addr)
	}
	return reg.Scheme() + "://" + reg.RegistryStr(), nil
}
