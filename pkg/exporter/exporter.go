package exporter

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/shipengqi/reginv/pkg/inventory"
	"github.com/shipengqi/reginv/pkg/log"
	"github.com/shipengqi/reginv/pkg/progress"
	"github.com/shipengqi/reginv/pkg/sink"
)

// Source lists repositories and their images from a registry.
type Source interface {
	ListRepositories(ctx context.Context) ([]inventory.Repository, error)
	ListImages(ctx context.Context, repository string) ([]inventory.Image, error)
}

type Progress interface {
	Start(total int)
	Step(repository string)
	Stop()
}

type Summary struct {
	Repositories int
	Images       int
	Bytes        int64
}

type Exporter struct {
	source   Source
	sink     sink.Sink
	progress Progress
}

// New returns an Exporter. A nil progress reports nothing.
func New(source Source, s sink.Sink, p Progress) *Exporter {
	if p == nil {
		p = progress.Nop{}
	}
	return &Exporter{source: source, sink: s, progress: p}
}

// Run writes one record per image, in repository order and then image
// order. The first error stops the run. The sink is closed on every path.
func (e *Exporter) Run(ctx context.Context) (sum Summary, err error) {
	defer func() {
		if cerr := e.sink.Close(); cerr != nil {
			err = multierror.Append(err, errors.Wrap(cerr, "close output"))
		}
	}()

	repos, err := e.source.ListRepositories(ctx)
	if err != nil {
		return sum, err
	}
	log.Debugf("found %d repositories", len(repos))

	e.progress.Start(len(repos))
	defer e.progress.Stop()

	for _, repo := range repos {
		if err = ctx.Err(); err != nil {
			return sum, err
		}
		images, err := e.source.ListImages(ctx, repo.Name)
		if err != nil {
			return sum, err
		}
		log.Debugf("repository %s has %d images", repo.Name, len(images))
		for _, img := range images {
			r := inventory.Map(repo.Name, img)
			if err = e.sink.Write(r); err != nil {
				return sum, errors.Wrapf(err, "write record for %s", repo.Name)
			}
			sum.Images++
			sum.Bytes += r.SizeBytes
		}
		sum.Repositories++
		e.progress.Step(repo.Name)
	}
	return sum, nil
}
