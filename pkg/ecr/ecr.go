package ecr

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"

	"github.com/shipengqi/reginv/pkg/awsconf"
	"github.com/shipengqi/reginv/pkg/inventory"
)

// API is the part of the ECR client the source calls.
type API interface {
	ecr.DescribeRepositoriesAPIClient
	ecr.DescribeImagesAPIClient
}

type Options struct {
	Region     string
	Profile    string
	RegistryID string
}

// Source lists repositories and images of one ECR registry.
type Source struct {
	api        API
	registryID *string
}

func NewSource(api API, registryID string) *Source {
	s := &Source{api: api}
	if registryID != "" {
		s.registryID = aws.String(registryID)
	}
	return s
}

func New(ctx context.Context, o Options) (*Source, error) {
	cfg, err := awsconf.LoadConfig(ctx, o.Region, o.Profile)
	if err != nil {
		return nil, err
	}
	return NewSource(ecr.NewFromConfig(cfg), o.RegistryID), nil
}

func (s *Source) ListRepositories(ctx context.Context) ([]inventory.Repository, error) {
	var repos []inventory.Repository
	p := ecr.NewDescribeRepositoriesPaginator(s.api, &ecr.DescribeRepositoriesInput{
		RegistryId: s.registryID,
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, &inventory.ServiceError{Op: "describe repositories", Err: err}
		}
		for _, r := range page.Repositories {
			repos = append(repos, inventory.Repository{Name: aws.ToString(r.RepositoryName)})
		}
	}
	return repos, nil
}

func (s *Source) ListImages(ctx context.Context, repository string) ([]inventory.Image, error) {
	var images []inventory.Image
	p := ecr.NewDescribeImagesPaginator(s.api, &ecr.DescribeImagesInput{
		RegistryId:     s.registryID,
		RepositoryName: aws.String(repository),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, &inventory.ServiceError{Op: "describe images", Repository: repository, Err: err}
		}
		for _, d := range page.ImageDetails {
			images = append(images, inventory.Image{
				Digest:    aws.ToString(d.ImageDigest),
				Tags:      d.ImageTags,
				SizeBytes: aws.ToInt64(d.ImageSizeInBytes),
				PushedAt:  aws.ToTime(d.ImagePushedAt),
			})
		}
	}
	return images, nil
}
