package ssm

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/shipengqi/reginv/pkg/awsconf"
	"github.com/shipengqi/reginv/pkg/inventory"
)

var ErrEmptyName = errors.New("parameter name is empty")

type GetParameterAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Getter reads single values from SSM Parameter Store.
type Getter struct {
	api GetParameterAPI
}

func NewGetter(api GetParameterAPI) *Getter {
	return &Getter{api: api}
}

func New(ctx context.Context, region, profile string) (*Getter, error) {
	cfg, err := awsconf.LoadConfig(ctx, region, profile)
	if err != nil {
		return nil, err
	}
	return NewGetter(ssm.NewFromConfig(cfg)), nil
}

// Get returns the decrypted value of the parameter name.
func (g *Getter) Get(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}
	out, err := g.api.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", &inventory.ServiceError{Op: "get parameter " + name, Err: err}
	}
	if out == nil || out.Parameter == nil || out.Parameter.Value == nil {
		return "", &inventory.ServiceError{Op: "get parameter " + name, Err: errors.New("response has no value")}
	}
	return aws.ToString(out.Parameter.Value), nil
}
