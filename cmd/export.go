package cmd

import (
	"context"
	"io"
	"os"

	"github.com/inhies/go-bytesize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/shipengqi/reginv/pkg/config"
	"github.com/shipengqi/reginv/pkg/docker/registry"
	"github.com/shipengqi/reginv/pkg/docker/registry/client"
	"github.com/shipengqi/reginv/pkg/ecr"
	"github.com/shipengqi/reginv/pkg/exporter"
	"github.com/shipengqi/reginv/pkg/filelock"
	"github.com/shipengqi/reginv/pkg/inventory"
	"github.com/shipengqi/reginv/pkg/log"
	"github.com/shipengqi/reginv/pkg/progress"
	"github.com/shipengqi/reginv/pkg/sink"
)

type exportOptions struct {
	configFile string
	conf       *config.Config
}

func addExportFlags(flagSet *pflag.FlagSet, o *exportOptions) {
	c := o.conf
	flagSet.StringVarP(&o.configFile, "config", "c", _defaultConfigFile, "Config file path.")
	flagSet.StringVarP(&c.Backend, "backend", "b", c.Backend, "Registry backend: ecr or registry.")
	flagSet.StringVarP(&c.Format, "format", "f", c.Format, "Output format: line or csv.")
	flagSet.StringVarP(&c.File, "file", "o", c.File, "Output file for the csv format.")
	flagSet.BoolVar(&c.Progress, "progress", c.Progress, "Show a progress bar on stderr.")
	flagSet.StringVar(&c.ECR.Region, "region", c.ECR.Region, "AWS region of the ECR registry.")
	flagSet.StringVar(&c.ECR.Profile, "profile", c.ECR.Profile, "AWS shared config profile.")
	flagSet.StringVar(&c.ECR.RegistryID, "registry-id", c.ECR.RegistryID, "AWS account id of the ECR registry.")
	flagSet.StringVar(&c.Registry.URL, "registry", c.Registry.URL, "Docker registry address.")
	flagSet.StringVarP(&c.Registry.Username, "username", "u", c.Registry.Username, "Docker registry username.")
	flagSet.StringVarP(&c.Registry.Password, "password", "p", c.Registry.Password, "Docker registry password.")
	flagSet.BoolVar(&c.Registry.Insecure, "insecure", c.Registry.Insecure, "Use http and skip TLS verification.")
}

func exportCommand() *cobra.Command {
	o := &exportOptions{conf: config.Default()}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every image of every repository.",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := resolveConfig(cmd.Flags(), o)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			return runExport(ctx, conf, cmd.OutOrStdout())
		},
	}
	cmd.Flags().SortFlags = false
	addExportFlags(cmd.Flags(), o)
	return cmd
}

// resolveConfig applies the config file and then every flag the user set.
func resolveConfig(flags *pflag.FlagSet, o *exportOptions) (*config.Config, error) {
	conf, err := config.Load(o.configFile, flags.Changed("config"))
	if err != nil {
		return nil, err
	}
	overrides := map[string]func(){
		"backend":     func() { conf.Backend = o.conf.Backend },
		"format":      func() { conf.Format = o.conf.Format },
		"file":        func() { conf.File = o.conf.File },
		"progress":    func() { conf.Progress = o.conf.Progress },
		"region":      func() { conf.ECR.Region = o.conf.ECR.Region },
		"profile":     func() { conf.ECR.Profile = o.conf.ECR.Profile },
		"registry-id": func() { conf.ECR.RegistryID = o.conf.ECR.RegistryID },
		"registry":    func() { conf.Registry.URL = o.conf.Registry.URL },
		"username":    func() { conf.Registry.Username = o.conf.Registry.Username },
		"password":    func() { conf.Registry.Password = o.conf.Registry.Password },
		"insecure":    func() { conf.Registry.Insecure = o.conf.Registry.Insecure },
	}
	flags.Visit(func(f *pflag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply()
		}
	})
	if err = conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func runExport(ctx context.Context, conf *config.Config, stdout io.Writer) error {
	src, err := newSource(ctx, conf)
	if err != nil {
		return err
	}

	if conf.Format == sink.FormatCSV {
		lock := conf.File + _lockSuffix
		if filelock.Check(lock) {
			return errors.Wrapf(filelock.ErrLocked,
				"an export into %s is already running, remove %s if it is stale", conf.File, lock)
		}
		if err = filelock.Lock(lock); err != nil {
			return errors.Wrap(err, "lock output file")
		}
		defer func() {
			if err := filelock.UnLock(lock); err != nil {
				log.Warnf("unlock %s: %v", lock, err)
			}
		}()
	}

	out, err := sink.New(conf.Format, conf.File, stdout)
	if err != nil {
		return err
	}

	var p exporter.Progress
	if conf.Progress {
		p = progress.NewBars(os.Stderr)
	}
	sum, err := exporter.New(src, out, p).Run(ctx)
	if err != nil {
		return err
	}
	log.Infof("exported %d images from %d repositories, %s in total",
		sum.Images, sum.Repositories, bytesize.New(float64(sum.Bytes)).String())
	return nil
}

func newSource(ctx context.Context, conf *config.Config) (exporter.Source, error) {
	if conf.Backend == config.BackendRegistry {
		base, err := registry.BaseURL(conf.Registry.URL, conf.Registry.Insecure)
		if err != nil {
			return nil, err
		}
		c := client.New()
		c.SetHostURL(base)
		c.SetSecureSkip(conf.Registry.Insecure)
		c.SetUsername(conf.Registry.Username)
		c.SetPassword(conf.Registry.Password)
		if err = c.Ping(ctx); err != nil {
			return nil, &inventory.ServiceError{Op: "ping registry " + base, Err: err}
		}
		log.Debugf("registry %s ready", base)
		return registry.NewSource(c), nil
	}
	return ecr.New(ctx, ecr.Options{
		Region:     conf.ECR.Region,
		Profile:    conf.ECR.Profile,
		RegistryID: conf.ECR.RegistryID,
	})
}
