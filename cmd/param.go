package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shipengqi/reginv/pkg/awsconf"
	"github.com/shipengqi/reginv/pkg/ssm"
)

var stdin io.Reader = os.Stdin

type paramOptions struct {
	region  string
	profile string
}

func paramCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "param",
		Short: "Read parameters from AWS SSM Parameter Store.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	cmd.AddCommand(paramGetCommand())
	return cmd
}

func paramGetCommand() *cobra.Command {
	o := &paramOptions{}
	cmd := &cobra.Command{
		Use:   "get [NAME]",
		Short: "Print the decrypted value of one parameter.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := parameterName(args, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()
			g, err := ssm.New(ctx, o.region, o.profile)
			if err != nil {
				return err
			}
			value, err := g.Get(ctx, name)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Value: %s\n", value)
			return err
		},
	}
	cmd.Flags().SortFlags = false
	cmd.Flags().StringVar(&o.region, "region", awsconf.DefaultRegion, "AWS region of the parameter store.")
	cmd.Flags().StringVar(&o.profile, "profile", "", "AWS shared config profile.")
	return cmd
}

// parameterName takes the name from args, or prompts for it on stdin.
func parameterName(args []string, out io.Writer) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	_, _ = fmt.Fprint(out, "Enter parameter name: ")
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
