// Package proxy provides CLI commands for the server's HTTP proxy settings.
package proxy

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rennerdo30/repoctl/internal/logging"
	"github.com/rennerdo30/repoctl/internal/metrics"
	"github.com/rennerdo30/repoctl/internal/nexus"
	"github.com/rennerdo30/repoctl/internal/nexus/model"
	"github.com/rennerdo30/repoctl/internal/nexus/serverconfig"
	"github.com/rennerdo30/repoctl/internal/util"
)

// Options wires the commands to a server.
type Options struct {
	// Connect returns the proxy handle of the configured server. It is
	// called after flags and configuration have been resolved.
	Connect func(ctx context.Context) (*serverconfig.HTTPProxy, error)
	// Metrics, when set, counts every operation.
	Metrics *metrics.Metrics
}

var (
	successColor = color.New(color.FgGreen)
	mutedColor   = color.New(color.Faint)
)

// NewCommands creates the proxy CLI commands.
func NewCommands(opts Options) *cobra.Command {
	root := &cobra.Command{
		Use:   "proxy",
		Short: "Manage the server's outbound HTTP proxy",
	}

	var showJSON bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the configured HTTP proxy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, "show", func(ctx context.Context, p *serverconfig.HTTPProxy) error {
				settings, err := p.Current(ctx)
				if err != nil {
					return err
				}
				if showJSON {
					return printJSON(cmd.OutOrStdout(), settings)
				}
				return printSettings(cmd.OutOrStdout(), settings)
			})
		},
	}
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print settings as JSON")

	var nonProxyHosts []string
	setCmd := &cobra.Command{
		Use:   "set HOST:PORT | HOST PORT",
		Short: "Point the server at an HTTP proxy",
		Long: `Point the server at an HTTP proxy.

The exclusion list is replaced by the --non-proxy-host values. Running set
without --non-proxy-host clears any exclusions stored on the server.
Configured credentials are kept.

Example:
  repoctl proxy set proxy.example.com:3128 --non-proxy-host localhost --non-proxy-host '*.internal'
  repoctl proxy set proxy.example.com 3128`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, port, err := parseTarget(args)
			if err != nil {
				return withHint(cmd, err)
			}
			return opts.run(cmd, "set", func(ctx context.Context, p *serverconfig.HTTPProxy) error {
				if err := p.SetTo(ctx, host, port, nonProxyHosts...); err != nil {
					return err
				}
				successColor.Fprintf(cmd.OutOrStdout(), "HTTP proxy set to %s\n", util.JoinHostPort(host, port))
				if len(nonProxyHosts) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "  Non-proxy hosts: %s\n", strings.Join(nonProxyHosts, ", "))
				}
				return nil
			})
		},
	}
	setCmd.Flags().StringArrayVar(&nonProxyHosts, "non-proxy-host", nil, "Host pattern that bypasses the proxy (repeatable)")

	var (
		password      string
		passwordStdin bool
		ntlmHost      string
		ntlmDomain    string
	)
	credentialsCmd := &cobra.Command{
		Use:   "credentials USERNAME",
		Short: "Set the credentials presented to the proxy",
		Long: `Set the credentials presented to the proxy.

Previous credentials are replaced entirely. A proxy target must be configured
first with 'repoctl proxy set'.

Example:
  repoctl proxy credentials svc-proxy --password-stdin < password.txt
  repoctl proxy credentials svc-proxy --password s3cret --ntlm-host ws01 --ntlm-domain CORP`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passwordStdin {
				if password != "" {
					return errors.New("--password and --password-stdin are mutually exclusive")
				}
				var err error
				if password, err = readPassword(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			return opts.run(cmd, "credentials", func(ctx context.Context, p *serverconfig.HTTPProxy) error {
				var err error
				if ntlmHost != "" || ntlmDomain != "" {
					err = p.SetNTLMCredentials(ctx, args[0], password, ntlmHost, ntlmDomain)
				} else {
					err = p.SetCredentials(ctx, args[0], password)
				}
				if err != nil {
					return err
				}
				successColor.Fprintf(cmd.OutOrStdout(), "Proxy credentials set for user '%s'\n", args[0])
				return nil
			})
		},
	}
	credentialsCmd.Flags().StringVar(&password, "password", "", "Proxy password")
	credentialsCmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the proxy password from stdin")
	credentialsCmd.Flags().StringVar(&ntlmHost, "ntlm-host", "", "NTLM workstation host")
	credentialsCmd.Flags().StringVar(&ntlmDomain, "ntlm-domain", "", "NTLM domain")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove the HTTP proxy, its exclusions and credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, "reset", func(ctx context.Context, p *serverconfig.HTTPProxy) error {
				if err := p.Reset(ctx); err != nil {
					return err
				}
				successColor.Fprintln(cmd.OutOrStdout(), "HTTP proxy removed")
				return nil
			})
		},
	}

	resolveCmd := &cobra.Command{
		Use:   "resolve URL",
		Short: "Show whether the server would proxy a request to URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := url.Parse(args[0])
			if err != nil || target.Host == "" {
				return withHint(cmd, fmt.Errorf("%w: %q is not an absolute url", util.ErrInvalidArgument, args[0]))
			}
			return opts.run(cmd, "resolve", func(ctx context.Context, p *serverconfig.HTTPProxy) error {
				settings, err := p.Current(ctx)
				if err != nil {
					return err
				}
				proxyURL, err := serverconfig.ResolveProxy(settings, target)
				if err != nil {
					return err
				}
				if proxyURL == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s -> DIRECT\n", target.Host)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> PROXY %s\n", target.Host, proxyURL.Host)
				return nil
			})
		},
	}

	root.AddCommand(showCmd, setCmd, credentialsCmd, resetCmd, resolveCmd)
	return root
}

func (o Options) run(cmd *cobra.Command, operation string, fn func(context.Context, *serverconfig.HTTPProxy) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.ContextWith(ctx, "operation", operation)

	err := o.connectAndRun(ctx, fn)
	if o.Metrics != nil {
		o.Metrics.RecordOperation(operation, err)
	}
	if err != nil {
		logging.FromContext(ctx).Debug("operation failed", "error", err)
	}
	return withHint(cmd, err)
}

func (o Options) connectAndRun(ctx context.Context, fn func(context.Context, *serverconfig.HTTPProxy) error) error {
	if o.Connect == nil {
		return errors.New("no server connection configured")
	}
	p, err := o.Connect(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, p)
}

// withHint appends the next step to errors the user can fix.
func withHint(cmd *cobra.Command, err error) error {
	switch {
	case err == nil:
		return nil
	case util.IsInvalidArgument(err):
		return fmt.Errorf("%w (see '%s --help')", err, cmd.CommandPath())
	case util.IsNotConfigured(err):
		return fmt.Errorf("%w (run 'repoctl proxy set' first)", err)
	}

	switch nexus.StatusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w (check --username and --password)", err)
	}
	return err
}

func parseTarget(args []string) (string, int, error) {
	if len(args) == 1 {
		host, port, err := util.SplitHostPort(args[0])
		if err != nil {
			return "", 0, fmt.Errorf("%w: proxy target %q: %v", util.ErrInvalidArgument, args[0], err)
		}
		return host, port, nil
	}

	port, err := util.ParsePort(args[1])
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", util.ErrInvalidArgument, err)
	}
	return args[0], port, nil
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printSettings(w io.Writer, settings *model.RemoteHTTPProxySettings) error {
	if settings == nil {
		mutedColor.Fprintln(w, "No HTTP proxy configured")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Proxy:\t%s\n", util.JoinHostPort(settings.ProxyHostname, settings.ProxyPort))

	exclusions := "-"
	if len(settings.NonProxyHosts) > 0 {
		exclusions = strings.Join(settings.NonProxyHosts, ", ")
	}
	fmt.Fprintf(tw, "Non-proxy hosts:\t%s\n", exclusions)

	if auth := settings.Authentication; auth != nil {
		fmt.Fprintf(tw, "Username:\t%s\n", auth.Username)
		fmt.Fprintf(tw, "Password:\t%s\n", maskPassword(auth.Password))
		if auth.NTLMHost != "" || auth.NTLMDomain != "" {
			fmt.Fprintf(tw, "NTLM host:\t%s\n", auth.NTLMHost)
			fmt.Fprintf(tw, "NTLM domain:\t%s\n", auth.NTLMDomain)
		}
	} else {
		fmt.Fprintf(tw, "Authentication:\tnone\n")
	}

	return tw.Flush()
}

func printJSON(w io.Writer, settings *model.RemoteHTTPProxySettings) error {
	if settings != nil && settings.Authentication != nil {
		redacted := *settings
		auth := *settings.Authentication
		if auth.Password != "" {
			auth.Password = maskPassword(auth.Password)
		}
		redacted.Authentication = &auth
		settings = &redacted
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(settings)
}

func maskPassword(password string) string {
	if password == "" {
		return "-"
	}
	return "********"
}
