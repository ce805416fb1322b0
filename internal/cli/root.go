package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Amund211/clientboard/internal/adapters/clickup"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Dependencies of the command tree. Tests replace the API, keyring and clock.
type Dependencies struct {
	Getenv     func(string) string
	Keyring    Keyring
	HTTPClient *http.Client
	NewAPI     func(apiKey string) (clickup.API, error)
	NowFunc    func() time.Time
}

func DefaultDependencies() Dependencies {
	httpClient := &http.Client{
		Timeout:   30 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return Dependencies{
		Getenv:     os.Getenv,
		Keyring:    NewSystemKeyring(),
		HTTPClient: httpClient,
		NewAPI: func(apiKey string) (clickup.API, error) {
			return clickup.NewAPI(httpClient, apiKey, time.Now, time.After)
		},
		NowFunc: time.Now,
	}
}

type rootOptions struct {
	apiKey   string
	output   string
	timezone string
}

func NewRootCommand(deps Dependencies) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "clientboardctl",
		Short: "Operator tooling for the clientboard dashboard",
		Long: `clientboardctl browses the ClickUp workspace backing the dashboard,
exports the project stages and manages operator credentials.

The ClickUp API key is read from --api-key, then CLICKUP_API_KEY, then the OS keyring.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return validateOutputFormat(opts.output)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.apiKey, "api-key", "", "ClickUp API key")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputJSON, "Output format for read commands: json or yaml")
	rootCmd.PersistentFlags().StringVar(&opts.timezone, "timezone", "", "Time zone for displayed dates (default $TIMEZONE or America/Sao_Paulo)")

	rootCmd.AddCommand(newFetchCommand(deps, opts))
	rootCmd.AddCommand(newSpacesCommand(deps, opts))
	rootCmd.AddCommand(newListsCommand(deps, opts))
	rootCmd.AddCommand(newTasksCommand(deps, opts))
	rootCmd.AddCommand(newLoginCommand(deps, opts))
	rootCmd.AddCommand(newLogoutCommand(deps))
	rootCmd.AddCommand(newTokenCommand(deps))

	return rootCmd
}

// Execute runs the root command with the real environment
func Execute(version string) error {
	rootCmd := NewRootCommand(DefaultDependencies())
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (o *rootOptions) location(deps Dependencies) (*time.Location, error) {
	name := o.timezone
	if name == "" {
		name = deps.Getenv("TIMEZONE")
	}
	if name == "" {
		name = "America/Sao_Paulo"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone '%s': %w", name, err)
	}
	return loc, nil
}

func (o *rootOptions) api(deps Dependencies) (clickup.API, error) {
	apiKey, err := resolveAPIKey(o.apiKey, deps)
	if err != nil {
		return nil, err
	}
	return deps.NewAPI(apiKey)
}

// envOrFlag prefers the flag value and falls back to the environment
func envOrFlag(flagValue string, deps Dependencies, variable string) string {
	if flagValue != "" {
		return flagValue
	}
	return deps.Getenv(variable)
}
