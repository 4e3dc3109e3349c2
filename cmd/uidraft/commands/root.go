package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sweetpotato0/uidraft/config"
	"github.com/sweetpotato0/uidraft/contrib/provider"
	"github.com/sweetpotato0/uidraft/contrib/tokenizer/tiktoken"
	"github.com/sweetpotato0/uidraft/designer"
	"github.com/sweetpotato0/uidraft/middleware/limiter"
	"github.com/sweetpotato0/uidraft/middleware/logger"
	"github.com/sweetpotato0/uidraft/middleware/validator"
	"github.com/sweetpotato0/uidraft/pkg/logging"
	"github.com/sweetpotato0/uidraft/pkg/telemetry"
	"github.com/sweetpotato0/uidraft/tokenizer"
)

// Version is set at build time.
var Version = "dev"

type clientFactory func(context.Context, *config.Config) (designer.StreamLLMClient, error)

// app carries global flags and the loaded configuration.
type app struct {
	cfgFile      string
	providerName string
	model        string
	verbose      bool

	newClient clientFactory
	cfg       *config.Config
	shutdown  func(context.Context) error
}

// Execute runs the uidraft CLI.
func Execute(ctx context.Context) error {
	return newRootCmd(&app{newClient: provider.New}).ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "uidraft",
		Short: "Draft UI trees from short briefs",
		Long: `uidraft asks a language model to expand a UI brief or to build it as a
sequence of typed actions (addChild, setPadding, setText, ...).

Configuration is read from --config (YAML) and overridden by UIDRAFT_*
variables. The API key comes from the provider's usual variable
(OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY, GROQ_API_KEY).

Examples:
  uidraft expand "login screen with remember me"
  echo "settings page" | uidraft generate - --apply
  uidraft catalog --query '.[].function.name'
`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.shutdown == nil {
				return nil
			}
			return a.shutdown(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	root.PersistentFlags().StringVarP(&a.providerName, "provider", "p", "", "provider: openai, claude, gemini or groq")
	root.PersistentFlags().StringVarP(&a.model, "model", "m", "", "model id")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newExpandCmd(a))
	root.AddCommand(newGenerateCmd(a))
	root.AddCommand(newCatalogCmd(a))
	root.AddCommand(newMCPCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.providerName != "" && a.providerName != cfg.Provider {
		// a key loaded for the configured provider does not carry over
		cfg.Provider = a.providerName
		cfg.APIKey = os.Getenv(config.APIKeyEnv(cfg.Provider))
	}
	if a.model != "" {
		cfg.Model = a.model
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg

	logging.SetLogger(logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format))

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(cmd.Context(), telemetry.Config{
			ServiceVersion: Version,
			Endpoint:       cfg.Telemetry.Endpoint,
		})
		if err != nil {
			return fmt.Errorf("init telemetry: %w", err)
		}
		a.shutdown = shutdown
	}
	return nil
}

// designer validates the configuration and builds the request pipeline.
func (a *app) designer(ctx context.Context) (*designer.Designer, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := a.newClient(ctx, a.cfg)
	if err != nil {
		return nil, err
	}

	validators := []validator.ValidatorFunc{validator.NonEmpty}
	if a.cfg.MaxInputTokens > 0 {
		counter, err := newCounter(a.cfg.Tokenizer)
		if err != nil {
			return nil, err
		}
		validators = append(validators, validator.MaxTokens(counter, a.cfg.MaxInputTokens))
	}

	return designer.New(
		designer.WithProvider(client),
		designer.WithMiddlewares(
			logger.NewRequestLogger(nil),
			validator.NewInputValidator(validator.All(validators...)),
			limiter.NewRateLimiter(a.cfg.MaxConcurrent),
		),
	), nil
}

func newCounter(name string) (tokenizer.Counter, error) {
	if name == "" || name == "simple" {
		return tokenizer.NewSimpleTokenizer(), nil
	}
	t, err := tiktoken.NewTiktokenTokenizer(name)
	if err != nil {
		return nil, fmt.Errorf("tokenizer %q: %w", name, err)
	}
	return t, nil
}

// readBrief joins args, or reads stdin when there are none or the only one is "-".
func readBrief(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read brief: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return strings.Join(args, " "), nil
}
