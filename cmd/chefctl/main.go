package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/hmchef/chef-kit/cache"
	"github.com/hmchef/chef-kit/config"
	"github.com/hmchef/chef-kit/internal/logging"
	"github.com/hmchef/chef-kit/krypto"
	"github.com/hmchef/chef-kit/settings"
	"github.com/hmchef/chef-kit/urlsigner"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.LookupEnv))
}

type entry struct {
	Key    string `json:"key" yaml:"key"`
	Value  string `json:"value" yaml:"value"`
	Source string `json:"source" yaml:"source"`
}

type cli struct {
	out    io.Writer
	logger *zap.Logger
	opts   config.LoadOptions
}

func run(args []string, out io.Writer, lookup func(string) (string, bool)) int {
	// kingpin exits the process after --help, help and --version; record the
	// code instead so run stays testable.
	exitCode := -1
	app := kingpin.New("chefctl", "Inspect and exercise the chef backend settings").
		UsageWriter(out).
		Terminate(func(code int) {
			if exitCode < 0 {
				exitCode = code
			}
		})
	app.Version(version)
	app.HelpFlag.Short('h')
	envFile := app.Flag("env-file", "Path of the env file").Default(config.DefaultEnvFile).String()
	noEnvFile := app.Flag("no-env-file", "Ignore any env file").Bool()
	prefix := app.Flag("prefix", "Prefix prepended to every environment key").String()
	debug := app.Flag("debug", "Log every resolved key").Bool()

	showCmd := app.Command("show", "Print resolved settings with their source")
	output := showCmd.Flag("output", "Output format").Short('o').Default("text").Enum("text", "json", "yaml")

	checkCmd := app.Command("check", "Load settings, report placeholders and ping the cache")
	timeout := checkCmd.Flag("timeout", "Cache ping timeout").Default("5s").Duration()

	genCmd := app.Command("gen-secret", "Print a fresh SECRET_KEY")
	size := genCmd.Flag("size", "Secret size in bytes").Default("32").Int()

	signCmd := app.Command("sign-url", "Sign a URL with SECRET_KEY")
	rawURL := signCmd.Arg("url", "URL to sign").Required().String()
	signTTL := signCmd.Flag("ttl", "Validity, 0 uses URLSIGNER_DEFAULT_EXPIRY").Default("0s").Duration()
	payload := signCmd.Flag("payload", "Optional payload embedded in the URL").String()

	tokenCmd := app.Command("token", "Issue an HS256 token signed with SECRET_KEY")
	subject := tokenCmd.Arg("subject", "Token subject").Required().String()
	tokenTTL := tokenCmd.Flag("ttl", "Token validity").Default("15m").Duration()
	issuer := tokenCmd.Flag("issuer", "Token issuer").Default("chef-api").String()

	command, err := app.Parse(args)
	if exitCode == 0 {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "chefctl: %v\n", err)
		return exitUsage
	}

	logger, err := logging.New(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chefctl: %v\n", err)
		return exitFail
	}
	defer func() {
		_ = logger.Sync()
	}()

	c := &cli{
		out:    out,
		logger: logger,
		opts: config.LoadOptions{
			Prefix:      *prefix,
			EnvFile:     *envFile,
			SkipEnvFile: *noEnvFile,
			Lookup:      lookup,
			Logger:      logger,
		},
	}

	switch command {
	case showCmd.FullCommand():
		err = c.show(*output)
	case checkCmd.FullCommand():
		err = c.check(*timeout)
	case genCmd.FullCommand():
		err = c.genSecret(*size)
	case signCmd.FullCommand():
		err = c.signURL(*rawURL, *signTTL, *payload)
	case tokenCmd.FullCommand():
		err = c.token(*subject, *issuer, *tokenTTL)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		return exitFail
	}
	return exitOK
}

func (c *cli) show(format string) error {
	values, err := config.Load(settings.Bindings(), c.opts)
	if err != nil {
		return err
	}

	var entries []entry
	for _, b := range settings.Bindings() {
		v := values[b.Field]
		display := v.Raw
		switch {
		case v.Secret:
			display = "******"
		case b.Key == settings.KeyRedisURL:
			display = settings.Settings{RedisURL: v.Raw}.RedactedRedisURL()
		}
		entries = append(entries, entry{Key: v.Key, Value: display, Source: v.Source.String()})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(c.out)
		defer enc.Close()
		return enc.Encode(entries)
	default:
		tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key, e.Value, e.Source)
		}
		return tw.Flush()
	}
}

func (c *cli) check(timeout time.Duration) error {
	s, err := settings.Load(c.opts)
	if err != nil {
		return err
	}
	for _, key := range s.Placeholders() {
		c.logger.Warn("compiled-in placeholder in use, replace before production", zap.String("key", key))
	}

	cfg, err := cache.GetConfig(s, c.opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	store, err := cache.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open cache %s: %w", s.RedactedRedisURL(), err)
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		return fmt.Errorf("ping cache: %w", err)
	}

	c.logger.Info("settings ok", zap.Stringer("settings", s), zap.Int("placeholders", len(s.Placeholders())))
	_, err = fmt.Fprintln(c.out, "ok")
	return err
}

func (c *cli) genSecret(size int) error {
	secret, err := krypto.GenerateSecretKey(size)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.out, "%s=%s\n", settings.KeySecretKey, secret)
	return err
}

func (c *cli) signURL(rawURL string, ttl time.Duration, payload string) error {
	s, err := settings.Load(c.opts)
	if err != nil {
		return err
	}
	cfg, err := urlsigner.GetConfig(s, c.opts)
	if err != nil {
		return err
	}
	signer, err := urlsigner.New(cfg)
	if err != nil {
		return err
	}

	signed, err := signer.SignURL(rawURL, ttl, payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, signed)
	return err
}

func (c *cli) token(subject, issuer string, ttl time.Duration) error {
	s, err := settings.Load(c.opts)
	if err != nil {
		return err
	}
	ti, err := krypto.NewTokenIssuer(s.SecretKey, issuer)
	if err != nil {
		return err
	}

	token, err := ti.Issue(subject, ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, token)
	return err
}
