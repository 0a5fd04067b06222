package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/VetleNeumann/TemplateGenerator/cli/cmd"
	"github.com/VetleNeumann/TemplateGenerator/pkg"
)

// CLI is the top-level command-line interface for tgen.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Render cmd.Render `cmd:"" help:"Render a template against data models"`
	Check  cmd.Check  `cmd:"" help:"Verify a syntax tree and print its resolved types"`
	Init   cmd.Init   `cmd:"" help:"Write current flag values to the configuration file"`
}

// Run parses args and executes the selected command. The exit function is
// called by kong for --help, --version and usage errors.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFile := configPath(baseConfig + configExt)

	vars := kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: configFile,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags take effect before kong reports anything.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve, configFile),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	defer cli.Pprof.start(ctx)()

	return ktx.Run()
}
