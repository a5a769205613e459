package main

import (
	"github.com/spf13/cobra"

	"github.com/Parkreiner/namebingo/config"
)

// options holds the raw flag values. Only flags the user actually set are
// copied onto the environment configuration.
type options struct {
	file    string
	ldap    string
	command string
	names   []string

	width       int
	height      int
	center      string
	filler      string
	noFiller    bool
	title       string
	description string

	output  string
	listen  string
	preview bool
	watch   bool
	seed    uint64
	verbose bool
}

var (
	sourceFlags = []string{"file", "ldap", "command", "name"}
	modeFlags   = []string{"output", "listen", "preview"}
)

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "bingo",
		Short: "Deal name bingo cards as HTML",
		Long: `bingo shuffles a list of names into a grid and renders it as a printable
HTML page. Names come from a file, an LDAP directory, the output of a command,
or the command line. Every flag can also be set through a BINGO_ environment
variable or a .env file; flags win.

With --listen, bingo keeps running and deals a new card for every request.`,
		Example: `  bingo -f names.txt -x 5 -y 5 -c FREE -o card.html
  bingo -l ldap://ds.example.com/ou=people,dc=example,dc=com -x 4 -y 4 --listen :8080
  bingo -n Alice -n Bob -n Carol -x 2 -y 2 --preview`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(cfg, opts.verbose, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return run(cmd.Context(), cfg, logger, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "read names from a file, one per line (.yaml/.yml for a YAML list)")
	f.StringVarP(&opts.ldap, "ldap", "l", "", "read names from an LDAP directory, e.g. ldap://host/ou=people,dc=example,dc=com")
	f.StringVar(&opts.command, "command", "", "read names from the output of a shell command, one per line")
	f.StringArrayVarP(&opts.names, "name", "n", nil, "add a name (repeatable)")

	f.IntVarP(&opts.width, "width", "x", 0, "number of columns")
	f.IntVarP(&opts.height, "height", "y", 0, "number of rows")
	f.StringVarP(&opts.center, "center", "c", "", "fixed value for the center cell")
	f.StringVarP(&opts.filler, "default", "d", "Joker", "value used to pad the card when there are not enough names")
	f.BoolVar(&opts.noFiller, "no-default", false, "fail instead of padding when there are not enough names")
	f.StringVarP(&opts.title, "title", "t", "", "heading shown above the grid")
	f.StringVar(&opts.description, "description", "", "text shown below the grid")

	f.StringVarP(&opts.output, "output", "o", "", `write the card to a file ("-" for stdout)`)
	f.StringVar(&opts.listen, "listen", "", "serve a fresh card per request on this address, e.g. :8080")
	f.BoolVar(&opts.preview, "preview", false, "print the card as a table instead of HTML")
	f.BoolVar(&opts.watch, "watch", false, "reload the name file when it changes (needs --file and --listen)")
	f.Uint64Var(&opts.seed, "seed", 0, "seed the shuffle for reproducible cards")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.MarkFlagsMutuallyExclusive(sourceFlags...)
	cmd.MarkFlagsMutuallyExclusive(modeFlags...)
	cmd.MarkFlagsMutuallyExclusive("default", "no-default")

	return cmd
}

// apply layers the flags that were set on top of cfg. Setting any name source
// or delivery mode on the command line replaces the ones from the environment.
func (o *options) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	anyChanged := func(names []string) bool {
		for _, name := range names {
			if changed(name) {
				return true
			}
		}
		return false
	}

	if anyChanged(sourceFlags) {
		cfg.File, cfg.LDAP, cfg.Command, cfg.Names = "", "", "", nil
	}
	if changed("file") {
		cfg.File = o.file
	}
	if changed("ldap") {
		cfg.LDAP = o.ldap
	}
	if changed("command") {
		cfg.Command = o.command
	}
	if changed("name") {
		cfg.Names = o.names
	}

	if changed("width") {
		cfg.Width = o.width
	}
	if changed("height") {
		cfg.Height = o.height
	}
	if changed("center") {
		cfg.Center = &o.center
	}
	if changed("default") {
		cfg.Filler = o.filler
		cfg.NoFiller = false
	}
	if changed("no-default") {
		cfg.NoFiller = o.noFiller
	}
	if changed("title") {
		cfg.Title = &o.title
	}
	if changed("description") {
		cfg.Description = &o.description
	}

	if anyChanged(modeFlags) {
		cfg.Output, cfg.Listen, cfg.Preview = "", "", false
	}
	if changed("output") {
		cfg.Output = o.output
	}
	if changed("listen") {
		cfg.Listen = o.listen
	}
	if changed("preview") {
		cfg.Preview = o.preview
	}
	if changed("watch") {
		cfg.Watch = o.watch
	}
	if changed("seed") {
		cfg.Seed = &o.seed
	}
}
