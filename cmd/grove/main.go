package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/grove/internal/app"
	"github.com/dori/grove/internal/config"
	"github.com/dori/grove/internal/ui"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// rootFlags feed config.Load overrides
type rootFlags struct {
	configFile string
	envFile    string
	dataDir    string
	backend    string
	theme      string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	root := &cobra.Command{
		Use:   "grove",
		Short: "Grove keeps your tasks in groups, with subtasks and recurrence",
		Long: `Grove is a terminal task manager.

Run without arguments to open the interactive list. Quick-add text accepts
markers: @tag, !high|!medium|!low, due:tomorrow|fri|+3d|2024-01-15 and
every:day|week|month|weekdays|3d|mon,thu.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(f, runTUI)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configFile, "config", "", "config file (default "+config.DefaultConfigFile()+")")
	pf.StringVar(&f.envFile, "env-file", "", "dotenv file to load (default .env)")
	pf.StringVar(&f.dataDir, "data-dir", "", "data directory")
	pf.StringVar(&f.backend, "backend", "", "storage backend: sqlite or file")
	pf.StringVar(&f.theme, "theme", "", "theme: light or dark")

	root.AddCommand(
		newAddCmd(f),
		newSubtaskCmd(f),
		newListCmd(f),
		newDoneCmd(f),
		newEditCmd(f),
		newDeleteCmd(f),
		newStatsCmd(f),
		newGroupsCmd(f),
		newTagsCmd(f),
		newExportCmd(f),
		newSweepCmd(f),
		newClearCmd(f),
		newVersionCmd(),
	)
	return root
}

// loadConfig applies the flags that were set on top of file and env config
func (f *rootFlags) loadConfig() (*config.Config, error) {
	overrides := map[string]any{}
	if f.dataDir != "" {
		overrides["data_dir"] = f.dataDir
	}
	if f.backend != "" {
		overrides["backend"] = f.backend
	}
	if f.theme != "" {
		overrides["theme"] = f.theme
	}
	return config.Load(config.Options{
		ConfigFile: f.configFile,
		EnvFile:    f.envFile,
		Overrides:  overrides,
	})
}

// withApp opens the application for the duration of fn
func withApp(f *rootFlags, fn func(*app.App) error) error {
	cfg, err := f.loadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func runTUI(a *app.App) error {
	p := tea.NewProgram(
		ui.NewRootModel(a),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
