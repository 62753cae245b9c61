package commands

import (
	"github.com/spf13/cobra"

	"fdring/pkg/repl"
	"fdring/pkg/session"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Operate a buffer interactively",
	Long: `Operate a single buffer from a command prompt.

"feed" queues text on an inbound descriptor and "fill" reads it into the
buffer; "flush" writes the buffer to the terminal. Type an unknown command to
list the rest.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	s, err := session.New(cfg.Buffer.Capacity, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	logger.Debug("shell started", "capacity", cfg.Buffer.Capacity)
	return s.Repl().Run(repl.Options{
		Prompt:      cfg.Shell.Prompt,
		HistoryFile: cfg.Shell.HistoryFile,
	})
}
