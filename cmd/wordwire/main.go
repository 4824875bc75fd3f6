package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/wordwire/internal/cli"
	"codeberg.org/snonux/wordwire/internal/processor"
)

func main() {
	flags := cli.NewFlags()

	rootCmd := cli.CreateRootCommand(flags)

	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	proc, err := processor.NewProcessor(flags)
	if err != nil {
		return err
	}
	defer proc.Close()

	ctx := context.Background()

	switch {
	case flags.Archive:
		return proc.ArchiveHistory()

	case flags.Languages:
		proc.ListLanguages()
		return nil

	case flags.ListVoices:
		proc.ListVoices()
		return nil

	case flags.ShowHistory:
		return proc.ShowHistory(ctx)

	case flags.ExportCSV != "":
		return proc.ExportHistoryCSV(ctx, flags.ExportCSV)

	case flags.BatchFile != "":
		return proc.ProcessBatch(ctx)

	case len(args) > 0:
		if flags.Speak && !flags.Detect {
			return proc.SpeakOnly(ctx, args[0])
		}
		return proc.ProcessSingle(ctx, args[0])

	default:
		// No input provided - launch GUI mode by default
		return proc.RunGUIMode()
	}
}
