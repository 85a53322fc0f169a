package nanobar

import (
	"time"

	"github.com/spf13/cobra"

	"nanobar/pkg/progress"
)

var demoDelay time.Duration

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Show a successful, a restyled and a failing bar",
		Args:  cobra.NoArgs,
		RunE:  runDemo,
	}
	cmd.Flags().DurationVar(&demoDelay, "delay", 30*time.Millisecond, "Pause between ticks")
	return cmd
}

func runDemo(cmd *cobra.Command, args []string) error {
	download, err := newBar(cmd, 100)
	if err != nil {
		return err
	}
	bar := download.Message("Downloading...").Start()
	for i := 0; i < 100; i++ {
		time.Sleep(demoDelay)
		bar.Tick(1)
	}
	bar.Success("Download complete")

	install, err := newBar(cmd, 50)
	if err != nil {
		return err
	}
	bar = install.Fill('#').Empty('-').Message("Installing...").Start()
	for i := 0; i < 50; i++ {
		time.Sleep(demoDelay)
		bar.Tick(1)
	}
	bar.Success("Installed")

	compile, err := newBar(cmd, 20)
	if err != nil {
		return err
	}
	return progress.Run(compile.Message("Compiling..."), func(bar *progress.Bar) error {
		for i := 0; i < 20; i++ {
			time.Sleep(demoDelay)
			bar.Tick(1)
			if i == 12 {
				bar.Fail("Build failed at step 13")
				break
			}
		}
		return nil
	})
}
