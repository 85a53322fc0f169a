package nanobar

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"nanobar/pkg/progress"
	"nanobar/pkg/transfer"
)

func newCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy SRC DST",
		Short: "Copy a file while showing a byte-count bar",
		Args:  cobra.ExactArgs(2),
		RunE:  runCopy,
	}
}

func runCopy(cmd *cobra.Command, args []string) error {
	src, dst := args[0], args[1]

	size, err := transfer.FileSize(src)
	if err != nil {
		return err
	}

	b, err := newBar(cmd, size)
	if err != nil {
		return err
	}

	return progress.Run(b.Message("Copying "+filepath.Base(src)), func(bar *progress.Bar) error {
		n, err := transfer.CopyFile(cmd.Context(), src, dst, bar)
		if err != nil {
			bar.Fail(err.Error())
			return err
		}
		bar.Success(fmt.Sprintf("Copied %d bytes to %s", n, dst))
		return nil
	})
}
