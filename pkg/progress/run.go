package progress

// Run starts the bar built by b, passes it to fn and closes it on every
// exit path. A panic in fn propagates after the bar has been finalized.
//
//	err := progress.Run(progress.New(100).Message("Downloading..."), func(bar *progress.Bar) error {
//		for i := 0; i < 100; i++ {
//			bar.Tick(1)
//		}
//		bar.Success("Download complete")
//		return nil
//	})
func Run(b *Builder, fn func(bar *Bar) error) error {
	bar := b.Start()
	defer bar.Close()
	return fn(bar)
}
