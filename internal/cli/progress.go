package cli

import (
	"io"
	"sync"
	"time"

	"github.com/hyperjump/pdfchat/internal/view"
	"github.com/schollz/progressbar/v3"
)

// StartSpinner shows an indeterminate spinner on w and returns the function
// that clears it.
func StartSpinner(enabled bool, w io.Writer, desc string) func() {
	if !enabled {
		return func() {}
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSpinnerType(9),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWidth(10),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(0),
	)
	_ = bar.RenderBlank()
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			_ = bar.Finish()
		})
	}
}

// RegionSpinner returns an observer for a response region that shows a
// spinner while the region is loading.
func RegionSpinner(enabled bool, w io.Writer) func(view.RegionState) {
	var mu sync.Mutex
	stop := func() {}
	return func(st view.RegionState) {
		mu.Lock()
		defer mu.Unlock()
		stop()
		stop = func() {}
		if st.Loading {
			stop = StartSpinner(enabled, w, st.Text)
		}
	}
}
