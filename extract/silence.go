package extract

import "os"

// withStdoutSilenced runs fn with os.Stdout redirected to the null device,
// restoring the original stream on every exit path. Some extraction
// libraries write parse warnings straight to stdout, which would corrupt
// the JSON output channel of the standalone tools.
func withStdoutSilenced(fn func() error) error {
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		// No null device; run unsilenced rather than fail the extraction.
		return fn()
	}

	orig := os.Stdout
	os.Stdout = devNull
	defer func() {
		os.Stdout = orig
		devNull.Close()
	}()

	return fn()
}
