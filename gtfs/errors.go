package gtfs

import "fmt"

// DownloadError reports a network or timeout failure while fetching the
// bundle. The previously cached bundle remains valid.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// CorruptArchiveError reports that a downloaded bundle could not be
// validated or unpacked. The previously cached bundle remains valid.
type CorruptArchiveError struct {
	Path string
	Err  error
}

func (e *CorruptArchiveError) Error() string {
	return fmt.Sprintf("corrupt archive %s: %v", e.Path, e.Err)
}

func (e *CorruptArchiveError) Unwrap() error { return e.Err }

// NoDataError reports that the local cache is absent or empty at load time.
type NoDataError struct {
	Dir string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no schedule data in %s", e.Dir)
}

// MalformedRowError reports a single schedule row that failed to parse.
// Such rows are skipped and counted, never fatal to the load.
type MalformedRowError struct {
	File   string
	Line   int
	Reason error
}

func (e *MalformedRowError) Error() string {
	if e.Reason == nil {
		return fmt.Sprintf("%s:%d: malformed row", e.File, e.Line)
	}
	return fmt.Sprintf("%s:%d: malformed row: %v", e.File, e.Line, e.Reason)
}

func (e *MalformedRowError) Unwrap() error { return e.Reason }
