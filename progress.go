package ftp

import "io"

// ProgressReader reports cumulative bytes read to a callback. Wrap an upload
// source with it to observe Store, StoreUnique and Append transfers.
type ProgressReader struct {
	// Reader supplies the payload
	Reader io.Reader

	// Callback receives the running byte total after each successful read
	Callback func(bytesTransferred int64)

	total int64
}

// Read implements io.Reader.
func (pr *ProgressReader) Read(p []byte) (int, error) {
	n, err := pr.Reader.Read(p)
	if n > 0 {
		pr.total += int64(n)
		if pr.Callback != nil {
			pr.Callback(pr.total)
		}
	}
	return n, err
}

// ProgressWriter reports cumulative bytes written to a callback. Wrap a
// download sink with it to observe Retrieve transfers.
type ProgressWriter struct {
	// Writer consumes the payload
	Writer io.Writer

	// Callback receives the running byte total after each successful write
	Callback func(bytesTransferred int64)

	total int64
}

// Write implements io.Writer.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	if n > 0 {
		pw.total += int64(n)
		if pw.Callback != nil {
			pw.Callback(pw.total)
		}
	}
	return n, err
}
