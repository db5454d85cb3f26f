// Package ftp implements an FTP client with support for both plain and secure (FTPS) connections.
//
// # Overview
//
// This package provides a developer-friendly FTP client that supports:
//   - Plain FTP connections
//   - Implicit TLS (FTPS on port 990)
//   - Passive and extended passive data connections with automatic fallback
//   - Progress tracking via io.Reader/Writer wrappers
//   - Bandwidth limiting on data connections
//   - Robust error handling with detailed protocol context
//
// # Basic Usage
//
// Connect to a plain FTP server:
//
//	client, err := ftp.Dial("ftp.example.com:21")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Quit()
//
//	if err := client.Login("username", "password"); err != nil {
//	    log.Fatal(err)
//	}
//
// Open combines both steps and defaults the port to 21:
//
//	client, err := ftp.Open("ftp.example.com", "username", "password")
//
// # TLS Support
//
// OpenSecure connects with implicit TLS, typically on port 990:
//
//	client, err := ftp.OpenSecure("ftp.example.com:990", "username", "password",
//	    &tls.Config{ServerName: "ftp.example.com"})
//
// Data connections inherit the control connection's TLS configuration.
//
// # File Transfers
//
// Upload a file:
//
//	file, err := os.Open("local.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer file.Close()
//
//	if err := client.Store("remote.txt", file); err != nil {
//	    log.Fatal(err)
//	}
//
// Download a file:
//
//	file, err := os.Create("local.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer file.Close()
//
//	if err := client.Retrieve("remote.txt", file); err != nil {
//	    log.Fatal(err)
//	}
//
// Transfers always read the server's completion reply after the data
// connection has been drained and closed, so a returned nil error means the
// server confirmed the transfer.
//
// # Progress Tracking
//
// Progress tracking is implemented using the io.Reader/Writer pattern. Wrap your
// reader or writer with a progress callback:
//
//	pr := &ftp.ProgressReader{
//	    Reader: file,
//	    Callback: func(bytesTransferred int64) {
//	        fmt.Printf("Uploaded: %d bytes\n", bytesTransferred)
//	    },
//	}
//	err := client.Store("remote.txt", pr)
//
// # Error Handling
//
// Errors returned by this package include detailed protocol context. Use
// errors.As to access the full error details:
//
//	if err := client.Store("file.txt", reader); err != nil {
//	    var statusErr *ftp.UnexpectedStatusError
//	    if errors.As(err, &statusErr) {
//	        fmt.Printf("Command: %s\n", statusErr.Command)
//	        fmt.Printf("Code: %d\n", statusErr.Code)
//	        fmt.Printf("Message: %s\n", statusErr.Message)
//	    }
//	}
package ftp
