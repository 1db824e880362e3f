// server/tlsfiles.go
package server

import (
	"fmt"
	"io/fs"
	"os"
	"runtime"
)

// insecureKeyError reports a private key readable by group or others.
type insecureKeyError struct {
	path string
	perm fs.FileMode
}

func (e *insecureKeyError) Error() string {
	return fmt.Sprintf("TLS key file %s has permissions %o (want 0600)", e.path, e.perm)
}

// checkTLSFiles verifies that cert and key are regular readable files. A
// loose key mode is returned as *insecureKeyError so callers can downgrade it
// to a warning outside prod.
func checkTLSFiles(certFile, keyFile string) error {
	if certFile == "" || keyFile == "" {
		return fmt.Errorf("manual TLS requires cert_file and key_file")
	}
	if _, err := regularFile("certificate", certFile); err != nil {
		return err
	}
	info, err := regularFile("key", keyFile)
	if err != nil {
		return err
	}
	// Unix permission bits mean nothing on Windows.
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o077 != 0 {
		return &insecureKeyError{path: keyFile, perm: info.Mode().Perm()}
	}
	return nil
}

func regularFile(kind, path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("TLS %s file: %w", kind, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("TLS %s path %s is a directory", kind, path)
	}
	return info, nil
}
