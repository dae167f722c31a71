// Package loader reads a VC2 object file from disk into the bytes a VM
// expects to boot from. A VC2 object file is a bare flat byte image with
// no header and no separate decode step: the bytes on disk are the bytes
// loaded at address 0.
package loader

import (
	"bytes"
	"fmt"
	"os"
)

// shebangPrefix marks an optional first line that is stripped before
// loading, so an assembled image can carry an executable-on-Unix
// `#!/usr/bin/env vc2run` line without that line becoming part of the
// program image itself.
const shebangPrefix = "#!"

// Load reads path and returns the bytes a VM should load starting at
// address 0, with any leading shebang line removed.
func Load(path string) ([]byte, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- path is an explicit CLI argument
	if err != nil {
		return nil, fmt.Errorf("failed to read object file %s: %w", path, err)
	}
	return StripShebang(raw), nil
}

// StripShebang removes a single leading "#!...\n" line, if present. It
// does not matter what the shebang line contains; only its presence and
// termination are checked. A shebang line with no terminating newline is
// the whole file, so nothing remains.
func StripShebang(image []byte) []byte {
	if !bytes.HasPrefix(image, []byte(shebangPrefix)) {
		return image
	}
	if nl := bytes.IndexByte(image, '\n'); nl >= 0 {
		return image[nl+1:]
	}
	return image[len(image):]
}

// Save writes image to path verbatim, with no shebang line. Object files
// produced by vc2asm are always loaded at address 0 with no relocation.
func Save(path string, image []byte) error {
	if err := os.WriteFile(path, image, 0600); err != nil {
		return fmt.Errorf("failed to write object file %s: %w", path, err)
	}
	return nil
}

// SaveExecutable writes image to path prefixed with a shebang line
// invoking interpreter, and marks the file executable. This is the
// convenience path described by the object-file convention: the
// resulting file can be run directly as `./prog` on Unix if interpreter
// is on PATH.
func SaveExecutable(path, interpreter string, image []byte) error {
	out := append([]byte(shebangPrefix+interpreter+"\n"), image...)
	if err := os.WriteFile(path, out, 0700); err != nil { // #nosec G306 -- must be executable
		return fmt.Errorf("failed to write executable object file %s: %w", path, err)
	}
	return nil
}
