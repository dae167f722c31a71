package asm

import "os"

// AssembleFile reads path and assembles its contents. It is the
// convenience wrapper CLI front ends use instead of calling Assemble
// directly with file-reading boilerplate.
func AssembleFile(path string) ([]byte, []*Error) {
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided assembly file path
	if err != nil {
		return nil, []*Error{NewError(Position{}, ErrSemantic, "reading "+path+": "+err.Error())}
	}
	return Assemble(string(content))
}
