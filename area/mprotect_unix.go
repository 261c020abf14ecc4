//go:build unix

package area

import "golang.org/x/sys/unix"

// mprotectReadOnly revokes write access on the mapping in place.
func mprotectReadOnly(p []byte) error {
	return unix.Mprotect(p, unix.PROT_READ)
}
