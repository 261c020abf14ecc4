//go:build !unix

package area

import stderrors "errors"

func mprotectReadOnly(p []byte) error {
	return stderrors.New("in-place section freeze requires mprotect, unavailable on this platform")
}
