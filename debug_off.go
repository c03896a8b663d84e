//go:build !daedalusdebug

package daedalusos

// assertNotListed is a no-op in non-debug builds. See debug_on.go.
func assertNotListed([]TCB, int) {}
