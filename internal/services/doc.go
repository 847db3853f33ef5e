// Package services holds the sentinel errors and execution plumbing shared by
// the external tool clients in its subpackages.
package services
