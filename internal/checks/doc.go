// Package checks defines the Finding model and the runner that fans the
// independent health checks out and joins their results.
//
// A check whose external tool is missing or fails degrades to a
// check-unavailable finding; it never blocks the other checks. Result order
// is the checker registration order, so reports stay stable run to run.
package checks
