// Package preflight runs environment checks for `checkinq doctor`: directory
// permissions, the queue database, the place catalog, and reachability of the
// remote service.
package preflight
