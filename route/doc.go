// Package route turns a (source, goal) pair into a cached chain of
// FlowFields: query the PortalGraph for a portal-level path, split it into
// per-sector runs, build each run's IntegrationField back-to-front from the
// goal, then build each run's FlowField forward, and cache the result behind
// an opaque Handle.
package route
