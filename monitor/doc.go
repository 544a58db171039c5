// SPDX-License-Identifier: EPL-2.0

// Package monitor bridges the engine to a UI over HTTP.
//
//	GET  /state                          snapshot
//	GET  /levels                         master and per-track meters
//	POST /transport/{play|pause|stop}
//	POST /transport/seek?t=12.5
//	PUT  /tracks/{id}                    {"volume":80,"balance":0,"muted":false,"solo":true}
//	PUT  /master                         {"volume":90}
//	GET  /ws                             snapshot and levels on every change
package monitor
