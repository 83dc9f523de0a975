// Package generation provides the token guard that lets a newer context
// supersede in-flight asynchronous work.
//
// Every load or reconcile call takes a Token from Begin before it starts and
// commits its result through Commit when it completes. If the user switched
// the viewed variant or reset the session in the meantime, the token is stale
// and the late result is dropped instead of resurrecting old data.
package generation
