// Package worker runs the background jobs of the wallet server.
//
// It contains the following jobs (concurrently):
//	reconcile
//		reconcile tracked offers until they reach a terminal state.
//	blacklist
//		watch the blacklist file and swap in a rebuilt registry on change.
package worker
