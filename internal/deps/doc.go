// Package deps locates the external binaries docbatch depends on.
//
// Resolver walks a fixed cascade (preferred path, saved path, the OS lookup
// command, a manual PATH scan) and records a human-readable trace line for
// every step it takes. It never persists what it finds; callers decide
// whether to save the result. CheckBinaries reports the availability of
// optional helper programs such as PDF engines.
package deps
