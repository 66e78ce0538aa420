// Package version holds the engine version stamped into saves and
// checked against campaign manifests.
package version

// Engine is the current engine version. Saves record it and refuse to
// load under a different engine; campaigns declare the version they
// were authored against.
const Engine = "0.1.0"
