package main

// _version is the version of qa2html.
// Release builds override it with -ldflags "-X main._version=...".
var _version = "v0.1.0"
