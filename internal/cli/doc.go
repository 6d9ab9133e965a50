// Package cli is the interactive profile editor.
//
// It wires configuration, the record and marker stores, the durable photo
// backend and the capture device into a photo.Controller, then runs a REPL
// that plays the part of the profile screen: show and edit fields, take a
// photo, save or cancel.
//
// On start the editor resumes whatever an earlier run left pending. If a
// capture was still outstanding, a watcher waits for the device to finish
// writing the staged photo. Leaving without save discards the staged photo.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
