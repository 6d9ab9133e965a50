// Package photo implements the staged profile photo controller.
//
// A captured photo is written by an external device into a fixed temporary
// slot and announced by a persisted pending-capture marker. Nothing reaches
// the durable profile photo until Commit; Discard removes the staged state
// without touching the durable photo or the profile record.
//
// The controller keeps no recovery-critical state in memory. The marker and
// the fixed slot names are enough for a freshly built controller to pick up
// where a destroyed one left off, see Controller.ResumeIfPending.
package photo
