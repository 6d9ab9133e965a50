package common

// Well-known artifact names. Both live directly under the configured data
// directory; only the directory is configurable, never the names.
const (
	PhotoFileName     = "profile_photo_filename.jpg"
	TempPhotoFileName = "temp_profile_photo_filename.jpg"
)

// PendingCaptureKey is the metadata key holding the pending-capture marker.
const PendingCaptureKey = "temp_profile_photo"
