package config

import (
	"os"
	"strings"
)

// NotificationDispatchEnabled gates the background Pub/Sub dispatcher.
// Notification rows are always written; without the dispatcher they simply
// stay pending (useful for local development without GCP credentials).
//
// Set via env:
// - NOTIFY_DISPATCH_ENABLED=true
func NotificationDispatchEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("NOTIFY_DISPATCH_ENABLED")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// UploadThumbnailsEnabled controls thumbnail generation on image upload.
//
// Set via env:
// - UPLOAD_THUMBNAILS=false (default true)
func UploadThumbnailsEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("UPLOAD_THUMBNAILS")))
	if v == "" {
		return true
	}
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
