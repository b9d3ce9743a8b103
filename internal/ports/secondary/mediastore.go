package secondary

import "context"

// MediaObject identifies one stored media file.
type MediaObject struct {
	ID   string // opaque storage reference (object key or file path)
	Link string // shareable link to the stored file
}

// MediaStore defines the secondary port for the object storage service
// holding uploaded photos and videos. Each upload is an independent
// blocking call; a failed upload must not affect files already stored.
type MediaStore interface {
	// Upload stores content under the given filename and returns its
	// storage reference and share link.
	Upload(ctx context.Context, content []byte, filename, contentType string) (*MediaObject, error)
}
