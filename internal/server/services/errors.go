// Package services implements the content-hierarchy operations over the two
// stores: subject catalog, file registry, and profile handling.
//
// The file registry deliberately orders its store calls so that partial
// failures leak orphan blobs rather than dangling metadata: a File row
// pointing at a missing blob would break every future preview, while an
// unreferenced blob is merely invisible. No operation is retried; every
// failure is surfaced once and the caller re-invokes the whole operation.
package services

import "errors"

// Each sentinel marks a distinct failure surface of the two-store protocols,
// so callers can tell which store diverged and in which direction.
var (
	// ErrUploadFailed: the blob write failed; no metadata row was written.
	ErrUploadFailed = errors.New("upload failed")

	// ErrUploadRecordFailed: the blob was written but the metadata insert
	// failed. The blob is now an orphan; it is not auto-repaired.
	ErrUploadRecordFailed = errors.New("upload saved but record failed")

	// ErrStorageDeleteFailed: the blob delete failed; the row was kept so
	// metadata stays consistent with storage.
	ErrStorageDeleteFailed = errors.New("storage delete failed")

	// ErrMetadataDeleteFailed: the blob is gone but the row delete failed,
	// leaving a dangling row.
	ErrMetadataDeleteFailed = errors.New("db delete failed")

	// ErrPreviewFailed: the object is missing or the signer errored.
	ErrPreviewFailed = errors.New("preview failed")
)
