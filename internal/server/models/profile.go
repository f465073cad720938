package models

// Profile is the one-to-one record for an owner, auto-created with defaults
// the first time the owner is seen. AvatarPath, when set, always resolves to
// the fixed per-owner avatar key.
type Profile struct {
	OwnerID    string
	Name       string
	Section    string
	School     string
	AvatarPath string
}
