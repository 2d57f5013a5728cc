package domain

import "fmt"

// Platform is the enumerated origin network of a post.
type Platform string

const (
	PlatformTwitter   Platform = "Twitter"
	PlatformFacebook  Platform = "Facebook"
	PlatformInstagram Platform = "Instagram"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformTikTok    Platform = "TikTok"
)

// Platforms returns all known platforms in display order.
func Platforms() []Platform {
	return []Platform{PlatformTwitter, PlatformFacebook, PlatformInstagram, PlatformLinkedIn, PlatformTikTok}
}

// ParsePlatform validates a raw platform string against the enumerated set.
func ParsePlatform(s string) (Platform, error) {
	for _, p := range Platforms() {
		if s == string(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown platform %q", s)
}
