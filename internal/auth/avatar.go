package auth

import "strings"

// Extractor pulls one candidate value out of an identity.
type Extractor func(Identity) string

func stringField(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func metadataField(key string) Extractor {
	return func(id Identity) string {
		return stringField(id.UserMetadata, key)
	}
}

func linkedIdentityField(key string) Extractor {
	return func(id Identity) string {
		for _, li := range id.Identities {
			if v := stringField(li.IdentityData, key); v != "" {
				return v
			}
		}
		return ""
	}
}

func emailLocalPart(id Identity) string {
	local, _, found := strings.Cut(id.Email, "@")
	if !found {
		return ""
	}
	return local
}

// AvatarExtractors are tried in order; the first non-empty result wins.
var AvatarExtractors = []Extractor{
	metadataField("avatar_url"),
	metadataField("picture"),
	metadataField("photo"),
	metadataField("image"),
	metadataField("profile_pic"),
	linkedIdentityField("avatar_url"),
	linkedIdentityField("picture"),
}

var NameExtractors = []Extractor{
	metadataField("full_name"),
	metadataField("name"),
	emailLocalPart,
}

func firstOf(id Identity, extractors []Extractor) string {
	for _, ex := range extractors {
		if v := ex(id); v != "" {
			return v
		}
	}
	return ""
}

// AvatarURL returns the best profile picture URL for id, or "".
func AvatarURL(id Identity) string {
	return firstOf(id, AvatarExtractors)
}

// DisplayName prefers full_name, then name, then the email local part, and
// finally "User".
func DisplayName(id Identity) string {
	if name := firstOf(id, NameExtractors); name != "" {
		return name
	}
	return "User"
}
