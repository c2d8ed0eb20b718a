package intent

import (
	"encoding/json"
	"net/url"
	"strings"
)

// EncodeCookie renders an intent as the URL-encoded JSON cookie value of the
// onboarding cookie contract: {role, phone, idType, idValue}.
func EncodeCookie(in Intent) (string, error) {
	payload := struct {
		Role    string `json:"role"`
		Phone   string `json:"phone,omitempty"`
		IDType  string `json:"idType,omitempty"`
		IDValue string `json:"idValue,omitempty"`
	}{
		Role:    string(in.Role),
		Phone:   in.Phone,
		IDType:  in.IDType,
		IDValue: in.IDValue,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	return url.QueryEscape(string(data)), nil
}

// DecodeCookie parses a legacy intent cookie value (URL-encoded JSON).
// Returns nil for values that are not inline intents, such as plain
// correlation tokens; absence of an intent is never an error.
func DecodeCookie(value string) *Intent {
	if value == "" {
		return nil
	}

	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return nil
	}

	decoded = strings.TrimSpace(decoded)
	if !strings.HasPrefix(decoded, "{") {
		return nil
	}

	var in Intent
	if err := json.Unmarshal([]byte(decoded), &in); err != nil {
		return nil
	}

	if !in.Role.Valid() {
		return nil
	}

	return &in
}
