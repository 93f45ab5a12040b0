package http

import (
	"strings"
	"testing"
)

func TestSanitizeBodyRedactsCredentials(t *testing.T) {
	body := []byte(`{"email":"asha@example.com","password":"StrongPass23","nested":{"newPassword":"FreshPass45","bio":"hi"}}`)
	summary := sanitizeBody(body, "application/json")

	top, ok := summary.(map[string]any)
	if !ok {
		t.Fatalf("summary is %T, want a map", summary)
	}
	if top["password"] != redactedValue {
		t.Fatalf("password = %v", top["password"])
	}
	if top["email"] != "asha@example.com" {
		t.Fatalf("email = %v", top["email"])
	}
	nested, ok := top["nested"].(map[string]any)
	if !ok {
		t.Fatalf("nested is %T", top["nested"])
	}
	if nested["newPassword"] != redactedValue {
		t.Fatalf("nested newPassword = %v", nested["newPassword"])
	}
	if nested["bio"] != "hi" {
		t.Fatalf("nested bio = %v", nested["bio"])
	}
}

func TestSanitizeBodySummarizesMultipart(t *testing.T) {
	summary := sanitizeBody([]byte("--boundary\r\npayload"), "multipart/form-data; boundary=boundary")
	m, ok := summary.(map[string]any)
	if !ok {
		t.Fatalf("summary is %T", summary)
	}
	if m["multipart"] != true {
		t.Fatalf("multipart flag missing: %v", m)
	}
}

func TestSanitizeBodyTruncatesLargePayloads(t *testing.T) {
	big := []byte(strings.Repeat("x", maxLoggedBody+1))
	summary := sanitizeBody(big, "text/plain")
	m, ok := summary.(map[string]any)
	if !ok {
		t.Fatalf("summary is %T", summary)
	}
	if m["truncated"] != true {
		t.Fatalf("truncated flag missing: %v", m)
	}
}

func TestSanitizeBodyEmpty(t *testing.T) {
	if summary := sanitizeBody(nil, "application/json"); summary != nil {
		t.Fatalf("empty body produced %v", summary)
	}
}

func TestIsSensitiveField(t *testing.T) {
	sensitive := []string{"password", "Password", "old_password", "resetToken", "Authorization", "client_secret"}
	for _, field := range sensitive {
		if !isSensitiveField(field) {
			t.Fatalf("%q not flagged as sensitive", field)
		}
	}
	plain := []string{"email", "name", "bio", "phone"}
	for _, field := range plain {
		if isSensitiveField(field) {
			t.Fatalf("%q wrongly flagged as sensitive", field)
		}
	}
}
