package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestParse_SubAndRoles(t *testing.T) {
	v := NewVerifier(testSecret)
	id, err := v.Parse(sign(t, jwt.MapClaims{
		"sub":   "user-1",
		"roles": []any{"buyer", "seller"},
	}))
	if err != nil {
		t.Fatal(err)
	}
	if id.Sub != "user-1" {
		t.Fatalf("sub = %q", id.Sub)
	}
	if !id.HasRole("buyer") || !id.HasRole("seller") || id.HasRole("admin") {
		t.Fatalf("roles = %v", id.Roles)
	}
}

func TestParse_SubjectFallbacks(t *testing.T) {
	v := NewVerifier(testSecret)

	id, err := v.Parse(sign(t, jwt.MapClaims{"preferred_username": "alice"}))
	if err != nil {
		t.Fatal(err)
	}
	if id.Sub != "alice" {
		t.Fatalf("sub = %q", id.Sub)
	}

	id, err = v.Parse(sign(t, jwt.MapClaims{"nameid": "bob"}))
	if err != nil {
		t.Fatal(err)
	}
	if id.Sub != "bob" {
		t.Fatalf("sub = %q", id.Sub)
	}

	// "sub" wins over the fallbacks
	id, err = v.Parse(sign(t, jwt.MapClaims{"sub": "carol", "preferred_username": "other"}))
	if err != nil {
		t.Fatal(err)
	}
	if id.Sub != "carol" {
		t.Fatalf("sub = %q", id.Sub)
	}
}

func TestParse_RealmAccessRoles(t *testing.T) {
	v := NewVerifier(testSecret)
	id, err := v.Parse(sign(t, jwt.MapClaims{
		"sub":          "user-1",
		"realm_access": map[string]any{"roles": []any{"admin"}},
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !id.HasRole("admin") {
		t.Fatalf("roles = %v", id.Roles)
	}
}

func TestParse_Rejections(t *testing.T) {
	v := NewVerifier(testSecret)

	if _, err := v.Parse(sign(t, jwt.MapClaims{"roles": []any{"buyer"}})); err == nil {
		t.Fatal("want error for missing subject")
	}

	wrong, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"}).
		SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.Parse(wrong); err == nil {
		t.Fatal("want error for wrong secret")
	}

	if _, err := v.Parse("not-a-token"); err == nil {
		t.Fatal("want error for malformed token")
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.Parse(unsigned); err == nil {
		t.Fatal("want error for alg=none token")
	}
}
