package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/calder/folio/internal/apperr"
	"github.com/calder/folio/internal/storage"
)

func testGate(t *testing.T) *Gate {
	t.Helper()
	dir, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	return New(dir, "session.secret")
}

func TestProvisionAndVerify(t *testing.T) {
	g := testGate(t)

	if g.IsProvisioned() {
		t.Error("fresh gate reports provisioned")
	}
	if err := g.Provision("hunter22"); err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if !g.IsProvisioned() {
		t.Error("gate not provisioned after Provision")
	}
	if !g.Verify("hunter22") {
		t.Error("correct secret rejected")
	}
	if g.Verify("wrong") {
		t.Error("wrong secret accepted")
	}
}

func TestProvisionRejectsShortSecret(t *testing.T) {
	g := testGate(t)
	err := g.Provision("abc")
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
	if g.IsProvisioned() {
		t.Error("short secret was stored")
	}
}

func TestLoginMintsToken(t *testing.T) {
	g := testGate(t)
	if err := g.Provision("hunter22"); err != nil {
		t.Fatal(err)
	}

	token, err := g.Login("hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || !g.Check(token) {
		t.Errorf("minted token %q not accepted", token)
	}

	if _, err := g.Login("nope"); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("bad secret login err = %v, want ErrUnauthorized", err)
	}
}

func TestCheckRejectsUnknownAndEmptyTokens(t *testing.T) {
	g := testGate(t)
	if g.Check("") {
		t.Error("empty token accepted")
	}
	if g.Check("deadbeef") {
		t.Error("unknown token accepted")
	}
}

func TestTokenExpiry(t *testing.T) {
	g := testGate(t)
	if err := g.Provision("hunter22"); err != nil {
		t.Fatal(err)
	}
	token, err := g.Login("hunter22")
	if err != nil {
		t.Fatal(err)
	}

	g.now = func() time.Time { return time.Now().Add(24 * time.Hour) }
	if g.Check(token) {
		t.Error("expired token accepted")
	}
}

func TestReprovisionRevokesSessions(t *testing.T) {
	g := testGate(t)
	if err := g.Provision("hunter22"); err != nil {
		t.Fatal(err)
	}
	token, err := g.Login("hunter22")
	if err != nil {
		t.Fatal(err)
	}

	if err := g.Provision("newsecret"); err != nil {
		t.Fatal(err)
	}
	if g.Check(token) {
		t.Error("session survived a secret change")
	}
	if g.Verify("hunter22") {
		t.Error("old secret still accepted")
	}
	if !g.Verify("newsecret") {
		t.Error("new secret rejected")
	}
}

func TestLogout(t *testing.T) {
	g := testGate(t)
	if err := g.Provision("hunter22"); err != nil {
		t.Fatal(err)
	}
	token, err := g.Login("hunter22")
	if err != nil {
		t.Fatal(err)
	}
	g.Logout(token)
	if g.Check(token) {
		t.Error("token accepted after logout")
	}
}
