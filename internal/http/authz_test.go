package handlers_test

import (
	"net/http"
	"testing"
)

func TestAdminGuardRequiresAdmin(t *testing.T) {
	ta := newTestApp(t)
	alice := ta.login(t, "alice@bazaar.test")
	seller := ta.login(t, "seller@bazaar.test")
	admin := ta.login(t, "admin@bazaar.test")

	adminOnly := []struct{ method, path string }{
		{"GET", "/api/admin/stats"},
		{"GET", "/api/admin/users"},
		{"GET", "/api/verifications"},
		{"GET", "/api/products"},
		{"PATCH", "/api/products/gbc-001"},
	}
	for _, r := range adminOnly {
		if res := ta.do(t, r.method, r.path, "", nil); res.status != http.StatusUnauthorized {
			t.Errorf("anonymous %s %s: %d", r.method, r.path, res.status)
		}
		if res := ta.do(t, r.method, r.path, alice, nil); res.status != http.StatusForbidden {
			t.Errorf("customer %s %s: %d", r.method, r.path, res.status)
		}
		if res := ta.do(t, r.method, r.path, seller, nil); res.status != http.StatusForbidden {
			t.Errorf("seller %s %s: %d", r.method, r.path, res.status)
		}
	}

	if res := ta.do(t, "GET", "/api/admin/stats", admin, nil); res.status != http.StatusOK || res.body["users"] != float64(4) {
		t.Fatalf("admin stats: %d %s", res.status, res.raw)
	}
	if res := ta.do(t, "GET", "/api/products/mine", alice, nil); res.status != http.StatusForbidden {
		t.Fatalf("customer mine: %d", res.status)
	}
	if res := ta.do(t, "GET", "/api/products/mine", seller, nil); res.status != http.StatusOK {
		t.Fatalf("seller mine: %d", res.status)
	}
}

func TestAccessDeniedIsLogged(t *testing.T) {
	ta := newTestApp(t)
	alice := ta.login(t, "alice@bazaar.test")

	entries := captureLogs(t, func() {
		ta.do(t, "GET", "/api/admin/users", alice, nil)
	})
	e := findLog(entries, "access.denied")
	if e == nil || e.Level != "warn" || e.UserID != "u-alice" || e.Fields["require"] != "admin" {
		t.Fatalf("expected access.denied warn entry, got %+v", e)
	}
}

func TestRoleChangeAppliesToIssuedTokens(t *testing.T) {
	ta := newTestApp(t)
	bob := ta.login(t, "bob@bazaar.test")
	admin := ta.login(t, "admin@bazaar.test")

	if res := ta.do(t, "GET", "/api/products/mine", bob, nil); res.status != http.StatusForbidden {
		t.Fatalf("before promotion: %d", res.status)
	}
	res := ta.do(t, "PATCH", "/api/admin/users/u-bob/role", admin, map[string]string{"role": "seller"})
	if res.status != http.StatusOK {
		t.Fatalf("set role: %d %s", res.status, res.raw)
	}
	if res := ta.do(t, "GET", "/api/products/mine", bob, nil); res.status != http.StatusOK {
		t.Fatalf("after promotion: %d", res.status)
	}
	if res := ta.do(t, "PATCH", "/api/admin/users/u-bob/role", admin, map[string]string{"role": "root"}); res.status != http.StatusBadRequest {
		t.Fatalf("invalid role: %d", res.status)
	}
}
