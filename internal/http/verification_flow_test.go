package handlers_test

import (
	"net/http"
	"testing"
)

func kycBody() map[string]any {
	return map[string]any{
		"firstName":         "Alice",
		"lastName":          "Liddell",
		"dateOfBirth":       "1995-05-04",
		"sex":               "female",
		"nationality":       "British",
		"address":           "1 Rabbit Hole Lane",
		"contactNumber":     "+44 1865 000000",
		"governmentIdImage": jpgURL,
		"selfieImage":       pngURL,
	}
}

func TestVerificationEndToEnd(t *testing.T) {
	ta := newTestApp(t)
	alice := ta.login(t, "alice@bazaar.test")
	admin := ta.login(t, "admin@bazaar.test")

	me := ta.do(t, "GET", "/api/verifications/me", alice, nil)
	if me.status != http.StatusOK || me.body["status"] != "not_submitted" || me.body["submitted"] != false {
		t.Fatalf("initial status: %d %s", me.status, me.raw)
	}

	sub := ta.do(t, "POST", "/api/verifications/submit", alice, kycBody())
	if sub.status != http.StatusCreated {
		t.Fatalf("submit: %d %s", sub.status, sub.raw)
	}
	if again := ta.do(t, "POST", "/api/verifications/submit", alice, kycBody()); again.status != http.StatusConflict {
		t.Fatalf("second submit: %d %s", again.status, again.raw)
	}

	me = ta.do(t, "GET", "/api/verifications/me", alice, nil)
	v, _ := me.body["verification"].(map[string]any)
	if me.body["status"] != "pending" || v["firstName"] != "Alice" || v["governmentIdUrl"] == "" {
		t.Fatalf("pending status: %s", me.raw)
	}

	list := ta.do(t, "GET", "/api/verifications", admin, nil)
	items, _ := list.body["verifications"].([]any)
	if list.status != http.StatusOK || len(items) != 1 {
		t.Fatalf("pending list: %d %s", list.status, list.raw)
	}
	if bad := ta.do(t, "GET", "/api/verifications?status=weird", admin, nil); bad.status != http.StatusBadRequest {
		t.Fatalf("bad filter: %d", bad.status)
	}

	var rev result
	entries := captureLogs(t, func() {
		rev = ta.do(t, "PATCH", "/api/verifications/u-alice/status", admin, map[string]string{"status": "approved", "reviewerNotes": "looks good"})
	})
	if rev.status != http.StatusOK {
		t.Fatalf("approve: %d %s", rev.status, rev.raw)
	}
	if e := findLog(entries, "verification.review"); e == nil || e.Level != "audit" || e.UserID != "u-admin" {
		t.Fatalf("review not audited: %+v", e)
	}

	me = ta.do(t, "GET", "/api/verifications/me", alice, nil)
	if me.body["status"] != "approved" {
		t.Fatalf("after approval: %s", me.raw)
	}
	prof := ta.do(t, "GET", "/api/auth/profile", alice, nil)
	if prof.body["role"] != "seller" {
		t.Fatalf("alice should be a seller now: %s", prof.raw)
	}
	if missing := ta.do(t, "PATCH", "/api/verifications/u-bob/status", admin, map[string]string{"status": "approved"}); missing.status != http.StatusNotFound {
		t.Fatalf("review without submission: %d", missing.status)
	}
	if again := ta.do(t, "PATCH", "/api/verifications/u-alice/status", admin, map[string]string{"status": "rejected"}); again.status != http.StatusConflict {
		t.Fatalf("re-review of approved request: %d %s", again.status, again.raw)
	}
}
