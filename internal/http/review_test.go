package handlers_test

import (
	"net/http"
	"testing"
)

func TestReviewUpsertStatusCodes(t *testing.T) {
	ta := newTestApp(t)
	alice := ta.login(t, "alice@bazaar.test")
	bob := ta.login(t, "bob@bazaar.test")

	if res := ta.do(t, "POST", "/api/reviews", "", map[string]any{"productId": "gbc-001", "rating": 5}); res.status != http.StatusUnauthorized {
		t.Fatalf("anonymous review: %d", res.status)
	}

	first := ta.do(t, "POST", "/api/reviews", alice, map[string]any{"productId": "gbc-001", "rating": 3, "comment": "ok"})
	if first.status != http.StatusCreated || first.body["message"] != "Review submitted successfully" {
		t.Fatalf("first review: %d %s", first.status, first.raw)
	}
	ta.do(t, "POST", "/api/reviews", bob, map[string]any{"productId": "gbc-001", "rating": 4})

	second := ta.do(t, "POST", "/api/reviews", alice, map[string]any{"productId": "gbc-001", "rating": 5})
	if second.status != http.StatusOK || second.body["message"] != "Review updated successfully" {
		t.Fatalf("update review: %d %s", second.status, second.raw)
	}
	sum, _ := second.body["summary"].(map[string]any)
	if sum["totalReviews"] != float64(2) || sum["averageRating"] != 4.5 {
		t.Fatalf("summary: %v", sum)
	}

	list := ta.do(t, "GET", "/api/reviews/product/gbc-001", "", nil)
	reviews, _ := list.body["reviews"].([]any)
	if list.status != http.StatusOK || len(reviews) != 2 {
		t.Fatalf("public list: %d %s", list.status, list.raw)
	}
	if res := ta.do(t, "POST", "/api/reviews", alice, map[string]any{"productId": "nope", "rating": 5}); res.status != http.StatusNotFound {
		t.Fatalf("unknown product: %d", res.status)
	}
}
