package email

import (
	"context"
	"strings"
	"testing"

	"relo-assistant/internal/domain"
)

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("noreply@example.com", "Relo", Referral{
		To:      "partners@example.com",
		CC:      []string{"ops@example.com"},
		ReplyTo: "ana@example.com",
		Subject: "Hi",
		Body:    "body",
	})
	for _, want := range []string{
		"From: Relo <noreply@example.com>\r\n",
		"To: partners@example.com\r\n",
		"Cc: ops@example.com\r\n",
		"Reply-To: ana@example.com\r\n",
		"Subject: Hi\r\n",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in message:\n%s", want, msg)
		}
	}
	if !strings.HasSuffix(msg, "\r\n\r\nbody") {
		t.Fatalf("expected body after blank line")
	}
}

func TestBuildReferral(t *testing.T) {
	t.Run("datos del plan", func(t *testing.T) {
		plan := domain.RelocationPlan{
			UserEmail:     domain.Ptr("ana@example.com"),
			UserName:      domain.Ptr("Ana"),
			ToCity:        domain.Ptr("New York"),
			HouseholdSize: domain.Ptr(2),
		}
		r := BuildReferral(ReferralConfig{To: []string{"a@example.com", "b@example.com"}, CC: []string{"c@example.com"}}, plan)
		if r.To != "a@example.com" {
			t.Fatalf("unexpected to: %q", r.To)
		}
		if got := r.Recipients(); len(got) != 3 || got[1] != "b@example.com" {
			t.Fatalf("unexpected recipients: %v", got)
		}
		if r.Subject != "New Immigration Client Referral: Ana" || r.ReplyTo != "ana@example.com" {
			t.Fatalf("unexpected headers: %+v", r)
		}
		for _, want := range []string{"- To: New York", "- From: Not specified", "- Household size: 2", "Assessment needed"} {
			if !strings.Contains(r.Body, want) {
				t.Fatalf("expected %q in body:\n%s", want, r.Body)
			}
		}
	})

	t.Run("sin nombre", func(t *testing.T) {
		r := BuildReferral(ReferralConfig{}, domain.RelocationPlan{UserEmail: domain.Ptr("x@example.com")})
		if !strings.Contains(r.Body, "Not provided") || !strings.HasSuffix(r.Subject, "New client") {
			t.Fatalf("unexpected referral: %+v", r)
		}
		if len(r.Recipients()) != 0 {
			t.Fatalf("expected no recipients")
		}
	})
}

func TestSenders(t *testing.T) {
	ctx := context.Background()
	if err := NewDisabledSender("").SendReferral(ctx, Referral{To: "a@example.com"}); err == nil {
		t.Fatalf("expected disabled sender to fail")
	}
	if err := NewDisabledSender("smtp not configured").SendReferral(ctx, Referral{}); err == nil || err.Error() != "smtp not configured" {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := NewLogSender(nil).SendReferral(ctx, Referral{To: "a@example.com"}); err != nil {
		t.Fatalf("log sender: %v", err)
	}
	if err := NewLogSender(nil).SendReferral(ctx, Referral{}); err == nil {
		t.Fatalf("expected error without recipients")
	}
	if _, err := NewSMTPSender("", 0, "", "", "a@example.com", "", false); err == nil {
		t.Fatalf("expected host validation")
	}
}
