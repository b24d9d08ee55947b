package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func applicationBody() gin.H {
	return gin.H{
		"name":  "New Partner",
		"email": "partner@example.com",
		"phone": "+385 91 000 0000",
	}
}

func TestApplyPartnerForwardsToInbox(t *testing.T) {
	r, mail := newTestServer(t)

	code, _ := do(t, r, http.MethodPost, "/api/applications/partner", "", applicationBody())
	if code != http.StatusOK {
		t.Fatalf("apply: status %d, want 200", code)
	}
	if len(mail.sent) != 1 || mail.sent[0].To[0] != "applications@test.local" {
		t.Fatalf("application not mailed to the inbox: %+v", mail.sent)
	}
}

func TestApplyPartnerSendFailureIsSurfaced(t *testing.T) {
	r, mail := newTestServer(t)

	mail.fail = true
	code, resp := do(t, r, http.MethodPost, "/api/applications/partner", "", applicationBody())
	if code != http.StatusBadGateway {
		t.Errorf("apply with broken smtp: status %d, want 502, body %v", code, resp)
	}
	if len(mail.sent) != 0 {
		t.Errorf("messages recorded = %d, want 0", len(mail.sent))
	}
}
