package routes

import "testing"

func TestTitleFor(t *testing.T) {
	if got := TitleFor("/api/admin/finance"); got != "Financial Report" {
		t.Errorf("finance title = %q", got)
	}
	if got := TitleFor("/api/admin/unknown"); got != "Warteg Admin" {
		t.Errorf("fallback title = %q", got)
	}
}
