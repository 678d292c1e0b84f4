package protocol

import "testing"

func TestCodeString(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{CodeConnect, "connect"},
		{CodeDisconnect, "disconnect"},
		{CodeSync, "sync"},
		{CodeClean, "clean"},
		{Code(99), "unknown(99)"},
	}

	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := &Message{SessionID: "s1", Code: CodeSync, Body: []byte("abc"), Status: boolPtr(true)}

	clone := m.Clone()
	clone.Body[0] = 'z'
	*clone.Status = false

	if string(m.Body) != "abc" {
		t.Fatalf("original body mutated: %q", m.Body)
	}
	if !*m.Status {
		t.Fatal("original status mutated")
	}
}

func TestReplySuccess(t *testing.T) {
	req := &Message{SessionID: "s1", Code: CodeConnect, Body: []byte("args")}

	resp := req.Reply(true, "ignored on success")

	if resp.SessionID != "s1" || resp.Code != CodeConnect {
		t.Fatalf("correlation fields changed: %+v", resp)
	}
	if string(resp.Body) != "args" {
		t.Fatalf("body = %q, want args", resp.Body)
	}
	if !resp.OK() {
		t.Fatal("OK() = false, want true")
	}
	if resp.Errors != "" {
		t.Fatalf("Errors = %q, want empty on success", resp.Errors)
	}
	if req.IsResponse() {
		t.Fatal("building a reply mutated the request")
	}
}

func TestReplyFailure(t *testing.T) {
	req := &Message{SessionID: "s1", Code: CodeClean}

	resp := req.Reply(false, "disk error")

	if !resp.IsResponse() {
		t.Fatal("IsResponse() = false, want true")
	}
	if resp.OK() {
		t.Fatal("OK() = true, want false")
	}
	if resp.Errors != "disk error" {
		t.Fatalf("Errors = %q, want disk error", resp.Errors)
	}
}

func TestRequestIsNotResponse(t *testing.T) {
	m := &Message{SessionID: "s1", Code: CodeConnect}
	if m.IsResponse() {
		t.Fatal("request reports IsResponse() = true")
	}
	if m.OK() {
		t.Fatal("request reports OK() = true")
	}
}
