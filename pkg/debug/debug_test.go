package debug

import "testing"

func TestSetEnabled(t *testing.T) {
	orig := Enabled()
	defer SetEnabled(orig)

	SetEnabled(true)
	if !Enabled() {
		t.Error("SetEnabled(true) did not take")
	}
	// Logging while enabled must not panic even right after enabling.
	Log("test message %d", 1)
	Dump("value", struct{ X int }{X: 1})
	LogEnterExit("TestSetEnabled")()

	SetEnabled(false)
	if Enabled() {
		t.Error("SetEnabled(false) did not take")
	}
	Log("suppressed %s", "message")
}
