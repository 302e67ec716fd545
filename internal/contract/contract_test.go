package contract

import "testing"

func TestEnvMatchesEnvSlice(t *testing.T) {
	env := Env()
	slice := EnvSlice()
	if len(env) != len(slice) {
		t.Fatalf("len(Env()) = %d, len(EnvSlice()) = %d, want equal", len(env), len(slice))
	}
	want := map[string]string{
		"LC_ALL": "C",
		"TZ":     "UTC",
		"TERM":   "dumb",
		"PATH":   "/bin:/usr/bin",
	}
	for k, v := range want {
		if env[k] != v {
			t.Errorf("Env()[%q] = %q, want %q", k, env[k], v)
		}
	}
}

func TestEnvSliceFormat(t *testing.T) {
	slice := EnvSlice()
	found := map[string]bool{}
	for _, kv := range slice {
		found[kv] = true
	}
	for _, want := range []string{"LC_ALL=C", "TZ=UTC", "TERM=dumb", "PATH=/bin:/usr/bin"} {
		if !found[want] {
			t.Errorf("EnvSlice() missing %q, got %v", want, slice)
		}
	}
}

func TestSnapshot(t *testing.T) {
	snap := Snapshot()
	if snap.Locale != "C" || snap.TZ != "UTC" || snap.Term != "dumb" {
		t.Errorf("Snapshot() = %+v, want {C UTC dumb}", snap)
	}
}
