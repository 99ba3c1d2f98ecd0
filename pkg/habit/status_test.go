package habit

import "testing"

func TestStatusNext(t *testing.T) {
	tests := []struct {
		in   Status
		want Status
	}{
		{StatusComplete, StatusIncomplete},
		{StatusIncomplete, StatusComplete},
		{StatusPartial, StatusComplete},
		{StatusNotApplicable, StatusComplete},
	}
	for _, tt := range tests {
		if got := tt.in.Next(); got != tt.want {
			t.Errorf("%s.Next() = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestResolveStatus(t *testing.T) {
	partial := StatusPartial
	complete := StatusComplete

	if got := ResolveStatus(nil, nil); got != StatusComplete {
		t.Errorf("first toggle: got %s want complete", got)
	}
	if got := ResolveStatus(&complete, nil); got != StatusIncomplete {
		t.Errorf("toggle complete: got %s want incomplete", got)
	}
	if got := ResolveStatus(&complete, &partial); got != StatusPartial {
		t.Errorf("explicit request: got %s want partial", got)
	}
	if got := ResolveStatus(nil, &partial); got != StatusPartial {
		t.Errorf("explicit first write: got %s want partial", got)
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("done"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	st, err := ParseStatus("not_applicable")
	if err != nil {
		t.Fatalf("ParseStatus failed: %v", err)
	}
	if st.Counts() {
		t.Error("not_applicable must not count towards rates")
	}
}
