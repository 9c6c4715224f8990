package types

import (
	"encoding/json"
	"testing"
)

func TestID_UnmarshalJSON(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   string
		want ID
	}{
		{"string", `"abc"`, "abc"},
		{"number", `101`, "101"},
		{"large number", `1743465600000`, "1743465600000"},
		{"null", `null`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var id ID
			if err := json.Unmarshal([]byte(tc.in), &id); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.in, err)
			}
			if id != tc.want {
				t.Fatalf("id = %q, want %q", id, tc.want)
			}
		})
	}
}

func TestID_Provisional(t *testing.T) {
	t.Parallel()
	id := NewProvisionalID()
	if !id.Provisional() {
		t.Fatalf("NewProvisionalID produced a permanent-looking id: %q", id)
	}
	if ID("42").Provisional() {
		t.Fatal("store-assigned id reported provisional")
	}
	another := NewProvisionalID()
	if id == another {
		t.Fatal("provisional ids must be unique")
	}
}

func TestRawComment_DecodesNumericID(t *testing.T) {
	t.Parallel()
	var raw RawComment
	payload := `{"id":101,"content":"hi","createdAt":"2025-04-02"}`
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatal(err)
	}
	if raw.ID != "101" || raw.Content != "hi" {
		t.Fatalf("unexpected raw: %+v", raw)
	}
}
