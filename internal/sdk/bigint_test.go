package sdk

import (
	"encoding/json"
	"testing"
)

func TestBigIntDecodesNumbersAndStrings(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`100`, "100"},
		{`"100"`, "100"},
		{`0`, "0"},
		{`-250`, "-250"},
		// Beyond int64; must not lose precision.
		{`123456789012345678901234567890`, "123456789012345678901234567890"},
		{`"987654321098765432109876543210"`, "987654321098765432109876543210"},
		{`null`, "0"},
	}
	for _, tc := range cases {
		var b BigInt
		if err := json.Unmarshal([]byte(tc.raw), &b); err != nil {
			t.Errorf("unmarshal %s: %v", tc.raw, err)
			continue
		}
		if b.String() != tc.want {
			t.Errorf("unmarshal %s = %s, want %s", tc.raw, b.String(), tc.want)
		}
	}
}

func TestBigIntRejectsNonInteger(t *testing.T) {
	for _, raw := range []string{`"abc"`, `1.5`, `"10.0"`} {
		var b BigInt
		if err := json.Unmarshal([]byte(raw), &b); err == nil {
			t.Errorf("unmarshal %s succeeded, want error", raw)
		}
	}
}

func TestBigIntMarshalsAsNumber(t *testing.T) {
	payload, err := json.Marshal(map[string]BigInt{"amount": NewBigInt(12345)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(payload) != `{"amount":12345}` {
		t.Errorf("marshaled %s", payload)
	}
}

func TestBigIntCmp(t *testing.T) {
	if NewBigInt(1).Cmp(NewBigInt(2)) != -1 {
		t.Error("1 should compare below 2")
	}
	if NewBigInt(5).Cmp(NewBigInt(5)) != 0 {
		t.Error("equal values should compare equal")
	}
}
