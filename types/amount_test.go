package types

import (
	"encoding/json"
	"errors"
	"math/big"
	"testing"
)

const maxUint256 = "115792089237316195423570985008687907853269984665640564039457584007913129639935"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"zero", "0", "0", nil},
		{"one", "1", "1", nil},
		{"supply", "10000000000000000000000", "10000000000000000000000", nil},
		{"padded", "  42 ", "42", nil},
		{"max", maxUint256, maxUint256, nil},
		{"max plus one", "115792089237316195423570985008687907853269984665640564039457584007913129639936", "", ErrAmountOverflow},
		{"negative", "-1", "", ErrAmountSyntax},
		{"plus sign", "+1", "", ErrAmountSyntax},
		{"empty", "", "", ErrAmountSyntax},
		{"hex", "0x10", "", ErrAmountSyntax},
		{"fraction", "1.5", "", ErrAmountSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("got %s, want %s", got.String(), tt.want)
			}
		})
	}
}

func TestUnits(t *testing.T) {
	tests := []struct {
		name     string
		whole    uint64
		decimals uint8
		want     string
		wantErr  bool
	}{
		{"no decimals", 7, 0, "7", false},
		{"reference supply", 10000, 18, "10000000000000000000000", false},
		{"six decimals", 25, 6, "25000000", false},
		{"largest power", 1, 77, "1" + zeros(77), false},
		{"power overflows", 2, 77, "", true},
		{"too many decimals", 1, 78, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Units(tt.whole, tt.decimals)
			if tt.wantErr {
				if !errors.Is(err, ErrAmountOverflow) {
					t.Fatalf("expected overflow, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("got %s, want %s", got.String(), tt.want)
			}
		})
	}
}

func zeros(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}

func TestCheckedArithmetic(t *testing.T) {
	ceiling := MustParseAmount(maxUint256)

	if sum, overflow := NewAmount(2).CheckedAdd(NewAmount(3)); overflow || sum.String() != "5" {
		t.Errorf("2+3: got %s overflow=%v", sum, overflow)
	}
	if _, overflow := ceiling.CheckedAdd(NewAmount(1)); !overflow {
		t.Error("max+1 should overflow")
	}
	if diff, under := NewAmount(5).CheckedSub(NewAmount(5)); under || !diff.IsZero() {
		t.Errorf("5-5: got %s underflow=%v", diff, under)
	}
	if diff, under := NewAmount(4).CheckedSub(NewAmount(5)); !under || !diff.IsZero() {
		t.Errorf("4-5: got %s underflow=%v", diff, under)
	}
	if _, overflow := Sum(ceiling, NewAmount(1)); !overflow {
		t.Error("Sum should report overflow")
	}
	if total, overflow := Sum(NewAmount(1), NewAmount(2), NewAmount(3)); overflow || total.String() != "6" {
		t.Errorf("Sum: got %s overflow=%v", total, overflow)
	}
	if total, _ := Sum(); !total.IsZero() {
		t.Error("empty Sum should be zero")
	}
}

func TestComparison(t *testing.T) {
	a, b := NewAmount(1), NewAmount(2)

	if !a.LessThan(b) || a.GreaterThan(b) {
		t.Error("1 should be less than 2")
	}
	if a.Cmp(b) != -1 || b.Cmp(a) != 1 || a.Cmp(NewAmount(1)) != 0 {
		t.Error("Cmp returned wrong ordering")
	}
	if !a.Equal(NewAmount(1)) {
		t.Error("equal amounts not Equal")
	}
	if !ZeroAmount().IsZero() || a.IsZero() {
		t.Error("IsZero mismatch")
	}
}

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		amount   Amount
		decimals uint8
		want     string
	}{
		{NewAmount(1), 18, "0.000000000000000001"},
		{ZeroAmount(), 18, "0.000000000000000000"},
		{MustParseAmount("10000000000000000000000"), 18, "10000.000000000000000000"},
		{NewAmount(1234), 2, "12.34"},
		{NewAmount(1234), 0, "1234"},
		{NewAmount(5), 1, "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.amount.FormatUnits(tt.decimals); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAmountFromBig(t *testing.T) {
	if _, err := AmountFromBig(big.NewInt(-1)); !errors.Is(err, ErrAmountSyntax) {
		t.Errorf("negative: got %v", err)
	}
	if a, err := AmountFromBig(nil); err != nil || !a.IsZero() {
		t.Errorf("nil: got %s, %v", a, err)
	}
	huge := new(big.Int).Lsh(big.NewInt(1), 256)
	if _, err := AmountFromBig(huge); !errors.Is(err, ErrAmountOverflow) {
		t.Errorf("2^256: got %v", err)
	}
	if a, _ := AmountFromBig(big.NewInt(99)); a.Big().Int64() != 99 {
		t.Errorf("round trip through big.Int failed: %s", a)
	}
}

func TestBytes32(t *testing.T) {
	b := NewAmount(0x0102).Bytes32()
	if b[30] != 0x01 || b[31] != 0x02 {
		t.Errorf("expected big-endian encoding, got %x", b)
	}
	for _, v := range b[:30] {
		if v != 0 {
			t.Fatalf("expected left padding, got %x", b)
		}
	}
}

func TestAmountJSON(t *testing.T) {
	data, err := json.Marshal(MustParseAmount(maxUint256))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"`+maxUint256+`"` {
		t.Errorf("expected quoted decimal, got %s", data)
	}

	var fromString Amount
	if err := json.Unmarshal([]byte(`"12"`), &fromString); err != nil || fromString.String() != "12" {
		t.Errorf("string: got %s, %v", fromString, err)
	}
	var fromNumber Amount
	if err := json.Unmarshal([]byte(`12`), &fromNumber); err != nil || fromNumber.String() != "12" {
		t.Errorf("number: got %s, %v", fromNumber, err)
	}
	var bad Amount
	if err := json.Unmarshal([]byte(`"-3"`), &bad); err == nil {
		t.Error("expected error for negative amount")
	}
	if err := json.Unmarshal([]byte(`true`), &bad); err == nil {
		t.Error("expected error for a boolean")
	}
}

func TestAmountValueScan(t *testing.T) {
	original := MustParseAmount("10000000000000000000000")
	val, err := original.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if val != "10000000000000000000000" {
		t.Errorf("expected decimal string, got %v", val)
	}

	tests := []struct {
		name string
		src  any
		want string
		ok   bool
	}{
		{"string", "10000000000000000000000", "10000000000000000000000", true},
		{"bytes", []byte("42"), "42", true},
		{"int64", int64(7), "7", true},
		{"nil", nil, "0", true},
		{"negative int64", int64(-1), "", false},
		{"float", 1.5, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			err := a.Scan(tt.src)
			if !tt.ok {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Scan failed: %v", err)
			}
			if a.String() != tt.want {
				t.Errorf("got %s, want %s", a, tt.want)
			}
		})
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"checksummed", "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", true},
		{"lower case", "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266", true},
		{"no prefix", "f39fd6e51aad88f6f4ce6ab8827279cfffb92266", true},
		{"short", "0x1234", false},
		{"not hex", "0xZZ9fd6e51aad88f6f4ce6ab8827279cfffb92266", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseAddress(tt.input)
			if !tt.ok {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a.Hex() != "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266" {
				t.Errorf("got %s", a.Hex())
			}
		})
	}
}
