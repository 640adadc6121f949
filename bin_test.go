package tad

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/tad/asn"
)

func mustExpr(t *testing.T, s string) *Expr {
	t.Helper()
	e, _, err := ParseExpr(s)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func mustFunc(t *testing.T, s string) *Function {
	t.Helper()
	f, err := CompileFunction(s)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestToBin(t *testing.T) {
	tests := []struct {
		name string
		du   DataUnit
		args []TmplArg
		n    int
		res  []byte
		err  error
	}{
		{name: "i32 short", du: DataUnit{Type: DUI32, I32: 0x0800}, n: 2, res: []byte{8, 0}},
		{name: "i32 low octet", du: DataUnit{Type: DUI32, I32: 0x1234}, n: 1, res: []byte{0x34}},
		{name: "i32 negative", du: DataUnit{Type: DUI32, I32: -1}, n: 4, res: []byte{0xff, 0xff, 0xff, 0xff}},
		{name: "i32 wide", du: DataUnit{Type: DUI32, I32: 1}, n: 8, res: []byte{0, 0, 0, 0, 0, 0, 0, 1}},
		{name: "i32 too wide", du: DataUnit{Type: DUI32, I32: 1}, n: 9, err: asn.ErrInvalid},
		{name: "octets", du: DataUnit{Type: DUOctets, Octets: []byte{1, 2, 3}}, n: 3, res: []byte{1, 2, 3}},
		{name: "octets prefix", du: DataUnit{Type: DUOctets, Octets: []byte{1, 2, 3}}, n: 2, res: []byte{1, 2}},
		{name: "octets short", du: DataUnit{Type: DUOctets, Octets: []byte{1, 2, 3}}, n: 4, err: ErrLessData},
		{name: "octets unset", du: DataUnit{Type: DUOctets}, n: 1, err: ErrLessData},
		{name: "undef", du: DataUnit{}, n: 2, err: ErrLessData},
		{name: "mask", du: DataUnit{Type: DUMask, Mask: []byte{1}, Pattern: []byte{1}}, n: 1, err: ErrLessData},
		{name: "empty destination", du: DataUnit{Type: DUI32}, n: 0, err: asn.ErrInvalid},
	}
	for _, tt := range tests {
		dst := make([]byte, tt.n)
		err := ToBin(&tt.du, tt.args, dst)
		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Errorf("%s: got %v, want %v", tt.name, err, tt.err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if diff := cmp.Diff(tt.res, dst); diff != "" {
			t.Errorf("%s (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestToBinExpr(t *testing.T) {
	du := &DataUnit{Type: DUExpr, Expr: mustExpr(t, "($0 + 20)")}
	dst := make([]byte, 2)
	for i, want := range [][]byte{{0, 28}, {0x01, 0x13}} {
		args := IntArgs([]int64{8, 255}[i])
		if err := ToBin(du, args, dst); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, dst); diff != "" {
			t.Errorf("iteration %d (-want +got):\n%s", i, diff)
		}
	}
	if err := ToBin(du, nil, dst); !errors.Is(err, ErrWrongStructure) {
		t.Errorf("missing argument: got %v", err)
	}
}

func TestToBinFunc(t *testing.T) {
	dst := make([]byte, 2)
	du := &DataUnit{Type: DUFunc, Func: mustFunc(t, "sum")}
	if err := ToBin(du, IntArgs(1, 2), dst); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0, 3}, dst); diff != "" {
		t.Errorf("sum (-want +got):\n%s", diff)
	}
	du.Func = mustFunc(t, "htons(args[0])")
	if err := ToBin(du, IntArgs(0x0102), dst); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0x02, 0x01}, dst); diff != "" {
		t.Errorf("htons (-want +got):\n%s", diff)
	}
}

func TestFromBin(t *testing.T) {
	var du DataUnit
	if err := FromBin([]byte{0x08, 0x00}, &du); err != nil {
		t.Fatal(err)
	}
	if du.Type != DUOctets || string(du.Octets) != "\x08\x00" {
		t.Errorf("got %s", &du)
	}
	// leading zero octets are kept, so a shorter field does not match
	if err := FromBin([]byte{0x00, 0x05}, &du); err != nil {
		t.Fatal(err)
	}
	if err := MatchData(&du, []byte{0x05}, nil); !errors.Is(err, ErrNotMatch) {
		t.Errorf("short data: got %v", err)
	}
	if err := MatchData(&du, []byte{0x00, 0x05}, nil); err != nil {
		t.Errorf("same data: %v", err)
	}
	mac := []byte{0, 0x11, 0x22, 0x33, 0x44, 0x55}
	if err := FromBin(mac, &du); err != nil {
		t.Fatal(err)
	}
	if du.Type != DUOctets || du.I32 != 0 {
		t.Errorf("got %s", &du)
	}
	mac[0] = 0xff
	if du.Octets[0] != 0 {
		t.Errorf("octets alias the input")
	}
	if err := FromBin(nil, &du); !errors.Is(err, asn.ErrInvalid) {
		t.Errorf("no data: got %v", err)
	}

	dst := make([]byte, 6)
	if err := FromBin([]byte{1, 2, 3, 4, 5, 6}, &du); err != nil {
		t.Fatal(err)
	}
	if err := ToBin(&du, nil, dst); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{1, 2, 3, 4, 5, 6}, dst); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}
