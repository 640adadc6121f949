package tad

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/tad/asn"
	"github.com/signadot/tad/ndn"
)

var errBadLayer = errors.New("bad layer")

type confirmRecorder struct {
	calls  []string
	failAt int
}

func (r *confirmRecorder) support(name string) *ProtoSupport {
	return &ProtoSupport{
		Name: name,
		Confirm: func(csapID, level int, pdu *asn.Value) error {
			r.calls = append(r.calls, pdu.Name())
			if level == r.failAt {
				return errBadLayer
			}
			return nil
		},
	}
}

func (r *confirmRecorder) csap(protos ...string) *CSAP {
	c := &CSAP{ID: 7}
	for _, p := range protos {
		c.Layers = append(c.Layers, Layer{Proto: p, Support: r.support(p)})
	}
	return c
}

func stackValue(t *testing.T, protos ...string) *asn.Value {
	t.Helper()
	v := asn.NewValue(ndn.PDUSequence)
	for i, p := range protos {
		pdu := asn.NewValue(ndn.GenericPDU)
		if err := v.Put(strconv.Itoa(i), pdu); err != nil {
			t.Fatal(err)
		}
		if err := pdu.Put("#"+p, asn.NewValue(headerTypes[p])); err != nil {
			t.Fatal(err)
		}
	}
	return v
}

var headerTypes = map[string]*asn.Type{
	"eth": ndn.EthHeader,
	"ip4": ndn.IP4Header,
	"udp": ndn.UDP4Header,
	"tcp": ndn.TCP4Header,
}

func TestConfirmPDUs(t *testing.T) {
	r := &confirmRecorder{failAt: -1}
	pdus := stackValue(t, "eth", "ip4", "udp")
	if err := ConfirmPDUs(r.csap("eth", "ip4", "udp"), pdus); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"eth", "ip4", "udp"}, r.calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
}

func TestConfirmShortCircuit(t *testing.T) {
	r := &confirmRecorder{failAt: 1}
	pdus := stackValue(t, "eth", "ip4", "udp")
	err := ConfirmPDUs(r.csap("eth", "ip4", "udp"), pdus)
	if !errors.Is(err, errBadLayer) {
		t.Fatalf("got %v", err)
	}
	if diff := cmp.Diff([]string{"eth", "ip4"}, r.calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
}

func TestConfirmMutates(t *testing.T) {
	pdus := stackValue(t, "ip4")
	c := &CSAP{Layers: []Layer{{
		Proto: "ip4",
		Support: &ProtoSupport{Confirm: func(_, _ int, pdu *asn.Value) error {
			return pdu.WriteInt("version.#plain", 4)
		}},
	}}}
	if err := ConfirmPDUs(c, pdus); err != nil {
		t.Fatal(err)
	}
	n, err := pdus.ReadInt("0.#ip4.version.#plain")
	if err != nil || n != 4 {
		t.Errorf("default not filled: %d, %v", n, err)
	}
}

func TestConfirmErrors(t *testing.T) {
	r := &confirmRecorder{failAt: -1}
	pdus := stackValue(t, "eth", "ip4")

	// a layer without a callback is skipped
	c := r.csap("eth", "ip4")
	c.Layers[0].Support = nil
	if err := ConfirmPDUs(c, pdus); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"ip4"}, r.calls); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}

	if err := ConfirmPDUs(r.csap("eth", "udp"), pdus); !errors.Is(err, asn.ErrIncompleteValue) {
		t.Errorf("wrong protocol: got %v", err)
	}
	if err := ConfirmPDUs(r.csap("eth", "ip4", "udp"), pdus); !errors.Is(err, asn.ErrIndexOutOfBounds) {
		t.Errorf("short stack: got %v", err)
	}
	if err := ConfirmPDUs(nil, pdus); !errors.Is(err, ErrWrongPointer) {
		t.Errorf("nil csap: got %v", err)
	}
}
