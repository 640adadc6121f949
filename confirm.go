package tad

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/signadot/tad/asn"
	"github.com/signadot/tad/debug"
)

// ConfirmFunc checks and completes the PDU of one layer of a template or
// pattern before it is used. level counts from 0 at the top of the
// stack.
type ConfirmFunc func(csapID, level int, pdu *asn.Value) error

// ProtoSupport is what a protocol implementation offers a CSAP layer.
type ProtoSupport struct {
	Name    string
	Confirm ConfirmFunc
}

// Layer is one protocol layer of a CSAP.
type Layer struct {
	Proto   string
	Support *ProtoSupport
}

// CSAP is a communication service access point: a stack of protocol
// layers that templates and patterns are sent or received through.
type CSAP struct {
	ID     int
	Layers []Layer
}

// ConfirmPDUs runs the confirm callback of every layer of csap on the
// corresponding element of the PDU sequence pdus, top down, and stops at
// the first failure. Layers without a callback are skipped.
func ConfirmPDUs(csap *CSAP, pdus *asn.Value) error {
	if csap == nil || pdus == nil {
		return ErrWrongPointer
	}
	for level, layer := range csap.Layers {
		if layer.Support == nil || layer.Support.Confirm == nil {
			continue
		}
		label := fmt.Sprintf("%d.#%s", level, layer.Proto)
		pdu, err := pdus.Get(label)
		if err != nil {
			debug.Logger().Error("no pdu for layer",
				zap.Int("csap", csap.ID),
				zap.Int("level", level),
				zap.String("label", label),
				zap.Error(err))
			return err
		}
		if debug.Confirm() {
			debug.Logf("confirm csap %d level %d %s\n", csap.ID, level, label)
		}
		if err := layer.Support.Confirm(csap.ID, level, pdu); err != nil {
			debug.Logger().Error("pdu confirm failed",
				zap.Int("csap", csap.ID),
				zap.Int("level", level),
				zap.String("proto", layer.Proto),
				zap.Error(err))
			return err
		}
	}
	return nil
}
