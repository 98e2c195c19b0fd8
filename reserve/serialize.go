// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reserve

import (
	"bytes"
	"io"

	"gitlab.com/jaxnet/reservecore/types/currencyid"
	"gitlab.com/jaxnet/reservecore/types/wire"
)

// EncodeValueMap writes m to w in canonical form: a compact-size count
// followed by (id, amount) pairs with ids ascending by byte order
// (spec.md §6 "Serialization").
func EncodeValueMap(w io.Writer, m ValueMap) error {
	ids := m.SortedIDs()
	if err := wire.WriteVarInt(w, uint64(len(ids))); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := w.Write(id[:]); err != nil {
			return err
		}
		if err := wire.WriteElement(w, int64(m[id])); err != nil {
			return err
		}
	}
	return nil
}

// DecodeValueMap reads a ValueMap written by EncodeValueMap.
func DecodeValueMap(r io.Reader) (ValueMap, error) {
	count, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}

	m := make(ValueMap, count)
	for i := uint64(0); i < count; i++ {
		idBytes := make([]byte, currencyid.IDSize)
		if _, err := io.ReadFull(r, idBytes); err != nil {
			return nil, err
		}
		id, err := currencyid.FromBytes(idBytes)
		if err != nil {
			return nil, err
		}

		var amt int64
		if err := wire.ReadElement(r, &amt); err != nil {
			return nil, err
		}
		m[id] = Amount(amt)
	}
	return m, nil
}

// EncodeReserveTransfer writes t's canonical byte encoding, the unit the
// batch integrity hash of spec.md §6 is computed over.
func EncodeReserveTransfer(t ReserveTransfer) ([]byte, error) {
	var buf bytes.Buffer

	if _, err := buf.Write(t.SourceCurrency[:]); err != nil {
		return nil, err
	}
	if err := wire.WriteElement(&buf, int64(t.Amount)); err != nil {
		return nil, err
	}
	if _, err := buf.Write(t.DestCurrency[:]); err != nil {
		return nil, err
	}
	if _, err := buf.Write(t.FeeCurrency[:]); err != nil {
		return nil, err
	}
	if err := wire.WriteElement(&buf, int64(t.FeeAmount)); err != nil {
		return nil, err
	}
	if err := wire.WriteElement(&buf, uint32(t.Flags)); err != nil {
		return nil, err
	}
	if _, err := buf.Write(t.SecondReserveID[:]); err != nil {
		return nil, err
	}

	hasGateway := uint8(0)
	if t.Destination.HasGateway {
		hasGateway = 1
	}
	if err := wire.WriteElement(&buf, hasGateway); err != nil {
		return nil, err
	}
	if t.Destination.HasGateway {
		if _, err := buf.Write(t.Destination.GatewayID[:]); err != nil {
			return nil, err
		}
	}
	if err := wire.WriteVarBytes(&buf, t.Destination.Address); err != nil {
		return nil, err
	}

	hasNextLeg := uint8(0)
	if t.Destination.NextLeg != nil {
		hasNextLeg = 1
	}
	if err := wire.WriteElement(&buf, hasNextLeg); err != nil {
		return nil, err
	}
	if t.Destination.NextLeg != nil {
		nested, err := EncodeReserveTransfer(*t.Destination.NextLeg)
		if err != nil {
			return nil, err
		}
		if err := wire.WriteVarBytes(&buf, nested); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// DecodeReserveTransfer reads a ReserveTransfer written by
// EncodeReserveTransfer.
func DecodeReserveTransfer(r io.Reader) (ReserveTransfer, error) {
	var t ReserveTransfer

	if err := readID(r, &t.SourceCurrency); err != nil {
		return t, err
	}
	var amt int64
	if err := wire.ReadElement(r, &amt); err != nil {
		return t, err
	}
	t.Amount = Amount(amt)

	if err := readID(r, &t.DestCurrency); err != nil {
		return t, err
	}
	if err := readID(r, &t.FeeCurrency); err != nil {
		return t, err
	}
	var feeAmt int64
	if err := wire.ReadElement(r, &feeAmt); err != nil {
		return t, err
	}
	t.FeeAmount = Amount(feeAmt)

	var flags uint32
	if err := wire.ReadElement(r, &flags); err != nil {
		return t, err
	}
	t.Flags = TransferFlags(flags)

	if err := readID(r, &t.SecondReserveID); err != nil {
		return t, err
	}

	var hasGateway uint8
	if err := wire.ReadElement(r, &hasGateway); err != nil {
		return t, err
	}
	if hasGateway != 0 {
		t.Destination.HasGateway = true
		if err := readID(r, &t.Destination.GatewayID); err != nil {
			return t, err
		}
	}

	addr, err := wire.ReadVarBytes(r, wire.MaxVarBytesPayload, "destination.address")
	if err != nil {
		return t, err
	}
	t.Destination.Address = addr

	var hasNextLeg uint8
	if err := wire.ReadElement(r, &hasNextLeg); err != nil {
		return t, err
	}
	if hasNextLeg != 0 {
		nested, err := wire.ReadVarBytes(r, wire.MaxVarBytesPayload, "destination.nextleg")
		if err != nil {
			return t, err
		}
		leg, err := DecodeReserveTransfer(bytes.NewReader(nested))
		if err != nil {
			return t, err
		}
		t.Destination.NextLeg = &leg
	}

	return t, nil
}

func readID(r io.Reader, id *currencyid.ID) error {
	_, err := io.ReadFull(r, id[:])
	return err
}
