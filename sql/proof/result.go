package proof

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/fxamacker/cbor/v2"
	"github.com/icza/bitio"
	"github.com/ronanh/intcomp"

	"github.com/verisql/verisql/base/database"
)

// Result tables travel inside the proof as a cbor envelope with per-column
// payloads in kind-specific packings: booleans as a bit stream, integers and
// timestamps through intcomp's block compression, scalars and decimals as
// canonical 32-byte big-endian words, and strings as uvarint-length-prefixed
// UTF-8. The envelope is deterministic so the transcript binding is stable.

var resultEncMode cbor.EncMode
var resultDecMode cbor.DecMode

// maxResultRows caps the claimed row count of a received result table, in
// line with the decoder's array-element limit. Everything the decoder
// allocates is bounded by it.
const maxResultRows = 1 << 24

func init() {
	var err error
	resultEncMode, err = cbor.EncOptions{Sort: cbor.SortCoreDeterministic}.EncMode()
	if err != nil {
		panic(err)
	}
	resultDecMode, err = cbor.DecOptions{MaxArrayElements: 1 << 24}.DecMode()
	if err != nil {
		panic(err)
	}
}

type encodedColumn struct {
	Ident string              `cbor:"1,keyasint"`
	Type  database.ColumnType `cbor:"2,keyasint"`
	Data  []byte              `cbor:"3,keyasint"`
}

type encodedTable struct {
	NumRows int             `cbor:"1,keyasint"`
	Columns []encodedColumn `cbor:"2,keyasint"`
}

// EncodeTable serializes a result table into the proof's wire form.
func EncodeTable(t database.OwnedTable) ([]byte, error) {
	enc := encodedTable{
		NumRows: t.NumRows(),
		Columns: make([]encodedColumn, t.NumColumns()),
	}
	for i := 0; i < t.NumColumns(); i++ {
		col := t.ColumnAt(i)
		data, err := encodeColumnData(col)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", t.Idents()[i], err)
		}
		enc.Columns[i] = encodedColumn{
			Ident: string(t.Idents()[i]),
			Type:  col.Type,
			Data:  data,
		}
	}
	return resultEncMode.Marshal(enc)
}

func encodeColumnData(col database.OwnedColumn) ([]byte, error) {
	var buf bytes.Buffer
	switch col.Type.Kind {
	case database.KindBoolean:
		w := bitio.NewWriter(&buf)
		for _, v := range col.Bools {
			if err := w.WriteBool(v); err != nil {
				return nil, err
			}
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
	case database.KindScalar, database.KindDecimal:
		for i := range col.Scalars {
			b := col.Scalars[i].Bytes()
			buf.Write(b[:])
		}
	case database.KindVarChar:
		var lenBuf [binary.MaxVarintLen64]byte
		for _, s := range col.Strings {
			n := binary.PutUvarint(lenBuf[:], uint64(len(s)))
			buf.Write(lenBuf[:n])
			buf.WriteString(s)
		}
	default:
		packed := intcomp.CompressInt64(col.Ints, nil)
		var word [8]byte
		for _, w := range packed {
			binary.LittleEndian.PutUint64(word[:], w)
			buf.Write(word[:])
		}
	}
	return buf.Bytes(), nil
}

// DecodeTable parses a result table from its wire form, validating that every
// value is representable in its declared type. All failures are decoding
// errors; none of them says anything about the proof itself.
func DecodeTable(data []byte) (database.OwnedTable, error) {
	var enc encodedTable
	if err := resultDecMode.Unmarshal(data, &enc); err != nil {
		return database.OwnedTable{}, decodingErrorf("unmarshal result table: %v", err)
	}
	if enc.NumRows < 0 {
		return database.OwnedTable{}, decodingErrorf("negative row count %d", enc.NumRows)
	}
	if enc.NumRows > maxResultRows {
		return database.OwnedTable{}, decodingErrorf("row count %d exceeds limit of %d", enc.NumRows, maxResultRows)
	}
	idents := make([]database.Ident, len(enc.Columns))
	columns := make([]database.OwnedColumn, len(enc.Columns))
	for i, ec := range enc.Columns {
		idents[i] = database.Ident(ec.Ident)
		col, err := decodeColumnData(ec.Type, ec.Data, enc.NumRows)
		if err != nil {
			return database.OwnedTable{}, decodingErrorf("column %q: %v", ec.Ident, err)
		}
		columns[i] = col
	}
	table, err := database.NewOwnedTable(idents, columns)
	if err != nil {
		return database.OwnedTable{}, decodingErrorf("%v", err)
	}
	if err := table.Validate(); err != nil {
		return database.OwnedTable{}, decodingErrorf("%v", err)
	}
	return table, nil
}

func decodeColumnData(typ database.ColumnType, data []byte, numRows int) (database.OwnedColumn, error) {
	col := database.OwnedColumn{Type: typ}
	switch typ.Kind {
	case database.KindBoolean:
		if len(data) != (numRows+7)/8 {
			return col, fmt.Errorf("boolean payload is %d bytes, want %d", len(data), (numRows+7)/8)
		}
		r := bitio.NewReader(bytes.NewReader(data))
		col.Bools = make([]bool, numRows)
		for i := range col.Bools {
			v, err := r.ReadBool()
			if err != nil {
				return col, err
			}
			col.Bools[i] = v
		}
	case database.KindScalar, database.KindDecimal:
		if len(data) != numRows*fr.Bytes {
			return col, fmt.Errorf("scalar payload is %d bytes, want %d", len(data), numRows*fr.Bytes)
		}
		col.Scalars = make([]fr.Element, numRows)
		for i := range col.Scalars {
			if err := col.Scalars[i].SetBytesCanonical(data[i*fr.Bytes : (i+1)*fr.Bytes]); err != nil {
				return col, err
			}
		}
	case database.KindVarChar:
		// every string costs at least its length prefix byte
		if len(data) < numRows {
			return col, fmt.Errorf("string payload is %d bytes for %d rows", len(data), numRows)
		}
		col.Strings = make([]string, numRows)
		rest := data
		for i := range col.Strings {
			n, used := binary.Uvarint(rest)
			if used <= 0 || uint64(len(rest)-used) < n {
				return col, fmt.Errorf("truncated string payload")
			}
			col.Strings[i] = string(rest[used : used+int(n)])
			rest = rest[used+int(n):]
		}
		if len(rest) != 0 {
			return col, fmt.Errorf("%d trailing bytes in string payload", len(rest))
		}
	case database.KindTinyInt, database.KindSmallInt, database.KindInt, database.KindBigInt, database.KindTimestamp:
		if len(data)%8 != 0 {
			return col, fmt.Errorf("integer payload is %d bytes, not word-aligned", len(data))
		}
		packed := make([]uint64, len(data)/8)
		for i := range packed {
			packed[i] = binary.LittleEndian.Uint64(data[i*8 : (i+1)*8])
		}
		ints, err := uncompressInts(packed, numRows)
		if err != nil {
			return col, err
		}
		col.Ints = ints
	default:
		return col, fmt.Errorf("unknown column kind %d", typ.Kind)
	}
	return col, nil
}

// uncompressInts unpacks an intcomp stream after validating its block
// headers. intcomp sizes its output allocation and its header scan from
// counts embedded in the payload itself, so a forged block header must be
// rejected before it drives either.
func uncompressInts(packed []uint64, numRows int) (out []int64, err error) {
	words := packed
	if len(words) > 0 {
		// the trailing word holds the last block's compressed length
		words = words[:len(words)-1]
	}
	total := 0
	for i := 0; i < len(words); {
		// block header: low 32 bits value count, high 32 bits word count
		count := int(int32(words[i]))
		stride := int(words[i] >> 32)
		if count < 1 || stride < 1 || stride > len(words)-i {
			return nil, fmt.Errorf("malformed integer block header")
		}
		total += count
		if total > numRows {
			return nil, fmt.Errorf("integer payload declares %d rows, want %d", total, numRows)
		}
		i += stride
	}
	if total != numRows {
		return nil, fmt.Errorf("integer payload has %d rows, want %d", total, numRows)
	}
	// a block can still misstate its interior layout, which sends the
	// unpacker past the end of the stream
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("malformed integer payload: %v", r)
		}
	}()
	out = intcomp.UncompressInt64(packed, make([]int64, 0, numRows))
	if len(out) != numRows {
		return nil, fmt.Errorf("integer payload has %d rows, want %d", len(out), numRows)
	}
	return out, nil
}
