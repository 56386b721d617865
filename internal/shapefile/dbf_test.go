package shapefile

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testField struct {
	name  string
	width int
}

// buildDBF assembles a DBF buffer with the given schema and rows. Values are
// space-padded to their field width like real writers produce.
func buildDBF(t *testing.T, fields []testField, rows [][]string) []byte {
	t.Helper()

	headerLen := 32 + 32*len(fields) + 1
	recordLen := 1
	for _, f := range fields {
		recordLen += f.width
	}

	buf := make([]byte, headerLen+recordLen*len(rows))
	buf[0] = 0x03
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(rows)))
	binary.LittleEndian.PutUint16(buf[8:10], uint16(headerLen))
	binary.LittleEndian.PutUint16(buf[10:12], uint16(recordLen))

	for i, f := range fields {
		desc := buf[32+32*i:]
		copy(desc[:11], f.name)
		desc[11] = 'C'
		desc[16] = byte(f.width)
	}
	buf[32+32*len(fields)] = dbfTerminator

	for r, row := range rows {
		rec := buf[headerLen+recordLen*r:]
		rec[0] = ' '
		pos := 1
		for i, f := range fields {
			require.LessOrEqual(t, len(row[i]), f.width)
			copy(rec[pos:pos+f.width], padded(row[i], f.width))
			pos += f.width
		}
	}

	return buf
}

func padded(v string, width int) []byte {
	out := make([]byte, width)
	for i := range out {
		out[i] = ' '
	}
	copy(out, v)
	return out
}

func TestDecodeDBF_RoundTripCount(t *testing.T) {
	fields := []testField{{"NAME", 12}, {"CAPACITY", 8}, {"TYPE", 6}}
	rows := [][]string{
		{"Plant A", "120.5", "solar"},
		{"Plant B", "88", "wind"},
		{"Plant C", "7.25", "hydro"},
	}

	table, err := DecodeDBF(buildDBF(t, fields, rows))
	require.NoError(t, err)

	assert.Equal(t, []string{"NAME", "CAPACITY", "TYPE"}, table.Fields)
	require.Len(t, table.Records, 3)
	for _, rec := range table.Records {
		assert.Len(t, rec, 3)
	}
	assert.Equal(t, "Plant B", table.Records[1]["NAME"])
	assert.Equal(t, "88", table.Records[1]["CAPACITY"])
	assert.Equal(t, "hydro", table.Records[2]["TYPE"])
}

func TestDecodeDBF_HeterogeneousWidths(t *testing.T) {
	// Widths differ per field; values must come from the descriptor widths,
	// not from dividing the record length evenly.
	fields := []testField{{"ID", 2}, {"LABEL", 20}}
	rows := [][]string{{"7", "Central Substation"}}

	table, err := DecodeDBF(buildDBF(t, fields, rows))
	require.NoError(t, err)

	assert.Equal(t, "7", table.Records[0]["ID"])
	assert.Equal(t, "Central Substation", table.Records[0]["LABEL"])
}

func TestDecodeDBF_StopsAtBufferEnd(t *testing.T) {
	fields := []testField{{"NAME", 8}}
	buf := buildDBF(t, fields, [][]string{{"one"}, {"two"}, {"three"}})

	// Declare five records but only supply three.
	binary.LittleEndian.PutUint32(buf[4:8], 5)

	table, err := DecodeDBF(buf)
	require.NoError(t, err)
	assert.Len(t, table.Records, 3)
}

func TestDecodeDBF_HeaderBeyondBuffer(t *testing.T) {
	buf := buildDBF(t, []testField{{"NAME", 8}}, nil)
	binary.LittleEndian.PutUint16(buf[8:10], uint16(len(buf)+100))

	_, err := DecodeDBF(buf)
	require.ErrorIs(t, err, ErrMalformedHeader)
}

func TestDecodeDBF_NoFields(t *testing.T) {
	buf := make([]byte, 40)
	binary.LittleEndian.PutUint16(buf[8:10], 33)
	binary.LittleEndian.PutUint16(buf[10:12], 1)
	buf[32] = dbfTerminator

	_, err := DecodeDBF(buf)
	require.ErrorIs(t, err, ErrMalformedHeader)
}

func TestDecodeDBF_ShortBuffer(t *testing.T) {
	_, err := DecodeDBF([]byte{0x03, 0x00})
	require.ErrorIs(t, err, ErrMalformedHeader)
}

func TestDecodeDBF_DuplicateFieldNames(t *testing.T) {
	fields := []testField{{"NAME", 4}, {"NAME", 4}}
	rows := [][]string{{"a", "b"}}

	table, err := DecodeDBF(buildDBF(t, fields, rows))
	require.NoError(t, err)

	require.Len(t, table.Fields, 2)
	assert.NotEqual(t, table.Fields[0], table.Fields[1])
	assert.Len(t, table.Records[0], 2)
}
