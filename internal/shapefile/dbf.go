package shapefile

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// DBF layout constants. The header carries the record count, header length,
// and record length at fixed offsets; 32-byte field descriptors follow from
// offset 32 up to the declared header length.
const (
	dbfHeaderMin     = 32
	dbfDescriptorLen = 32
	dbfFieldNameLen  = 11
	dbfFieldWidthOff = 16
	dbfTerminator    = 0x0d
)

// AttributeTable is the decoded contents of a DBF attribute table. Fields
// preserves column order; every record carries exactly one trimmed string
// value per field.
type AttributeTable struct {
	Fields  []string
	Records []map[string]string
}

type dbfField struct {
	name  string
	width int
}

// DecodeDBF parses a DBF buffer into a field schema and one record per row.
// Deleted-row flags are skipped but the rows themselves are kept, so record
// indices stay aligned with the geometry stream. Decoding stops at the
// declared record count or when the buffer runs out, whichever comes first.
func DecodeDBF(buf []byte) (*AttributeTable, error) {
	if len(buf) < dbfHeaderMin {
		return nil, eris.Wrapf(ErrMalformedHeader, "dbf: buffer is %d bytes, header needs %d", len(buf), dbfHeaderMin)
	}

	recordCount := int(binary.LittleEndian.Uint32(buf[4:8]))
	headerLen := int(binary.LittleEndian.Uint16(buf[8:10]))
	recordLen := int(binary.LittleEndian.Uint16(buf[10:12]))

	if headerLen > len(buf) {
		return nil, eris.Wrapf(ErrMalformedHeader, "dbf: declared header length %d exceeds buffer %d", headerLen, len(buf))
	}

	fields := decodeFieldDescriptors(buf, headerLen)
	if len(fields) == 0 {
		return nil, eris.Wrap(ErrMalformedHeader, "dbf: no field descriptors")
	}
	if recordLen <= 0 {
		return nil, eris.Wrapf(ErrMalformedHeader, "dbf: declared record length %d", recordLen)
	}

	schema := make([]string, len(fields))
	for i, f := range fields {
		schema[i] = f.name
	}

	records := make([]map[string]string, 0, recordCount)
	for off := headerLen; off+recordLen <= len(buf) && len(records) < recordCount; off += recordLen {
		rec := buf[off : off+recordLen]

		// First byte is the deletion flag.
		pos := 1
		values := make(map[string]string, len(fields))
		for _, f := range fields {
			end := pos + f.width
			if end > len(rec) {
				end = len(rec)
			}
			if pos > end {
				pos = end
			}
			values[f.name] = fieldValue(rec[pos:end])
			pos = end
		}
		records = append(records, values)
	}

	return &AttributeTable{Fields: schema, Records: records}, nil
}

// decodeFieldDescriptors reads 32-byte descriptors until the header length or
// the 0x0D terminator. Field width comes from descriptor byte 16; names are
// deduplicated positionally so every record keeps one value per column.
func decodeFieldDescriptors(buf []byte, headerLen int) []dbfField {
	var fields []dbfField
	seen := make(map[string]bool)

	for off := dbfHeaderMin; off+dbfDescriptorLen <= headerLen; off += dbfDescriptorLen {
		if buf[off] == dbfTerminator {
			break
		}
		desc := buf[off : off+dbfDescriptorLen]

		name := fieldValue(desc[:dbfFieldNameLen])
		if name == "" {
			name = "field"
		}
		if seen[name] {
			name = name + "_" + strconv.Itoa(len(fields)+1)
		}
		seen[name] = true

		fields = append(fields, dbfField{name: name, width: int(desc[dbfFieldWidthOff])})
	}

	return fields
}

// fieldValue cuts a fixed-width field at its first NUL and trims whitespace.
func fieldValue(raw []byte) string {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(string(raw))
}
