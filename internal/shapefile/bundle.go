package shapefile

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"strings"

	"github.com/rotisserie/eris"
)

// Bundle holds the raw component buffers of one shapefile upload. SHP and DBF
// are always present; SHX and PRJ are nil when the archive lacks them.
type Bundle struct {
	SHP []byte
	SHX []byte
	DBF []byte
	PRJ []byte
}

// OpenBundle reads a zipped shapefile upload and extracts the component
// buffers by extension. The first entry per extension wins; macOS resource
// forks and hidden entries are ignored.
func OpenBundle(data []byte) (*Bundle, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, eris.Wrap(err, "shapefile: open archive")
	}

	var b Bundle
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}
		name := path.Base(f.Name)
		if strings.HasPrefix(name, ".") {
			continue
		}

		var dst *[]byte
		switch strings.ToLower(path.Ext(name)) {
		case ".shp":
			dst = &b.SHP
		case ".shx":
			dst = &b.SHX
		case ".dbf":
			dst = &b.DBF
		case ".prj":
			dst = &b.PRJ
		default:
			continue
		}
		if *dst != nil {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, eris.Wrapf(err, "shapefile: open archive entry %s", f.Name)
		}
		buf, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, eris.Wrapf(err, "shapefile: read archive entry %s", f.Name)
		}
		*dst = buf
	}

	if b.SHP == nil {
		return nil, eris.Wrap(ErrMissingComponent, "shapefile: no .shp entry in archive")
	}
	if b.DBF == nil {
		return nil, eris.Wrap(ErrMissingComponent, "shapefile: no .dbf entry in archive")
	}

	return &b, nil
}
