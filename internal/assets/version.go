package assets

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf16"

	"github.com/hos-modding/hosmod/internal/defs"
)

// versionPattern accepts dotted numeric versions with two to four
// components, e.g. 8.1 or 8.1.2.0.
var versionPattern = regexp.MustCompile(`^\d+(\.\d+){1,3}$`)

// versionInfoKeys are the PE version-resource string keys scanned as a
// fallback when no version marker file exists, in preference order.
var versionInfoKeys = []string{"ProductVersion", "FileVersion"}

// DetectGameVersion determines the installed game version. Marker files
// win over assembly metadata: the first line of version.txt next to the
// assemblies, under StreamingAssets, or in the game data root. Without a
// marker, the vanilla assembly's version resource is scanned.
func DetectGameVersion(managedDir string) (string, error) {
	markers := []string{
		filepath.Join(managedDir, "version.txt"),
		filepath.Join(managedDir, "..", "StreamingAssets", "version.txt"),
		filepath.Join(managedDir, "..", "version.txt"),
	}
	for _, marker := range markers {
		if version, ok := readVersionMarker(marker); ok {
			return version, nil
		}
	}

	assembly := filepath.Join(managedDir, defs.VanillaAssembly)
	if data, err := os.ReadFile(assembly); err == nil {
		if version, ok := scanAssemblyVersion(data); ok {
			return version, nil
		}
	}

	return "", fmt.Errorf("%w: no version.txt found near %s and %s carries no readable version metadata; create %s containing the game version (e.g. 8.1.0) to fix detection",
		ErrGameVersionUnknown, managedDir, defs.VanillaAssembly, filepath.Join(managedDir, "version.txt"))
}

// readVersionMarker returns the version on the first line of path when it
// looks like a version number.
func readVersionMarker(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	line, _, _ := strings.Cut(string(data), "\n")
	line = strings.TrimSpace(strings.TrimPrefix(line, "\uFEFF"))
	if !versionPattern.MatchString(line) {
		return "", false
	}
	return line, true
}

// scanAssemblyVersion digs a version string out of the assembly's PE
// version resource. Resource strings are UTF-16LE key/value pairs, so the
// key bytes are located directly and the NUL-terminated value after them
// is decoded.
func scanAssemblyVersion(data []byte) (string, bool) {
	for _, key := range versionInfoKeys {
		needle := encodeUTF16LE(key)
		for offset := 0; offset < len(data); {
			idx := bytes.Index(data[offset:], needle)
			if idx < 0 {
				break
			}
			pos := offset + idx + len(needle)
			if value, ok := decodeUTF16Value(data, pos); ok && versionPattern.MatchString(value) {
				return value, true
			}
			offset += idx + len(needle)
		}
	}
	return "", false
}

func encodeUTF16LE(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 2*len(units))
	for i, u := range units {
		binary.LittleEndian.PutUint16(out[2*i:], u)
	}
	return out
}

// decodeUTF16Value reads the WORD-aligned, NUL-padded value that follows
// a version-resource key at pos.
func decodeUTF16Value(data []byte, pos int) (string, bool) {
	for pos+1 < len(data) && data[pos] == 0 && data[pos+1] == 0 {
		pos += 2
	}

	var units []uint16
	for pos+1 < len(data) && len(units) < 64 {
		u := binary.LittleEndian.Uint16(data[pos:])
		if u == 0 {
			break
		}
		units = append(units, u)
		pos += 2
	}
	if len(units) == 0 {
		return "", false
	}
	return strings.TrimSpace(string(utf16.Decode(units))), true
}
