package inference

import (
	"strconv"
	"strings"
)

const utf8BOM = "\ufeff"

// resolveHeader names every column of the header line. An empty cell at
// position i becomes Untitled_<i>; a name already taken by an earlier
// column becomes <name>_<i>.
func resolveHeader(line, delimiter string) []string {
	line = strings.TrimPrefix(line, utf8BOM)
	cells := strings.Split(line, delimiter)

	names := make([]string, len(cells))
	taken := make(map[string]struct{}, len(cells))
	for i, cell := range cells {
		name := cell
		if name == "" {
			name = "Untitled_" + strconv.Itoa(i)
		}
		for {
			if _, dup := taken[name]; !dup {
				break
			}
			name += "_" + strconv.Itoa(i)
		}
		taken[name] = struct{}{}
		names[i] = name
	}
	return names
}

// trimEOL drops a trailing "\n" or "\r\n".
func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
