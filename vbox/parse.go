package vbox

import (
	"regexp"
	"strings"

	"github.com/projecteru2/vboxctl/types"
)

var (
	quotedKV   = regexp.MustCompile(`^([^=]+)="(.*)"$`)
	unquotedKV = regexp.MustCompile(`^([^=]+)=(.*)$`)
)

// ParseMachineInfo parses `--machinereadable` output. Values may be quoted or
// bare; keys may be quoted. Blank lines and lines without '=' are skipped,
// since machine-readable output is not always machine readable.
func ParseMachineInfo(output string) *types.MachineInfo {
	info := &types.MachineInfo{}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		m := quotedKV.FindStringSubmatch(line)
		if m == nil {
			m = unquotedKV.FindStringSubmatch(line)
		}
		if m == nil {
			continue
		}
		key := strings.Trim(strings.TrimSpace(m[1]), `"`)
		if key == "" {
			continue
		}
		info.Set(key, m[2])
	}
	return info
}

// ParseOSTypes parses `list ostypes`: blank-line separated blocks of
// "Field: value" lines.
func ParseOSTypes(output string) []types.OSType {
	var (
		out []types.OSType
		cur types.OSType
	)
	flush := func() {
		if cur.ID != "" {
			out = append(out, cur)
		}
		cur = types.OSType{}
	}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line == "" {
			flush()
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "ID":
			if cur.ID != "" {
				flush()
			}
			cur.ID = value
		case "Description":
			cur.Description = value
		case "Family ID":
			cur.FamilyID = value
		case "Family Desc":
			cur.FamilyDescription = value
		case "64 bit":
			cur.Is64Bit = value == "true"
		}
	}
	flush()
	return out
}
