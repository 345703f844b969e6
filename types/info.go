package types

// Property is one KEY=VALUE line of machine-readable output.
type Property struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// MachineInfo holds machine-readable properties in output order.
type MachineInfo struct {
	Properties []Property
	index      map[string]int
}

// Set appends key, or overwrites it in place when already present.
func (m *MachineInfo) Set(key, value string) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[key]; ok {
		m.Properties[i].Value = value
		return
	}
	m.index[key] = len(m.Properties)
	m.Properties = append(m.Properties, Property{Key: key, Value: value})
}

// Get returns the value for key and whether it was present.
func (m *MachineInfo) Get(key string) (string, bool) {
	i, ok := m.index[key]
	if !ok {
		return "", false
	}
	return m.Properties[i].Value, true
}

// State returns the VMState property, or VMStateUnknown.
func (m *MachineInfo) State() VMState {
	v, ok := m.Get("VMState")
	if !ok || v == "" {
		return VMStateUnknown
	}
	return VMState(v)
}

// Map returns a copy of the properties as a map.
func (m *MachineInfo) Map() map[string]string {
	out := make(map[string]string, len(m.Properties))
	for _, p := range m.Properties {
		out[p.Key] = p.Value
	}
	return out
}

// OSType is one entry of `list ostypes`.
type OSType struct {
	ID                string `json:"id"`
	Description       string `json:"description"`
	FamilyID          string `json:"family_id"`
	FamilyDescription string `json:"family_description"`
	Is64Bit           bool   `json:"is_64bit"`
}
