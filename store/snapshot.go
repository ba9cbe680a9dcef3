package store

import (
	jsoniter "github.com/json-iterator/go"

	"statbar/clock"
	"statbar/module"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Snapshot is the flattened persisted form of the store: module order plus
// per-id flag and config maps. It round-trips serialize → deserialize →
// normalize without violating the store invariants.
type Snapshot struct {
	ModuleOrder             []string                        `json:"moduleOrder" plist:"moduleOrder"`
	ModuleEnabled           map[string]bool                 `json:"moduleEnabled" plist:"moduleEnabled"`
	ModuleShowsValue        map[string]bool                 `json:"moduleShowsValue" plist:"moduleShowsValue"`
	ClockSettingsByModuleID map[string]clock.Settings       `json:"clockSettingsByModuleID" plist:"clockSettingsByModuleID"`
	CPUConfigByModuleID     map[string]module.CPUConfig     `json:"cpuConfigByModuleID" plist:"cpuConfigByModuleID"`
	MemoryConfigByModuleID  map[string]module.MemoryConfig  `json:"memoryConfigByModuleID" plist:"memoryConfigByModuleID"`
	DiskConfigByModuleID    map[string]module.DiskConfig    `json:"diskConfigByModuleID" plist:"diskConfigByModuleID"`
	NetworkConfigByModuleID map[string]module.NetworkConfig `json:"networkConfigByModuleID" plist:"networkConfigByModuleID"`
}

func encodeSnapshot(s Snapshot) ([]byte, error) {
	return json.Marshal(s)
}

func decodeSnapshot(payload []byte) (Snapshot, error) {
	var s Snapshot
	err := json.Unmarshal(payload, &s)
	return s, err
}
