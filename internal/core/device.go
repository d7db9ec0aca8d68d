package core

// DeviceType indicates the kind of playback device.
type DeviceType string

const (
	DeviceTypeComputer   DeviceType = "computer"
	DeviceTypeSmartphone DeviceType = "smartphone"
	DeviceTypeSpeaker    DeviceType = "speaker"
	DeviceTypeTV         DeviceType = "tv"
	DeviceTypeUnknown    DeviceType = "unknown"
)

// Device represents the playback device reported by the server. There is
// always a device in the snapshot; when nothing is active the unknown
// sentinel is used instead of a nil.
type Device struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Type             DeviceType `json:"type"`
	VolumePercent    int        `json:"volume_percent"`
	SupportsVolume   bool       `json:"supports_volume"`
	IsPrivateSession bool       `json:"is_private_session"`
	IsRestricted     bool       `json:"is_restricted"`
}

// UnknownDevice returns the sentinel device used when no device is active.
func UnknownDevice() Device {
	return Device{
		ID:   "",
		Name: "Unknown Device",
		Type: DeviceTypeUnknown,
	}
}
