package env

import "github.com/denisbrodbeck/machineid"

const (
	appID          = "calc"
	deviceIDLength = 12
)

// MachineID returns a stable ID of this machine derived for the calculator,
// or an empty string if the machine ID isn't available.
func MachineID() string {
	id, err := machineid.ProtectedID(appID)
	if err != nil {
		return ""
	}
	if len(id) > deviceIDLength {
		id = id[:deviceIDLength]
	}
	return id
}
