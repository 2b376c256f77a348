package instance

import "os"

const fallbackID = "storefront-0"

// GetID returns the process instance identifier used in startup logs. The
// explicit override wins over the platform dyno name and the hostname.
func GetID() string {
	for _, key := range []string{"STOREFRONT_INSTANCE_ID", "DYNO"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallbackID
}
