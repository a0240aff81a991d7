package instance

import "os"

// GetID returns the instance identifier used to tag worker log lines.
func GetID() string {
	if id := os.Getenv("SUPPLYCART_INSTANCE_ID"); id != "" {
		return id
	}
	return "supplycart-0"
}
