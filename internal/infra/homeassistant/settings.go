package homeassistant

import (
	"os"
	"strings"
	"time"
)

// SupervisorURL is where a co-located Home Assistant is reachable from an
// add-on container.
const SupervisorURL = "http://hassio/homeassistant"

const DefaultTimeout = 10 * time.Second

// Settings is everything needed to build a Client. A zero URL means the skill
// has not been set up yet.
type Settings struct {
	URL                string
	Token              string
	Password           string
	Timeout            time.Duration
	InsecureSkipVerify bool
	SocksProxy         string
}

// Resolve fills URL and Token from the supervisor environment when no URL was
// configured explicitly.
func (s Settings) Resolve() Settings {
	if strings.TrimSpace(s.URL) != "" {
		return s
	}
	if token := os.Getenv("HASSIO_TOKEN"); token != "" {
		s.URL = SupervisorURL
		s.Token = token
		s.Password = ""
	}
	return s
}

func (s Settings) Configured() bool {
	return strings.TrimSpace(s.URL) != ""
}
