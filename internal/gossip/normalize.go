package gossip

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minPubkeyLen guards against truncated or junk keys in gossip responses.
const minPubkeyLen = 32

var (
	sanitizer   = bluemonday.StrictPolicy()
	countryCase = cases.Title(language.English)
)

// normalize converts wire pods into Records, dropping entries without a usable
// pubkey and scrubbing display strings. Credits from the credits index override
// whatever the stats payload carried.
func normalize(pods []wirePod, credits map[string]float64) []Record {
	records := make([]Record, 0, len(pods))
	for _, pod := range pods {
		key := pod.Pubkey
		if key == "" {
			key = pod.PublicKey
		}
		key = strings.TrimSpace(key)
		if len(key) < minPubkeyLen {
			continue
		}

		rec := Record{
			Pubkey:          key,
			Address:         cleanDisplay(pod.Address),
			City:            cleanDisplay(pod.City),
			Country:         countryCase.String(cleanDisplay(pod.Country)),
			PacketsReceived: pod.PacketsReceived,
			PacketsSent:     pod.PacketsSent,
			ActiveStreams:   pod.ActiveStreams,
			Credits:         pod.Credits,
		}
		if rec.Credits == 0 {
			rec.Credits = pod.Balance
		}
		if v, ok := credits[key]; ok {
			rec.Credits = v
		}
		records = append(records, rec)
	}
	return records
}

// cleanDisplay strips markup and surrounding whitespace from strings destined
// for browser clients. Gossip payloads are not trusted input.
func cleanDisplay(s string) string {
	return strings.TrimSpace(sanitizer.Sanitize(s))
}
