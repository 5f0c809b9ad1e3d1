package handlers

import (
	"time"

	"github.com/vzahanych/owm-weather-tool/internal/service"
)

const localTimeLayout = "2006-01-02 15:04:05"

// withLocalTime returns a copy of an object payload with local_time added.
// The offset comes from the payload's timezone field (seconds east of UTC)
// and, when that is missing, from the requested longitude at 15 degrees per
// hour. Other payloads are returned as is.
func withLocalTime(payload interface{}, params service.QueryParameters, now time.Time) interface{} {
	data, ok := payload.(map[string]interface{})
	if !ok {
		return payload
	}

	enriched := make(map[string]interface{}, len(data)+2)
	for k, v := range data {
		enriched[k] = v
	}

	utc := now.UTC()
	if offset, ok := data["timezone"].(float64); ok {
		enriched["local_time"] = utc.Add(time.Duration(offset) * time.Second).Format(localTimeLayout)
		enriched["timezone_offset_hours"] = int(offset / 3600)
		return enriched
	}

	if params.Lat != nil && params.Lon != nil {
		hours := int(*params.Lon / 15)
		enriched["local_time"] = utc.Add(time.Duration(hours) * time.Hour).Format(localTimeLayout)
		enriched["timezone_offset"] = hours
		return enriched
	}
	return payload
}
