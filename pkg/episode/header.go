package episode

import (
	"os"
	"strings"
	"time"

	"github.com/aymerick/raymond"
	"github.com/fulmenhq/episodemerge/internal/assets"
)

// ToolName appears in the provenance banner of merged files
const ToolName = "episodemerge"

const timestampLayout = "2006-01-02T15:04:05.000-07:00"

var headerTemplate = mustLoadHeaderTemplate()

func mustLoadHeaderTemplate() *raymond.Template {
	src, ok := assets.GetTemplate("episode-header.hbs")
	if !ok {
		panic("episode header template is not embedded")
	}
	return raymond.MustParse(string(src))
}

// Header builds the provenance text placed in a comment at the top of a merged
// file: a do-not-edit banner, every source path in scan order and the time of
// generation in the local time zone.
func Header(files []string, now time.Time) string {
	sources := make([]string, len(files))
	for i, f := range files {
		sources[i] = commentSafe(f)
	}
	out := headerTemplate.MustExec(map[string]interface{}{
		"tool":      ToolName,
		"sources":   sources,
		"timestamp": FormatTimestamp(now),
	})
	return strings.TrimRight(out, "\r\n")
}

// localZoneID is the region id of the system time zone, empty when unknown
var localZoneID = systemZoneID()

// FormatTimestamp renders t in local time with the region id of the local zone,
// e.g. 2026-10-18T09:30:00.000+02:00[Europe/Berlin]. The zone abbreviation is
// used when the region id cannot be determined.
func FormatTimestamp(t time.Time) string {
	return formatTimestamp(t.Local(), localZoneID)
}

func formatTimestamp(t time.Time, zoneID string) string {
	if zoneID == "" {
		zoneID = t.Location().String()
	}
	if zoneID == "" || zoneID == "Local" {
		zoneID, _ = t.Zone()
	}
	return t.Format(timestampLayout) + "[" + zoneID + "]"
}

// systemZoneID resolves the zone the runtime loaded as time.Local: TZ when set,
// otherwise the zoneinfo entry /etc/localtime links to.
func systemZoneID() string {
	if tz, ok := os.LookupEnv("TZ"); ok {
		tz = strings.TrimPrefix(tz, ":")
		if tz == "" {
			return "UTC"
		}
		return zoneinfoName(tz)
	}
	target, err := os.Readlink("/etc/localtime")
	if err != nil {
		return ""
	}
	return zoneinfoName(target)
}

// zoneinfoName strips a zoneinfo directory from path; relative names are ids already
func zoneinfoName(path string) string {
	if i := strings.LastIndex(path, "zoneinfo/"); i >= 0 {
		return path[i+len("zoneinfo/"):]
	}
	if strings.HasPrefix(path, "/") {
		return ""
	}
	return path
}

// commentSafe breaks up "--", which may not appear inside an XML comment
func commentSafe(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "- -")
	}
	return s
}
