// internal/requestinfo/requestinfo.go
//
// Per-request metadata (user-agent fingerprint, IP + geolocation, URL, and
// timestamp) used to enrich the auth audit trail.  These structs are inert:
// no database handles, no large buffers, safe to log or JSON-encode.
//
// Dependencies
// • github.com/avct/uasurfer          (UA parsing)
// • github.com/oschwald/geoip2-golang (MaxMind lookup, optional)

package requestinfo

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
)

//
// Struct definitions
//

// UA holds the parsed user-agent properties the audit log records.
type UA struct {
	Raw      string // entire User-Agent header
	Browser  string // "Chrome", "Firefox", "Safari", …
	Version  string // "124.0.6367"
	OS       string // "MacOSX", "Windows", "Android", …
	Device   string // "Computer", "Phone", "Tablet", …
	IsBot    bool
	PrimLang string // first tag from Accept-Language
}

// Geo holds IP-based geolocation hints.  Best-effort; empty when no reader
// is configured or the DB has no match.
type Geo struct {
	IP         net.IP
	CountryISO string
	City       string
}

// RequestInfo is attached to the request context by Enrich.
type RequestInfo struct {
	UA        UA
	Geo       Geo
	URL       *url.URL // pointer copy, safe to dereference read-only
	Timestamp time.Time
}

//
// Package-level state
//

// geoReader is a singleton MaxMind handle, safe for concurrent reads.  It
// stays nil when no GeoLite2 path is configured; lookups then return an
// empty Geo instead of failing the boot.
var geoReader *geoip2.Reader

// InitGeo opens the GeoLite2-City database.  Call from main() when
// cfg.Geo.DBPath is set; skipping it disables geo enrichment only.
func InitGeo(dbPath string) error {
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return err
	}
	geoReader = r
	return nil
}

type ctxKey struct{} // unexported, collision-proof

// FromContext returns the pointer previously stored by Enrich, or nil when
// the middleware has not run.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

//
// Internal helpers
//

// parseUA converts a raw header into our UA struct using uasurfer.
func parseUA(uaHeader, acceptLang string) UA {
	u := uasurfer.Parse(uaHeader)

	ver := strconv.Itoa(u.Browser.Version.Major) + "." +
		strconv.Itoa(u.Browser.Version.Minor) + "." +
		strconv.Itoa(u.Browser.Version.Patch)

	lang := acceptLang
	if i := strings.IndexAny(lang, ",;"); i != -1 {
		lang = lang[:i]
	}

	return UA{
		Raw:      uaHeader,
		Browser:  strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		Version:  ver,
		OS:       strings.TrimPrefix(u.OS.Name.String(), "OS"),
		Device:   strings.TrimPrefix(u.DeviceType.String(), "Device"),
		IsBot:    u.IsBot(),
		PrimLang: strings.TrimSpace(lang),
	}
}

// lookupGeo resolves ip through the MaxMind reader when one is open.
func lookupGeo(ip net.IP) Geo {
	g := Geo{IP: ip}
	if geoReader == nil || ip == nil {
		return g
	}
	rec, err := geoReader.City(ip)
	if err != nil {
		return g
	}
	g.CountryISO = rec.Country.IsoCode
	g.City = rec.City.Names["en"]
	return g
}
